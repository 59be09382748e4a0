package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/automoto/skirmish/shared/directory"
	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 16

// NewMux routes the directory endpoints to reg.
func NewMux(reg *Registry, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+directory.PathServers, ListServers(reg, logger))
	mux.HandleFunc("POST "+directory.PathRegister, RegisterServer(reg, logger))
	mux.HandleFunc("POST "+directory.PathHeartbeat, Heartbeat(reg, logger))
	mux.HandleFunc("GET "+directory.PathHealth, Health())
	return mux
}

// ListServers answers GET /servers. The version, loadout and open query
// parameters narrow the result.
func ListServers(reg *Registry, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid open parameter")
			return
		}
		writeJSON(w, http.StatusOK, reg.List(f), logger)
	}
}

func RegisterServer(reg *Registry, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req directory.RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" || req.Address == "" {
			writeError(w, http.StatusBadRequest, "name and address required")
			return
		}
		if req.TickRate <= 0 {
			writeError(w, http.StatusBadRequest, "tickRate must be positive")
			return
		}

		id := reg.Register(req)
		logger.Info().
			Str("server", req.Name).
			Str("address", req.Address).
			Str("version", req.Version).
			Str("level", req.Level).
			Int("tickRate", req.TickRate).
			Str("id", id).
			Msg("registered server")

		writeJSON(w, http.StatusCreated, directory.RegisterResponse{ID: id}, logger)
	}
}

func Heartbeat(reg *Registry, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req directory.HeartbeatRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !reg.Heartbeat(req.ID, req.Status) {
			writeError(w, http.StatusNotFound, "unknown server")
			return
		}
		logger.Debug().Str("id", req.ID).Int("players", req.Players).Str("matchState", req.MatchState).Msg("heartbeat")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func filterFromQuery(r *http.Request) (directory.Filter, error) {
	q := r.URL.Query()
	f := directory.Filter{
		Version: q.Get("version"),
		Loadout: q.Get("loadout"),
	}
	if open := q.Get("open"); open != "" {
		v, err := strconv.ParseBool(open)
		if err != nil {
			return f, err
		}
		f.OpenOnly = v
	}
	return f, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
