package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/logging"
	"github.com/automoto/skirmish/shared/directory"
	"github.com/rs/zerolog"
)

// errLeaseLost is returned by heartbeat when the directory no longer knows
// the server.
var errLeaseLost = errors.New("directory lease lost")

// StatusSource reports the live part of a directory entry. It is called from
// the registration goroutine and must be safe for that.
type StatusSource interface {
	DirectoryStatus() directory.Status
}

// Registration keeps a server listed in the master directory. Until a
// registration succeeds each interval retries it; after that each interval
// sends a heartbeat, and an expired lease registers again.
type Registration struct {
	masterURL string
	listing   directory.Listing
	status    StatusSource
	interval  time.Duration
	client    *http.Client
	logger    zerolog.Logger

	mu       sync.Mutex
	serverID string
}

// ListingFromConfig describes this server as config and the loaded level
// have it.
func ListingFromConfig(address, level string) directory.Listing {
	loadouts := make([]string, 0, len(config.Match.Loadouts))
	for name := range config.Match.Loadouts {
		loadouts = append(loadouts, name)
	}
	sort.Strings(loadouts)

	return directory.Listing{
		Name:       config.Server.Name,
		Address:    address,
		Version:    config.Server.Version,
		Region:     config.Server.Region,
		Level:      level,
		TickRate:   config.Server.TickRate,
		MaxPlayers: config.Match.MaxPlayers,
		Loadouts:   loadouts,
	}
}

func NewRegistration(masterURL string, listing directory.Listing, status StatusSource) *Registration {
	interval := config.Server.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Registration{
		masterURL: masterURL,
		listing:   listing,
		status:    status,
		interval:  interval,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    logging.For("registration"),
	}
}

// ServerID is the id the directory issued, empty while unregistered.
func (r *Registration) ServerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.serverID
}

// Run registers, then keeps the lease alive until ctx is done.
func (r *Registration) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Registration) refresh(ctx context.Context) {
	if r.ServerID() == "" {
		if err := r.register(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("registration failed")
		}
		return
	}

	err := r.heartbeat(ctx)
	if errors.Is(err, errLeaseLost) {
		r.logger.Info().Msg("directory forgot this server, registering again")
		r.mu.Lock()
		r.serverID = ""
		r.mu.Unlock()
		err = r.register(ctx)
	}
	if err != nil {
		r.logger.Warn().Err(err).Msg("directory refresh failed")
	}
}

func (r *Registration) register(ctx context.Context) error {
	resp, err := r.post(ctx, directory.PathRegister, directory.RegisterRequest{
		Listing: r.listing,
		Status:  r.status.DirectoryStatus(),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("register: unexpected status %d", resp.StatusCode)
	}

	var result directory.RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("register: decode: %w", err)
	}
	if result.ID == "" {
		return errors.New("register: empty id")
	}

	r.mu.Lock()
	r.serverID = result.ID
	r.mu.Unlock()
	r.logger.Info().Str("id", result.ID).Str("level", r.listing.Level).Msg("listed in directory")
	return nil
}

func (r *Registration) heartbeat(ctx context.Context) error {
	resp, err := r.post(ctx, directory.PathHeartbeat, directory.HeartbeatRequest{
		ID:     r.ServerID(),
		Status: r.status.DirectoryStatus(),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return errLeaseLost
	default:
		return fmt.Errorf("heartbeat: unexpected status %d", resp.StatusCode)
	}
}

func (r *Registration) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.masterURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	return resp, nil
}
