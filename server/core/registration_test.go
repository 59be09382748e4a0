package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStatus directory.Status

func (s fixedStatus) DirectoryStatus() directory.Status { return directory.Status(s) }

type fakeMaster struct {
	mu         sync.Mutex
	registered []directory.RegisterRequest
	heartbeats []directory.HeartbeatRequest
	forget     atomic.Bool
	failAll    atomic.Bool
}

func (f *fakeMaster) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(directory.PathRegister, func(w http.ResponseWriter, r *http.Request) {
		if f.failAll.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req directory.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.registered = append(f.registered, req)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(directory.RegisterResponse{ID: "srv-1"})
	})
	mux.HandleFunc(directory.PathHeartbeat, func(w http.ResponseWriter, r *http.Request) {
		var req directory.HeartbeatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.heartbeats = append(f.heartbeats, req)
		f.mu.Unlock()
		if f.forget.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (f *fakeMaster) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.registered), len(f.heartbeats)
}

func (f *fakeMaster) snapshot() ([]directory.RegisterRequest, []directory.HeartbeatRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]directory.RegisterRequest(nil), f.registered...),
		append([]directory.HeartbeatRequest(nil), f.heartbeats...)
}

func testListing() directory.Listing {
	return directory.Listing{
		Name:       "Arena",
		Address:    "127.0.0.1:7373",
		Version:    "1.0",
		Level:      "default",
		TickRate:   20,
		MaxPlayers: 8,
		Loadouts:   []string{"striker", "warden"},
	}
}

func TestListingFromConfig(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Server.TickRate = 30
	config.Server.Region = "eu"

	listing := ListingFromConfig("10.0.0.5:7373", "default")
	assert.Equal(t, "10.0.0.5:7373", listing.Address)
	assert.Equal(t, "default", listing.Level)
	assert.Equal(t, 30, listing.TickRate)
	assert.Equal(t, "eu", listing.Region)
	assert.Equal(t, config.Match.MaxPlayers, listing.MaxPlayers)
	assert.Equal(t, []string{"striker", "warden"}, listing.Loadouts)
}

func TestRegistration_RegistersWithListingAndStatus(t *testing.T) {
	master := &fakeMaster{}
	srv := httptest.NewServer(master.handler())
	defer srv.Close()

	reg := NewRegistration(srv.URL, testListing(), fixedStatus{Players: 3, MatchState: "playing"})
	require.NoError(t, reg.register(context.Background()))
	assert.Equal(t, "srv-1", reg.ServerID())

	registered, _ := master.snapshot()
	require.Len(t, registered, 1)
	got := registered[0]
	assert.Equal(t, "Arena", got.Name)
	assert.Equal(t, 20, got.TickRate)
	assert.Equal(t, []string{"striker", "warden"}, got.Loadouts)
	assert.Equal(t, 3, got.Players)
	assert.Equal(t, "playing", got.MatchState)

	require.NoError(t, reg.heartbeat(context.Background()))
	_, heartbeats := master.snapshot()
	require.Len(t, heartbeats, 1)
	assert.Equal(t, "srv-1", heartbeats[0].ID)
	assert.Equal(t, "playing", heartbeats[0].MatchState)
}

func TestRegistration_RegistersAgainWhenForgotten(t *testing.T) {
	master := &fakeMaster{}
	srv := httptest.NewServer(master.handler())
	defer srv.Close()

	reg := NewRegistration(srv.URL, testListing(), fixedStatus{})
	reg.refresh(context.Background())
	require.Equal(t, "srv-1", reg.ServerID())

	master.forget.Store(true)
	reg.refresh(context.Background())

	registered, heartbeats := master.counts()
	assert.Equal(t, 2, registered)
	assert.Equal(t, 1, heartbeats)
	assert.Equal(t, "srv-1", reg.ServerID())
}

func TestRegistration_RetriesUntilListed(t *testing.T) {
	master := &fakeMaster{}
	master.failAll.Store(true)
	srv := httptest.NewServer(master.handler())
	defer srv.Close()

	reg := NewRegistration(srv.URL, testListing(), fixedStatus{})
	reg.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, reg.ServerID())
	master.failAll.Store(false)

	assert.Eventually(t, func() bool { return reg.ServerID() == "srv-1" }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, heartbeats := master.counts()
		return heartbeats >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRegistration_RejectsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := NewRegistration(srv.URL, testListing(), fixedStatus{})
	assert.Error(t, reg.register(context.Background()))
	assert.Error(t, reg.heartbeat(context.Background()))
	assert.Empty(t, reg.ServerID())
}
