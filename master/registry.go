package main

import (
	"sort"
	"sync"
	"time"

	"github.com/automoto/skirmish/shared/directory"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type lease struct {
	info     directory.ServerInfo
	lastSeen time.Time
}

// Registry holds the live skirmish servers. A server whose lease is not
// renewed by a heartbeat within ttl is swept.
type Registry struct {
	mu     sync.RWMutex
	leases map[string]*lease
	ttl    time.Duration
	now    func() time.Time
	stopCh chan struct{}
	logger zerolog.Logger
}

func NewRegistry(ttl time.Duration, logger zerolog.Logger) *Registry {
	return &Registry{
		leases: make(map[string]*lease),
		ttl:    ttl,
		now:    time.Now,
		stopCh: make(chan struct{}),
		logger: logger,
	}
}

// Run sweeps expired leases every interval until Stop is called.
func (r *Registry) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

// Register lists a server under a fresh id.
func (r *Registry) Register(req directory.RegisterRequest) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.leases[id] = &lease{
		info:     directory.ServerInfo{ID: id, Listing: req.Listing, Status: req.Status},
		lastSeen: r.now(),
	}
	r.mu.Unlock()

	return id
}

// Heartbeat renews a lease and stores the reported status. It reports false
// for unknown or already swept ids so the server registers again.
func (r *Registry) Heartbeat(id string, status directory.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leases[id]
	if !ok {
		return false
	}
	l.lastSeen = r.now()
	l.info.Status = status
	return true
}

// List returns the servers f matches, ordered by name then id.
func (r *Registry) List(f directory.Filter) []directory.ServerInfo {
	r.mu.RLock()
	result := make([]directory.ServerInfo, 0, len(r.leases))
	for _, l := range r.leases {
		if f.Match(l.info) {
			result = append(result, l.info)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Sweep drops every lease that ran out and returns how many went.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	expired := 0
	for id, l := range r.leases {
		if age := now.Sub(l.lastSeen); age >= r.ttl {
			r.logger.Info().
				Str("server", l.info.Name).
				Str("id", id).
				Str("matchState", l.info.MatchState).
				Dur("lastSeen", age.Round(time.Second)).
				Msg("lease expired")
			delete(r.leases, id)
			expired++
		}
	}
	return expired
}
