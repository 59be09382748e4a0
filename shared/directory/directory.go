// Package directory is the JSON contract between skirmish servers, the
// master directory and clients browsing it.
package directory

import "slices"

const (
	PathServers   = "/servers"
	PathRegister  = "/servers/register"
	PathHeartbeat = "/servers/heartbeat"
	PathHealth    = "/health"
)

// Listing is what a server advertises once at registration. TickRate lets a
// client seed its interpolation interval before the join handshake.
type Listing struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Version    string   `json:"version"`
	Region     string   `json:"region,omitempty"`
	Level      string   `json:"level"`
	TickRate   int      `json:"tickRate"`
	MaxPlayers int      `json:"maxPlayers"`
	Loadouts   []string `json:"loadouts"`
}

// Status is refreshed by every heartbeat.
type Status struct {
	Players    int    `json:"players"`
	MatchState string `json:"matchState"`
}

// ServerInfo is one directory entry.
type ServerInfo struct {
	ID string `json:"id"`
	Listing
	Status
}

// Open reports whether the server has room for another player.
func (s ServerInfo) Open() bool {
	return s.MaxPlayers <= 0 || s.Players < s.MaxPlayers
}

// Offers reports whether loadout can be picked on the server.
func (s ServerInfo) Offers(loadout string) bool {
	return slices.Contains(s.Loadouts, loadout)
}

type RegisterRequest struct {
	Listing
	Status
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type HeartbeatRequest struct {
	ID string `json:"id"`
	Status
}

// Filter selects entries from a listing. Zero fields match everything.
type Filter struct {
	Version  string
	Loadout  string
	OpenOnly bool
}

func (f Filter) Match(s ServerInfo) bool {
	if f.Version != "" && s.Version != f.Version {
		return false
	}
	if f.Loadout != "" && !s.Offers(f.Loadout) {
		return false
	}
	if f.OpenOnly && !s.Open() {
		return false
	}
	return true
}
