package config

import (
	"math"
	"time"
)

// PlayerConfig contains all player-related configuration values
type PlayerConfig struct {
	// Movement
	MoveSpeed float64 // units per second
	TurnRate  float64 // radians per second

	// Combat
	Health       int
	Energy       float64
	EnergyRegen  float64 // per second
	RespawnDelay float64 // seconds

	// Dimensions
	CollisionWidth  float64
	CollisionHeight float64
}

// MatchConfig contains server-side match rules and ability defaults
type MatchConfig struct {
	// Fallback bounds for aim abilities whose definition leaves them zero
	DefaultMinRange    float64
	DefaultMaxRange    float64
	DefaultMaxAimAngle float64 // radians

	// Seconds the player stays in the firing state after an aim ability fires
	FireLockSeconds float64

	DefaultLoadout string
	Loadouts       map[string][]string

	MaxPlayers int
}

// NetConfig contains latency probing and replication settings
type NetConfig struct {
	ProbeInterval time.Duration
	LatencyWindow int
	CommandBuffer int // pending client commands per tick
}

// InterpConfig tunes the client motion interpolator
type InterpConfig struct {
	AngleCatchUpRate  float64 // radians per second once idle
	MinDuration       float64 // seconds, floor for degenerate delay estimates
	FixedUpdateOffset float64 // seconds added to the delay, 0 = one server tick
}

// ServerConfig contains dedicated server settings
type ServerConfig struct {
	Port      uint
	TickRate  int
	Name      string
	Version   string
	LevelsDir string
	Level     string

	// Directory registration; an empty MasterURL keeps the server unlisted.
	MasterURL         string
	PublicAddress     string
	Region            string
	HeartbeatInterval time.Duration
}

// ClientConfig contains headless client settings
type ClientConfig struct {
	Address    string
	PlayerName string
	Loadout    string
	FrameRate  int
	Bot        bool
	MasterURL  string
}

// BoomerangConfig tunes the boomerang aim ability
type BoomerangConfig struct {
	Speed       float64
	ReturnSpeed float64
	CatchRadius float64
	Damage      int
	Size        float64
	Lifetime    float64 // seconds before a lost boomerang is dropped
}

// Global configuration instances
var Player PlayerConfig
var Match MatchConfig
var Net NetConfig
var Interp InterpConfig
var Server ServerConfig
var Client ClientConfig
var Boomerang BoomerangConfig

func init() {
	Reset()
}

// Reset restores every configuration section to its defaults.
func Reset() {
	// Player Config
	Player = PlayerConfig{
		MoveSpeed: 180.0,
		TurnRate:  2 * math.Pi,

		Health:       100,
		Energy:       100,
		EnergyRegen:  10,
		RespawnDelay: 3.0,

		CollisionWidth:  16,
		CollisionHeight: 16,
	}

	// Match Config
	Match = MatchConfig{
		DefaultMinRange:    0,
		DefaultMaxRange:    300,
		DefaultMaxAimAngle: math.Pi / 12, // 15 degrees
		FireLockSeconds:    0.2,

		DefaultLoadout: "striker",
		Loadouts: map[string][]string{
			"striker": {"regen", "dash", "boomerang"},
			"warden":  {"regen", "shield", "blink"},
		},

		MaxPlayers: 8,
	}

	// Net Config
	Net = NetConfig{
		ProbeInterval: 5 * time.Second,
		LatencyWindow: 5,
		CommandBuffer: 256,
	}

	// Interp Config
	Interp = InterpConfig{
		AngleCatchUpRate:  math.Pi,
		MinDuration:       0.001,
		FixedUpdateOffset: 0,
	}

	// Server Config
	Server = ServerConfig{
		Port:      7373,
		TickRate:  20,
		Name:      "Skirmish Server",
		LevelsDir: "",
		Level:     "",

		HeartbeatInterval: 30 * time.Second,
	}

	// Client Config
	Client = ClientConfig{
		Address:    "localhost:7373",
		PlayerName: "player",
		Loadout:    "striker",
		FrameRate:  60,
	}

	// Boomerang Config
	Boomerang = BoomerangConfig{
		Speed:       420.0,
		ReturnSpeed: 480.0,
		CatchRadius: 14.0,
		Damage:      20,
		Size:        12.0,
		Lifetime:    4.0,
	}
}

// FixedUpdateInterval returns the server tick duration in seconds plus any
// configured offset. Interpolation targets must be reached within one delay
// plus this interval.
func FixedUpdateInterval(tickRate int) float64 {
	if tickRate <= 0 {
		tickRate = Server.TickRate
	}
	return 1.0/float64(tickRate) + Interp.FixedUpdateOffset
}
