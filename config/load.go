package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. SKIRMISH_SERVER_TICKRATE.
const EnvPrefix = "SKIRMISH"

// Load overlays values from an optional config file (YAML, JSON or TOML,
// picked by extension) and SKIRMISH_* environment variables onto the current
// configuration. An empty path only applies the environment.
func Load(path string) error {
	v := viper.New()
	seedDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	apply(v)
	return nil
}

func seedDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("player.moveSpeed", Player.MoveSpeed)
	v.SetDefault("player.turnRate", Player.TurnRate)
	v.SetDefault("player.health", Player.Health)
	v.SetDefault("player.energy", Player.Energy)
	v.SetDefault("player.energyRegen", Player.EnergyRegen)
	v.SetDefault("player.respawnDelay", Player.RespawnDelay)

	v.SetDefault("match.defaultMinRange", Match.DefaultMinRange)
	v.SetDefault("match.defaultMaxRange", Match.DefaultMaxRange)
	v.SetDefault("match.defaultMaxAimAngle", Match.DefaultMaxAimAngle)
	v.SetDefault("match.fireLockSeconds", Match.FireLockSeconds)
	v.SetDefault("match.defaultLoadout", Match.DefaultLoadout)
	v.SetDefault("match.loadouts", Match.Loadouts)
	v.SetDefault("match.maxPlayers", Match.MaxPlayers)

	v.SetDefault("net.probeInterval", Net.ProbeInterval)
	v.SetDefault("net.latencyWindow", Net.LatencyWindow)
	v.SetDefault("net.commandBuffer", Net.CommandBuffer)

	v.SetDefault("interp.angleCatchUpRate", Interp.AngleCatchUpRate)
	v.SetDefault("interp.minDuration", Interp.MinDuration)
	v.SetDefault("interp.fixedUpdateOffset", Interp.FixedUpdateOffset)

	v.SetDefault("server.port", Server.Port)
	v.SetDefault("server.tickRate", Server.TickRate)
	v.SetDefault("server.name", Server.Name)
	v.SetDefault("server.version", Server.Version)
	v.SetDefault("server.levelsDir", Server.LevelsDir)
	v.SetDefault("server.level", Server.Level)
	v.SetDefault("server.masterURL", Server.MasterURL)
	v.SetDefault("server.publicAddress", Server.PublicAddress)
	v.SetDefault("server.region", Server.Region)
	v.SetDefault("server.heartbeatInterval", Server.HeartbeatInterval)

	v.SetDefault("client.address", Client.Address)
	v.SetDefault("client.playerName", Client.PlayerName)
	v.SetDefault("client.loadout", Client.Loadout)
	v.SetDefault("client.frameRate", Client.FrameRate)
	v.SetDefault("client.bot", Client.Bot)
	v.SetDefault("client.masterURL", Client.MasterURL)

	v.SetDefault("boomerang.speed", Boomerang.Speed)
	v.SetDefault("boomerang.returnSpeed", Boomerang.ReturnSpeed)
	v.SetDefault("boomerang.catchRadius", Boomerang.CatchRadius)
	v.SetDefault("boomerang.damage", Boomerang.Damage)
	v.SetDefault("boomerang.size", Boomerang.Size)
	v.SetDefault("boomerang.lifetime", Boomerang.Lifetime)
}

func apply(v *viper.Viper) {
	LogLevel = v.GetString("logLevel")

	Player.MoveSpeed = v.GetFloat64("player.moveSpeed")
	Player.TurnRate = v.GetFloat64("player.turnRate")
	Player.Health = v.GetInt("player.health")
	Player.Energy = v.GetFloat64("player.energy")
	Player.EnergyRegen = v.GetFloat64("player.energyRegen")
	Player.RespawnDelay = v.GetFloat64("player.respawnDelay")

	Match.DefaultMinRange = v.GetFloat64("match.defaultMinRange")
	Match.DefaultMaxRange = v.GetFloat64("match.defaultMaxRange")
	Match.DefaultMaxAimAngle = v.GetFloat64("match.defaultMaxAimAngle")
	Match.FireLockSeconds = v.GetFloat64("match.fireLockSeconds")
	Match.DefaultLoadout = v.GetString("match.defaultLoadout")
	if loadouts := v.GetStringMapStringSlice("match.loadouts"); len(loadouts) > 0 {
		Match.Loadouts = loadouts
	}
	Match.MaxPlayers = v.GetInt("match.maxPlayers")

	Net.ProbeInterval = v.GetDuration("net.probeInterval")
	Net.LatencyWindow = v.GetInt("net.latencyWindow")
	Net.CommandBuffer = v.GetInt("net.commandBuffer")

	Interp.AngleCatchUpRate = v.GetFloat64("interp.angleCatchUpRate")
	Interp.MinDuration = v.GetFloat64("interp.minDuration")
	Interp.FixedUpdateOffset = v.GetFloat64("interp.fixedUpdateOffset")

	Server.Port = v.GetUint("server.port")
	Server.TickRate = v.GetInt("server.tickRate")
	Server.Name = v.GetString("server.name")
	Server.Version = v.GetString("server.version")
	Server.LevelsDir = v.GetString("server.levelsDir")
	Server.Level = v.GetString("server.level")
	Server.MasterURL = v.GetString("server.masterURL")
	Server.PublicAddress = v.GetString("server.publicAddress")
	Server.Region = v.GetString("server.region")
	Server.HeartbeatInterval = v.GetDuration("server.heartbeatInterval")

	Client.Address = v.GetString("client.address")
	Client.PlayerName = v.GetString("client.playerName")
	Client.Loadout = v.GetString("client.loadout")
	Client.FrameRate = v.GetInt("client.frameRate")
	Client.Bot = v.GetBool("client.bot")
	Client.MasterURL = v.GetString("client.masterURL")

	Boomerang.Speed = v.GetFloat64("boomerang.speed")
	Boomerang.ReturnSpeed = v.GetFloat64("boomerang.returnSpeed")
	Boomerang.CatchRadius = v.GetFloat64("boomerang.catchRadius")
	Boomerang.Damage = v.GetInt("boomerang.damage")
	Boomerang.Size = v.GetFloat64("boomerang.size")
	Boomerang.Lifetime = v.GetFloat64("boomerang.lifetime")
}

// LogLevel is the zerolog level name picked up by Load.
var LogLevel = "info"
