package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/logging"
	"github.com/automoto/skirmish/network"
	"github.com/automoto/skirmish/scenes"
	"github.com/automoto/skirmish/shared/protocol"
	"github.com/automoto/skirmish/systems"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to a YAML or JSON config file")
	address := flag.String("address", "", "Server address (host:port)")
	masterURL := flag.String("master", "", "Master directory URL to pick a server from")
	name := flag.String("name", "", "Player name")
	loadout := flag.String("loadout", "", "Ability loadout")
	bot := flag.Bool("bot", false, "Drive the player with the scripted bot")
	duration := flag.Duration("duration", 0, "Leave after this long (0 = until interrupted)")
	logLevel := flag.String("log", "", "Log level (trace, debug, info, warn, error)")
	pretty := flag.Bool("pretty", true, "Human-readable console logs")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		logging.Setup("info", *pretty, nil)
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}
	logging.Setup(config.LogLevel, *pretty, nil)
	logger := logging.For("main")

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		logger.Fatal().Err(err).Msg("failed to register network components")
	}

	store, err := systems.OpenProfileStore("skirmish")
	if err != nil {
		logger.Warn().Err(err).Msg("profile persistence disabled")
	}
	profile := store.Load()
	if *address != "" {
		profile.Server = *address
	}
	if *name != "" {
		profile.Name = *name
	}
	if *loadout != "" {
		profile.Loadout = *loadout
	}
	if *masterURL != "" {
		config.Client.MasterURL = *masterURL
	}
	if *address == "" && config.Client.MasterURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		info, err := network.PickServer(ctx, config.Client.MasterURL, version, profile.Loadout)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("master", config.Client.MasterURL).Msg("directory lookup failed, using saved server")
		} else {
			profile.Server = info.Address
			config.Server.TickRate = info.TickRate
			logger.Info().Str("server", info.Name).Str("level", info.Level).Int("tickRate", info.TickRate).Msg("picked server from directory")
		}
	}

	client := network.NewClient()
	client.SetReconnectToken(profile.ReconnectToken)
	client.Connect(profile.Server, version, profile.Name, profile.Loadout)
	scene := scenes.NewNetworkedScene(client, *bot || config.Client.Bot)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	frame := time.NewTicker(time.Second / time.Duration(max(config.Client.FrameRate, 1)))
	defer frame.Stop()

	logger.Info().Str("server", profile.Server).Str("name", profile.Name).Msg("client starting")
	defer func() {
		profile.ReconnectToken = client.ReconnectToken()
		if err := store.Save(profile); err != nil {
			logger.Warn().Err(err).Msg("could not save profile")
		}
	}()

	for {
		select {
		case <-stop:
			logger.Info().Msg("interrupted, leaving")
			client.Disconnect()
			return
		case <-deadline:
			logger.Info().Msg("session time elapsed, leaving")
			client.Disconnect()
			return
		case <-frame.C:
			if err := scene.Update(); err != nil {
				if errors.Is(err, scenes.ErrDisconnected) {
					return
				}
				logger.Error().Err(err).Msg("frame failed")
			}
		}
	}
}
