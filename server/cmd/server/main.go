package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/logging"
	"github.com/automoto/skirmish/server/core"
	"github.com/automoto/skirmish/shared/leveldata"
	"github.com/automoto/skirmish/shared/protocol"
)

func main() {
	configPath := flag.String("config", "", "Config file (yaml, json or toml)")
	port := flag.Uint("port", 0, "Server port (overrides config)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate, updates per second (overrides config)")
	name := flag.String("name", "", "Server display name (overrides config)")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	levelsDir := flag.String("levels", "", "Assets directory containing levels/*.tmx")
	levelName := flag.String("level", "", "Level to load (default: first level found)")
	masterURL := flag.String("master", "", "Master server URL to register with")
	address := flag.String("address", "", "Public address advertised to the master server")
	region := flag.String("region", "", "Region advertised to the master server")
	logLevel := flag.String("log", "", "Log level (trace, debug, info, warn, error)")
	pretty := flag.Bool("pretty", false, "Human-readable console logs")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(*port, *tickRate, *name, *version, *levelsDir, *levelName, *logLevel)
	applyDirectoryFlags(*masterURL, *address, *region)
	logging.Setup(config.LogLevel, *pretty, nil)
	log := logging.For("server")

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatal().Err(err).Msg("failed to register components")
	}

	level, err := loadLevel(config.Server.LevelsDir, config.Server.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load level")
	}

	server := core.NewServer(core.ServerOptions{
		Name:     config.Server.Name,
		Version:  config.Server.Version,
		TickRate: config.Server.TickRate,
		Level:    level,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if config.Server.MasterURL != "" {
		addr := config.Server.PublicAddress
		if addr == "" {
			addr = fmt.Sprintf("localhost:%d", config.Server.Port)
		}
		listing := core.ListingFromConfig(addr, level.Name)
		go core.NewRegistration(config.Server.MasterURL, listing, server).Run(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutting down server")
		cancel()
		server.Stop()
		os.Exit(0)
	}()

	log.Info().
		Str("name", config.Server.Name).
		Uint("port", config.Server.Port).
		Int("tickRate", config.Server.TickRate).
		Str("version", config.Server.Version).
		Msg("starting skirmish server")
	if err := server.Start(config.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func applyFlags(port uint, tickRate int, name, version, levelsDir, levelName, logLevel string) {
	if port != 0 {
		config.Server.Port = port
	}
	if tickRate > 0 {
		config.Server.TickRate = tickRate
	}
	if name != "" {
		config.Server.Name = name
	}
	if version != "" {
		config.Server.Version = version
	}
	if levelsDir != "" {
		config.Server.LevelsDir = levelsDir
	}
	if levelName != "" {
		config.Server.Level = levelName
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
}

func applyDirectoryFlags(masterURL, address, region string) {
	if masterURL != "" {
		config.Server.MasterURL = masterURL
	}
	if address != "" {
		config.Server.PublicAddress = address
	}
	if region != "" {
		config.Server.Region = region
	}
}

// loadLevel picks the named level from dir, the first one found, or the
// built-in walled arena when no directory is configured.
func loadLevel(dir, name string) (*core.ServerLevel, error) {
	if dir == "" {
		return core.NewServerLevel(leveldata.DefaultArena(640, 480, 16)), nil
	}

	levels, names, err := core.LoadAllServerLevels(dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no levels in %s", dir)
	}
	if name == "" {
		name = names[0]
	}
	level, ok := levels[name]
	if !ok {
		return nil, fmt.Errorf("level %q not found in %s", name, dir)
	}
	return level, nil
}
