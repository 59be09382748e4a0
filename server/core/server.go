package core

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/logging"
	"github.com/automoto/skirmish/shared/directory"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/messages"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
)

// ServerOptions configures a dedicated server.
type ServerOptions struct {
	Name     string
	Version  string // required client version, empty accepts any
	TickRate int
	Level    *ServerLevel // nil runs an open arena
}

// reconnectInfo is what a reconnect token restores.
type reconnectInfo struct {
	name    string
	loadout string
}

// Server owns the match and its client connections. Router callbacks run on
// transport goroutines and only stage commands; everything else runs on the
// tick loop.
type Server struct {
	world     donburi.World
	match     *Match
	loop      *GameLoop
	transport *transports.WsServerTransport
	commands  *CommandBuffer

	name    string
	version string

	// Track which network client owns which entity
	clientEntities map[*router.NetworkClient]donburi.Entity
	mu             sync.RWMutex

	tokens     map[string]reconnectInfo
	serverTime atomic.Uint64
	matchState atomic.Int32

	logger zerolog.Logger
}

// NewServer creates a new game server
func NewServer(opts ServerOptions) *Server {
	if opts.TickRate <= 0 {
		opts.TickRate = config.Server.TickRate
	}
	world := donburi.NewWorld()

	s := &Server{
		world:          world,
		commands:       NewCommandBuffer(config.Net.CommandBuffer),
		name:           opts.Name,
		version:        opts.Version,
		clientEntities: make(map[*router.NetworkClient]donburi.Entity),
		tokens:         make(map[string]reconnectInfo),
		logger:         logging.For("server"),
	}

	// Set up the world for esync
	srvsync.UseEsync(world)

	s.match = NewMatch(world, opts.Level, opts.TickRate, logging.For("match"),
		WithReplicator(syncReplicator{world: world}),
		WithBroadcaster(s),
	)
	s.loop = NewGameLoop(s.Tick, opts.TickRate, logging.For("loop"))

	s.setupRouterCallbacks()
	return s
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	if err := s.transport.Start(); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.logger.Info().Str("client", client.Id()).Msg("client connected")
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			s.logger.Info().Str("client", client.Id()).Err(err).Msg("client disconnected")
		} else {
			s.logger.Info().Str("client", client.Id()).Msg("client disconnected")
		}
		s.stage(Command{Type: CommandLeave, Client: client})
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.stage(Command{Type: CommandJoin, Client: client, Payload: req})
	})
	router.On(func(client *router.NetworkClient, cmd messages.MoveCommand) {
		s.stage(Command{Type: CommandMove, Client: client, Payload: cmd})
	})
	router.On(func(client *router.NetworkClient, cmd messages.StopCommand) {
		s.stage(Command{Type: CommandStop, Client: client, Payload: cmd})
	})
	router.On(func(client *router.NetworkClient, cmd messages.FireCommand) {
		s.stage(Command{Type: CommandFire, Client: client, Payload: cmd})
	})
	router.On(func(client *router.NetworkClient, cmd messages.PrimaryCommand) {
		s.stage(Command{Type: CommandPrimary, Client: client, Payload: cmd})
	})
	router.On(func(client *router.NetworkClient, cmd messages.LoadoutCommand) {
		s.stage(Command{Type: CommandLoadout, Client: client, Payload: cmd})
	})

	// Probes are echoed straight away so queueing never inflates the RTT.
	router.On(func(client *router.NetworkClient, probe messages.LatencyProbe) {
		err := client.SendMessage(messages.LatencyEcho{
			Seq:        probe.Seq,
			SentUnixMs: probe.SentUnixMs,
			ServerTime: s.ServerTime(),
		})
		if err != nil {
			s.logger.Debug().Str("client", client.Id()).Err(err).Msg("latency echo failed")
		}
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.logger.Warn().Err(err).Msg("client error")
	})
}

func (s *Server) stage(cmd Command) {
	if !s.commands.Push(cmd) {
		s.logger.Warn().Uint8("type", uint8(cmd.Type)).Msg("command buffer full, dropping command")
	}
}

// Tick applies staged commands, advances the match and publishes the result.
func (s *Server) Tick(dt float64) {
	s.ProcessCommands()
	s.match.Tick(dt)
	s.serverTime.Store(math.Float64bits(s.match.Now()))
	s.matchState.Store(int32(s.match.State()))

	if err := srvsync.DoSync(); err != nil {
		s.logger.Error().Err(err).Msg("sync error")
	}
}

// ProcessCommands drains the command buffer on the tick goroutine.
func (s *Server) ProcessCommands() {
	for _, cmd := range s.commands.Drain() {
		switch cmd.Type {
		case CommandJoin:
			s.handleJoin(cmd.Client, cmd.Payload.(messages.JoinRequest))
		case CommandLeave:
			s.handleLeave(cmd.Client)
		default:
			p := s.playerFor(cmd.Client)
			if p == nil {
				continue
			}
			s.handlePlayerCommand(p, cmd)
		}
	}
}

func (s *Server) handlePlayerCommand(p *Player, cmd Command) {
	switch msg := cmd.Payload.(type) {
	case messages.MoveCommand:
		s.match.HandleMove(p, gamemath.V(msg.X, msg.Y))
	case messages.StopCommand:
		s.match.HandleStop(p)
	case messages.FireCommand:
		var target *gamemath.Vec2
		if msg.HasTarget {
			pt := gamemath.V(msg.X, msg.Y)
			target = &pt
		}
		s.match.HandleFire(p, msg.AbilityID, target)
	case messages.PrimaryCommand:
		s.match.HandlePrimary(p, msg.AbilityID, gamemath.V(msg.X, msg.Y))
	case messages.LoadoutCommand:
		if err := s.match.SwapLoadout(p, msg.Loadout); err != nil {
			s.logger.Debug().Str("player", p.Name).Err(err).Msg("loadout rejected")
		}
	}
}

func (s *Server) handleJoin(client *router.NetworkClient, req messages.JoinRequest) {
	s.mu.RLock()
	_, joined := s.clientEntities[client]
	s.mu.RUnlock()
	if joined {
		return
	}

	if s.version != "" && req.Version != s.version {
		s.reject(client, fmt.Sprintf("version mismatch: server requires %s", s.version))
		return
	}

	name := strings.TrimSpace(req.PlayerName)
	loadout := req.Loadout
	if info, ok := s.tokens[req.ReconnectToken]; ok {
		delete(s.tokens, req.ReconnectToken)
		name, loadout = info.name, info.loadout
	}
	if name == "" {
		name = "player-" + uuid.NewString()[:8]
	}

	p, err := s.match.SpawnPlayer(name, loadout)
	if err != nil {
		s.reject(client, err.Error())
		return
	}

	s.mu.Lock()
	s.clientEntities[client] = p.Entity
	s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = reconnectInfo{name: p.Name, loadout: p.Loadout}

	levelName := ""
	if lvl := s.match.Level(); lvl != nil {
		levelName = lvl.Name
	}
	err = client.SendMessage(messages.JoinAccepted{
		NetworkID:      esync.NetworkId(s.match.networkID(p.Entity)),
		ReconnectToken: token,
		ServerName:     s.name,
		TickRate:       s.loop.TickRate(),
		Level:          levelName,
	})
	if err != nil {
		s.logger.Warn().Str("client", client.Id()).Err(err).Msg("failed to send join accepted")
	}
	s.logger.Info().Str("client", client.Id()).Str("player", p.Name).Msg("player joined")
}

func (s *Server) reject(client *router.NetworkClient, reason string) {
	s.logger.Info().Str("client", client.Id()).Str("reason", reason).Msg("join rejected")
	if err := client.SendMessage(messages.JoinRejected{Reason: reason}); err != nil {
		s.logger.Debug().Err(err).Msg("failed to send join rejected")
	}
}

func (s *Server) handleLeave(client *router.NetworkClient) {
	s.mu.Lock()
	entity, exists := s.clientEntities[client]
	delete(s.clientEntities, client)
	s.mu.Unlock()

	if exists && s.match.RemovePlayer(entity) {
		s.logger.Info().Str("client", client.Id()).Msg("player entity removed")
	}
}

func (s *Server) playerFor(client *router.NetworkClient) *Player {
	s.mu.RLock()
	entity, ok := s.clientEntities[client]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.match.Player(entity)
}

// Broadcast sends msg to every joined client.
func (s *Server) Broadcast(msg any) {
	s.mu.RLock()
	clients := make([]*router.NetworkClient, 0, len(s.clientEntities))
	for c := range s.clientEntities {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.SendMessage(msg); err != nil {
			s.logger.Debug().Str("client", c.Id()).Err(err).Msg("broadcast failed")
		}
	}
}

// ServerTime is the match clock as of the last completed tick. Safe from any
// goroutine.
func (s *Server) ServerTime() float64 {
	return math.Float64frombits(s.serverTime.Load())
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of connected players
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clientEntities)
}

// DirectoryStatus reports the player count and match state for the
// directory heartbeat. Safe from any goroutine.
func (s *Server) DirectoryStatus() directory.Status {
	return directory.Status{
		Players:    s.PlayerCount(),
		MatchState: netconfig.MatchStateID(s.matchState.Load()).String(),
	}
}

// syncReplicator marks match entities for necs replication.
type syncReplicator struct {
	world donburi.World
}

func (r syncReplicator) TrackPlayer(entity donburi.Entity) error {
	return srvsync.NetworkSync(r.world, &entity,
		netcomponents.NetTransform,
		netcomponents.NetPlayerState,
		netcomponents.NetAbilities,
	)
}

func (r syncReplicator) TrackProjectile(entity donburi.Entity) error {
	return srvsync.NetworkSync(r.world, &entity, netcomponents.NetProjectile)
}

func (r syncReplicator) TrackGameState(entity donburi.Entity) error {
	return srvsync.NetworkSync(r.world, &entity, netcomponents.NetGameState)
}

func (r syncReplicator) NetworkID(entity donburi.Entity) uint {
	if !r.world.Valid(entity) {
		return 0
	}
	if nid := esync.GetNetworkId(r.world.Entry(entity)); nid != nil {
		return uint(*nid)
	}
	return 0
}
