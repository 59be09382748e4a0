package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/logging"
	"github.com/automoto/skirmish/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/rs/zerolog"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

var errNotConnected = errors.New("not connected")

// Client manages a WebSocket connection to the game server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state          ClientState
	lastError      error
	networkID      esync.NetworkId
	reconnectToken string
	serverName     string
	tickRate       int
	level          string
	serverTime     float64
	conn           *websocket.Conn
	stopProbes     chan struct{}

	probeMu sync.Mutex
	probes  ProbeBuffer

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins
	rttCh      chan time.Duration
	eventCh    chan any

	logger zerolog.Logger
}

func NewClient() *Client {
	return &Client{
		state:      StateDisconnected,
		snapshotCh: make(chan esync.WorldSnapshot, 1),
		rttCh:      make(chan time.Duration, 16),
		eventCh:    make(chan any, 64),
		logger:     logging.For("client"),
	}
}

// Connect dials the server in a background goroutine and initiates the join
// handshake. A reconnect token from a previous session is sent along so the
// server can restore the player's loadout and score.
func (c *Client) Connect(address, version, playerName, loadout string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	token := c.reconnectToken
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.logger.Info().Str("address", address).Msg("connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:        version,
			PlayerName:     playerName,
			Loadout:        loadout,
			ReconnectToken: token,
		})
		if err != nil {
			c.setError(fmt.Errorf("send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.logger.Info().
			Uint("networkID", uint(msg.NetworkID)).
			Str("server", msg.ServerName).
			Int("tickRate", msg.TickRate).
			Msg("join accepted")
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.reconnectToken = msg.ReconnectToken
		c.serverName = msg.ServerName
		c.tickRate = msg.TickRate
		c.level = msg.Level
		c.state = StateJoinedGame
		if c.stopProbes == nil {
			c.stopProbes = make(chan struct{})
			go c.probeLoop(c.stopProbes)
		}
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		c.logger.Warn().Str("reason", msg.Reason).Msg("join rejected")
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, echo messages.LatencyEcho) {
		c.handleEcho(echo, time.Now())
	})

	router.On(func(_ *router.NetworkClient, evt messages.AbilityStartedEvent) { c.pushEvent(evt) })
	router.On(func(_ *router.NetworkClient, evt messages.AbilityEndedEvent) { c.pushEvent(evt) })
	router.On(func(_ *router.NetworkClient, evt messages.HitEvent) { c.pushEvent(evt) })
	router.On(func(_ *router.NetworkClient, evt messages.DeathEvent) { c.pushEvent(evt) })
	router.On(func(_ *router.NetworkClient, evt messages.RespawnEvent) { c.pushEvent(evt) })

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.logger.Info().Err(err).Msg("disconnected")
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.haltProbesLocked()
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.logger.Error().Err(err).Msg("router error")
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.haltProbesLocked()
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

func (c *Client) Level() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

// ReconnectToken returns the token issued by the last accepted join.
func (c *Client) ReconnectToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reconnectToken
}

// SetReconnectToken seeds the token sent with the next join, e.g. from a
// saved profile.
func (c *Client) SetReconnectToken(token string) {
	c.mu.Lock()
	c.reconnectToken = token
	c.mu.Unlock()
}

// ServerTime returns the server clock carried by the last latency echo.
func (c *Client) ServerTime() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverTime
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

// DrainRoundTrips returns the round trips resolved since the last call.
func (c *Client) DrainRoundTrips() []time.Duration {
	return drainChan(c.rttCh)
}

// DrainEvents returns pending gameplay events in arrival order, non-blocking.
func (c *Client) DrainEvents() []any {
	return drainChan(c.eventCh)
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) probeLoop(stop <-chan struct{}) {
	interval := config.Net.ProbeInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.sendProbe()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.sendProbe()
		}
	}
}

func (c *Client) sendProbe() {
	c.probeMu.Lock()
	probe := c.probes.Next(time.Now())
	c.probeMu.Unlock()

	if err := c.SendMessage(probe); err != nil {
		c.logger.Debug().Err(err).Uint32("seq", probe.Seq).Msg("probe not sent")
	}
}

func (c *Client) handleEcho(echo messages.LatencyEcho, now time.Time) {
	c.probeMu.Lock()
	rtt, ok := c.probes.Resolve(echo, now)
	c.probeMu.Unlock()

	c.mu.Lock()
	c.serverTime = echo.ServerTime
	c.mu.Unlock()

	if !ok {
		c.logger.Debug().Uint32("seq", echo.Seq).Msg("ignored stale echo")
		return
	}
	select {
	case c.rttCh <- rtt:
	default:
		c.logger.Debug().Dur("rtt", rtt).Msg("round trip dropped, render loop behind")
	}
}

func (c *Client) pushEvent(evt any) {
	select {
	case c.eventCh <- evt:
	default:
		c.logger.Debug().Type("event", evt).Msg("event dropped")
	}
}

func (c *Client) haltProbesLocked() {
	if c.stopProbes != nil {
		close(c.stopProbes)
		c.stopProbes = nil
	}
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
