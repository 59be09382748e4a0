package core

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// GameLoop drives a fixed-step tick on a wall-clock ticker. The tick always
// receives the nominal step; a slow tick is counted as an overrun and the
// ticker drops the beats it missed.
type GameLoop struct {
	tick     func(dt float64)
	tickRate int
	interval time.Duration
	logger   zerolog.Logger
	slow     zerolog.Logger

	overruns atomic.Uint64
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewGameLoop(tick func(dt float64), tickRate int, logger zerolog.Logger) *GameLoop {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &GameLoop{
		tick:     tick,
		tickRate: tickRate,
		interval: time.Second / time.Duration(tickRate),
		logger:   logger,
		slow:     logger.Sample(&zerolog.BurstSampler{Burst: 1, Period: 5 * time.Second}),
		stopCh:   make(chan struct{}),
	}
}

func (g *GameLoop) TickRate() int { return g.tickRate }

// Overruns counts ticks that took longer than one interval.
func (g *GameLoop) Overruns() uint64 { return g.overruns.Load() }

// Run ticks until Stop is called.
func (g *GameLoop) Run() {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.logger.Info().Int("tickRate", g.tickRate).Msg("game loop started")
	for {
		select {
		case <-g.stopCh:
			g.logger.Info().Uint64("overruns", g.Overruns()).Msg("game loop stopped")
			return
		case <-ticker.C:
			g.step()
		}
	}
}

// Stop ends Run. Calling it more than once, or without Run, is fine.
func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stopCh) })
}

func (g *GameLoop) step() {
	start := time.Now()
	g.tick(1.0 / float64(g.tickRate))
	if took := time.Since(start); took > g.interval {
		n := g.overruns.Add(1)
		g.slow.Warn().Dur("took", took).Dur("interval", g.interval).Uint64("overruns", n).Msg("tick overran")
	}
}
