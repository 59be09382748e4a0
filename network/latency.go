package network

import (
	"time"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/logging"
	"github.com/rs/zerolog"
)

// LatencyEstimator keeps a sliding window of round-trip samples and reports
// the one-way delay as half their mean. It is owned by the render loop and
// is not safe for concurrent use.
type LatencyEstimator struct {
	samples []float64 // seconds, ring
	head    int
	n       int
	sum     float64
	logger  zerolog.Logger
}

// NewLatencyEstimator creates an estimator holding the last window samples.
// A non-positive window falls back to config.Net.LatencyWindow.
func NewLatencyEstimator(window int) *LatencyEstimator {
	if window <= 0 {
		window = config.Net.LatencyWindow
	}
	if window <= 0 {
		window = 1
	}
	return &LatencyEstimator{
		samples: make([]float64, window),
		logger:  logging.For("latency"),
	}
}

// AddRoundTrip records one round-trip time, evicting the oldest sample when
// the window is full. Non-positive samples are rejected.
func (e *LatencyEstimator) AddRoundTrip(rtt time.Duration) bool {
	if rtt <= 0 {
		e.logger.Warn().Dur("rtt", rtt).Msg("rejected non-positive round trip")
		return false
	}

	s := rtt.Seconds()
	if e.n == len(e.samples) {
		e.sum -= e.samples[e.head]
	} else {
		e.n++
	}
	e.samples[e.head] = s
	e.sum += s
	e.head = (e.head + 1) % len(e.samples)

	e.logger.Debug().Dur("rtt", rtt).Float64("delay", e.Delay()).Msg("round trip")
	return true
}

// Delay returns the estimated one-way delay in seconds, 0 before the first
// sample.
func (e *LatencyEstimator) Delay() float64 {
	if e.n == 0 {
		return 0
	}
	d := e.sum / float64(2*e.n)
	if d < 0 {
		return 0
	}
	return d
}

// Samples reports how many round trips are currently held.
func (e *LatencyEstimator) Samples() int { return e.n }

// Window reports the capacity of the sample window.
func (e *LatencyEstimator) Window() int { return len(e.samples) }
