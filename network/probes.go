package network

import (
	"time"

	"github.com/automoto/skirmish/shared/messages"
)

const probeBufferSize = 64

type probeRecord struct {
	seq     uint32
	sent    time.Time
	pending bool
}

// ProbeBuffer is a ring of outstanding latency probes keyed by sequence
// number. Round trips are measured against the client's own send time, so
// clock skew with the server does not matter.
type ProbeBuffer struct {
	history [probeBufferSize]probeRecord
	nextSeq uint32
}

// Next records a probe sent at now and returns the message to send.
func (pb *ProbeBuffer) Next(now time.Time) messages.LatencyProbe {
	pb.nextSeq++
	seq := pb.nextSeq
	pb.history[seq%probeBufferSize] = probeRecord{seq: seq, sent: now, pending: true}
	return messages.LatencyProbe{Seq: seq, SentUnixMs: now.UnixMilli()}
}

// Resolve matches an echo to its probe and returns the round trip. Unknown,
// overwritten and already resolved sequences return false.
func (pb *ProbeBuffer) Resolve(echo messages.LatencyEcho, now time.Time) (time.Duration, bool) {
	rec := &pb.history[echo.Seq%probeBufferSize]
	if !rec.pending || rec.seq != echo.Seq || rec.sent.UnixMilli() != echo.SentUnixMs {
		return 0, false
	}
	rec.pending = false
	return now.Sub(rec.sent), true
}

// Outstanding counts probes still waiting for an echo.
func (pb *ProbeBuffer) Outstanding() int {
	n := 0
	for _, rec := range pb.history {
		if rec.pending {
			n++
		}
	}
	return n
}
