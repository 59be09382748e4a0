package messages

// LatencyProbe is a timestamped echo request sent by clients at a fixed
// interval.
type LatencyProbe struct {
	Seq        uint32
	SentUnixMs int64
}

// LatencyEcho returns a probe unchanged, plus the server clock for HUDs.
type LatencyEcho struct {
	Seq        uint32
	SentUnixMs int64
	ServerTime float64
}
