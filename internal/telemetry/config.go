package telemetry

import "log/slog"

// AppMode distinguishes the tracecollector invocation mode for the
// "mode" log/resource attribute (demo run, CLI report, long-lived server).
type AppMode string

// Recognized application modes.
const (
	ModeDemo   AppMode = "demo"
	ModeReport AppMode = "report"
	ModeServer AppMode = "server"
)

const defaultShutdownTimeoutSec = 5

// Config configures OpenTelemetry tracing, metrics, and structured
// logging for the collector's own self-instrumentation. It never governs
// the hot Begin/End/CounterDelta path, which stays allocation-free and
// untraced; only CreateCollection and report generation emit spans.
type Config struct {
	ServiceName        string
	ServiceVersion      string
	Environment         string
	Mode                AppMode
	OTLPEndpoint        string
	OTLPInsecure        bool
	OTLPHeaders         map[string]string
	SampleRatio         float64
	TraceVerbose        bool
	DebugTrace          bool
	LogLevel            slog.Level
	LogJSON             bool
	ShutdownTimeoutSec  int
}
