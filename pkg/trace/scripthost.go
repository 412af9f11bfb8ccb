package trace

import "github.com/tracecore/tracecore/internal/trace/collector"

// ScriptHost is the hook a scripting language binding implements to
// bridge its own call stack into the tracing timeline: unlike native
// code, a scripting host typically observes "a call started" / "a call
// ended" as two separate, asynchronous notifications rather than
// bracketing a call with a single Scope value.
type ScriptHost interface {
	// PushScope is called when the host's interpreter enters a traced
	// function.
	PushScope(key *StaticKey, cat Cat)
	// PopScope is called when it returns. Hosts must call this exactly
	// once per PushScope, in LIFO order, matching their own call stack.
	PopScope()
}

// scriptHost is the default ScriptHost, recording directly onto the
// calling goroutine's recorder via its script-scope stack.
type scriptHost struct{}

func (scriptHost) PushScope(key *StaticKey, cat Cat) {
	if !IsEnabled() {
		return
	}

	collector.Global().Recorder().PushScriptScope(key.Key(), uint32(cat))
}

func (scriptHost) PopScope() {
	if !IsEnabled() {
		return
	}

	collector.Global().Recorder().PopScriptScope()
}

// DefaultScriptHost is the ScriptHost every language binding should use
// unless it has its own reason to batch or redirect trace calls.
var DefaultScriptHost ScriptHost = scriptHost{}
