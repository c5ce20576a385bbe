// Package telemetry defines the structured event sink the optimizer core
// reports through (spec.md §9: "the core emits structured events to a
// caller-supplied sink"). The core never logs directly; every call site
// that wants to report a row warning, a diversification strategy choice, or
// a cancellation takes a Sink explicitly.
package telemetry

// Sink receives structured events from the loader and engine. Fields are
// shallow key/value pairs describing the event; implementations decide how
// to render them.
type Sink interface {
	Info(event string, fields map[string]any)
	Warn(event string, fields map[string]any)
	Error(event string, fields map[string]any)
}

// NopSink discards every event. It is the zero-configuration default for
// library embedders and tests that don't care about telemetry.
type NopSink struct{}

func (NopSink) Info(string, map[string]any)  {}
func (NopSink) Warn(string, map[string]any)  {}
func (NopSink) Error(string, map[string]any) {}
