package telemetry

import (
	"os"

	"github.com/rs/zerolog"
)

// ZerologSink adapts a zerolog.Logger to the Sink interface, the default
// telemetry implementation for cmd/blendctl.
type ZerologSink struct {
	Logger zerolog.Logger
}

// NewZerologSink builds a sink writing to stderr with a timestamp on every
// event.
func NewZerologSink() ZerologSink {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return ZerologSink{Logger: logger}
}

func (s ZerologSink) Info(event string, fields map[string]any) {
	s.Logger.Info().Fields(fields).Msg(event)
}

func (s ZerologSink) Warn(event string, fields map[string]any) {
	s.Logger.Warn().Fields(fields).Msg(event)
}

func (s ZerologSink) Error(event string, fields map[string]any) {
	s.Logger.Error().Fields(fields).Msg(event)
}
