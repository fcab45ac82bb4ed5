package json

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for JSON trace serialization events.
var (
	SignalTraceMarshal   = capitan.NewSignal("codec.json.trace.marshal", "trace encoded as JSON")
	SignalTraceUnmarshal = capitan.NewSignal("codec.json.trace.unmarshal", "trace decoded from JSON")
)

// Keys for typed event data.
var (
	KeyStepCount = capitan.NewIntKey("step_count")
	KeySize      = capitan.NewIntKey("size")
	KeyDuration  = capitan.NewDurationKey("duration")
	KeyError     = capitan.NewErrorKey("error")
)

func emitTraceMarshal(steps, size int, duration time.Duration, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyStepCount.Field(steps), KeySize.Field(size), KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalTraceMarshal, fields...)
		return
	}
	capitan.Emit(ctx, SignalTraceMarshal, fields...)
}

func emitTraceUnmarshal(steps int, duration time.Duration, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyStepCount.Field(steps), KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalTraceUnmarshal, fields...)
		return
	}
	capitan.Emit(ctx, SignalTraceUnmarshal, fields...)
}
