package engine

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for trace execution events.
var (
	SignalStepStart    = capitan.NewSignal("engine.step.start", "trace step beginning")
	SignalStepComplete = capitan.NewSignal("engine.step.complete", "trace step finished")
)

// Keys for typed event data.
var (
	KeyStepIndex  = capitan.NewIntKey("step_index")
	KeyAgentName  = capitan.NewStringKey("agent")
	KeyActionKind = capitan.NewStringKey("action")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

func emitStepStart(idx int, agent, action string) {
	capitan.Emit(context.Background(), SignalStepStart,
		KeyStepIndex.Field(idx), KeyAgentName.Field(agent), KeyActionKind.Field(action))
}

func emitStepComplete(idx int, agent, action string, duration time.Duration, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyStepIndex.Field(idx), KeyAgentName.Field(agent), KeyActionKind.Field(action),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStepComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalStepComplete, fields...)
}
