package trace

import (
	"context"

	"github.com/zoobzio/capitan"

	"github.com/zoobzio/tlsfuzz/term"
)

// SignalKnowledgeExtracted fires once per decomposed message, after every
// typed sub-value has been appended to the knowledge store.
var SignalKnowledgeExtracted = capitan.NewSignal("trace.knowledge.extracted", "message decomposed into knowledge")

// Keys for typed event data.
var (
	KeyAgent            = capitan.NewStringKey("agent")
	KeyMessageKind      = capitan.NewStringKey("message_kind")
	KeyObservationCount = capitan.NewIntKey("observation_count")
)

func emitKnowledgeExtracted(agent string, kind term.MessageKind, count int) {
	capitan.Emit(context.Background(), SignalKnowledgeExtracted,
		KeyAgent.Field(agent),
		KeyMessageKind.Field(string(kind)),
		KeyObservationCount.Field(count),
	)
}
