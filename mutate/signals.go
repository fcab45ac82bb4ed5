package mutate

import (
	"context"

	"github.com/zoobzio/capitan"
)

// SignalApplied fires whenever a mutator produces Mutated.
var SignalApplied = capitan.NewSignal("mutate.applied", "mutator changed the trace")

// SignalSkipped fires whenever a mutator finds no qualifying candidate.
var SignalSkipped = capitan.NewSignal("mutate.skipped", "mutator found no qualifying candidate")

// KeyMutatorName names which of the six mutators fired.
var KeyMutatorName = capitan.NewStringKey("mutator")

func emitApplied(name string) {
	capitan.Emit(context.Background(), SignalApplied, KeyMutatorName.Field(name))
}

func emitSkipped(name string) {
	capitan.Emit(context.Background(), SignalSkipped, KeyMutatorName.Field(name))
}
