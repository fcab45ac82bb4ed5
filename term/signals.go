package term

import (
	"context"

	"github.com/zoobzio/capitan"
)

// SignalSignatureBuilt fires once, when a Signature catalog finishes
// construction.
var SignalSignatureBuilt = capitan.NewSignal("term.signature.built", "Signature catalog constructed")

// KeyFunctionCount records the number of function symbols registered into a
// freshly built Signature.
var KeyFunctionCount = capitan.NewIntKey("function_count")

func emitSignatureBuilt(count int) {
	capitan.Emit(context.Background(), SignalSignatureBuilt, KeyFunctionCount.Field(count))
}
