package tlscatalog

import (
	"github.com/zoobzio/tlsfuzz/engine"
	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// Extractor builds the engine.Extractor this catalog's messages require:
// decode the opaque bytes an agent emitted, and on success recursively
// decompose the result into knowledge. On decode failure the raw bytes are
// still recorded, typed as Payload, so the trace is not starved of an
// observation just because structured parsing failed.
func Extractor() engine.Extractor {
	payloadShape := term.ShapeOf[Payload]()

	return func(k *trace.Knowledge, agentName term.AgentName, opaque []byte) (term.MessageKind, bool) {
		msg, err := DecodeMessage(opaque)
		if err != nil {
			kind := term.MessageKind(KindOpaque)
			k.Append(agentName, kind, payloadShape, Payload(opaque))
			return kind, false
		}

		kind := term.MessageKind(msg.Kind)
		trace.ExtractKnowledge(k, agentName, kind, msg)
		return kind, true
	}
}
