package wire

import (
	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

// Codec serializes traces and terms by content type. Implementations convert
// through the wire envelope in this package, so function symbols and types
// travel by name and decoding resolves them against an active Signature;
// unknown names yield term.ErrMalformed. Implementations live in codec/json
// and codec/msgpack.
type Codec interface {
	// ContentType returns the MIME type for this codec.
	ContentType() string
	// MarshalTrace flattens t to its wire form and encodes it.
	MarshalTrace(t *trace.Trace) ([]byte, error)
	// UnmarshalTrace decodes data into the wire form and resolves every
	// function and type name against sig.
	UnmarshalTrace(data []byte, sig *term.Signature) (*trace.Trace, error)
	// MarshalTerm flattens t to its wire form and encodes it.
	MarshalTerm(t term.Term) ([]byte, error)
	// UnmarshalTerm decodes data into the wire form and resolves it
	// against sig.
	UnmarshalTerm(data []byte, sig *term.Signature) (term.Term, error)
}
