// Package msgpack serializes traces and terms as MessagePack through the
// wire envelope - the compact binary encoding of the two this module ships.
package msgpack

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
	"github.com/zoobzio/tlsfuzz/wire"
)

// Codec implements wire.Codec for MessagePack.
type Codec struct{}

var _ wire.Codec = (*Codec)(nil)

// New returns a MessagePack wire.Codec.
func New() *Codec {
	return &Codec{}
}

// ContentType returns the MIME type for MessagePack.
func (*Codec) ContentType() string {
	return "application/msgpack"
}

// MarshalTrace flattens t to its wire form and encodes it as MessagePack.
func (c *Codec) MarshalTrace(t *trace.Trace) ([]byte, error) {
	start := time.Now()
	w, err := wire.FromTrace(t)
	if err != nil {
		emitTraceMarshal(len(t.Steps), 0, time.Since(start), err)
		return nil, err
	}
	data, err := msgpack.Marshal(w)
	if err != nil {
		err = &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("msgpack: encoding trace: %v", err)}
	}
	emitTraceMarshal(len(t.Steps), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UnmarshalTrace decodes MessagePack into the wire form and resolves every
// function and type name against sig. Malformed bytes and unknown names
// yield term.ErrMalformed.
func (c *Codec) UnmarshalTrace(data []byte, sig *term.Signature) (*trace.Trace, error) {
	start := time.Now()
	var w wire.Trace
	if err := msgpack.Unmarshal(data, &w); err != nil {
		err = &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("msgpack: decoding trace: %v", err)}
		emitTraceUnmarshal(0, time.Since(start), err)
		return nil, err
	}
	t, err := wire.ToTrace(w, sig)
	if err != nil {
		emitTraceUnmarshal(len(w.Steps), time.Since(start), err)
		return nil, err
	}
	emitTraceUnmarshal(len(t.Steps), time.Since(start), nil)
	return t, nil
}

// MarshalTerm flattens t to its wire form and encodes it as MessagePack.
func (c *Codec) MarshalTerm(t term.Term) ([]byte, error) {
	w, err := wire.FromTerm(t)
	if err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(w)
	if err != nil {
		return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("msgpack: encoding term: %v", err)}
	}
	return data, nil
}

// UnmarshalTerm decodes MessagePack into the wire form and resolves it
// against sig.
func (c *Codec) UnmarshalTerm(data []byte, sig *term.Signature) (term.Term, error) {
	var w wire.Term
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, &term.MalformedError{Err: term.ErrMalformed, Detail: fmt.Sprintf("msgpack: decoding term: %v", err)}
	}
	return wire.ToTerm(w, sig)
}
