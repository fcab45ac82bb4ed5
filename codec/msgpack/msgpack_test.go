package msgpack_test

import (
	"errors"
	"testing"

	codecmsgpack "github.com/zoobzio/tlsfuzz/codec/msgpack"
	"github.com/zoobzio/tlsfuzz/seeds"
	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/tlscatalog"
)

func TestContentType(t *testing.T) {
	c := codecmsgpack.New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestTraceRoundTrip(t *testing.T) {
	sig := tlscatalog.MustSignature()
	tr, err := seeds.SeedClientAttacker12(sig)
	if err != nil {
		t.Fatalf("SeedClientAttacker12: %v", err)
	}

	c := codecmsgpack.New()
	data, err := c.MarshalTrace(tr)
	if err != nil {
		t.Fatalf("MarshalTrace: %v", err)
	}
	// MessagePack is binary; the envelope must not accidentally be JSON.
	if data[0] == '{' {
		t.Fatal("expected a binary encoding, got JSON-shaped bytes")
	}
	back, err := c.UnmarshalTrace(data, sig)
	if err != nil {
		t.Fatalf("UnmarshalTrace: %v", err)
	}
	if len(back.Steps) != len(tr.Steps) {
		t.Fatalf("round-tripped trace has %d steps, want %d", len(back.Steps), len(tr.Steps))
	}
	for i, s := range tr.Steps {
		if back.Steps[i].Action.Kind != s.Action.Kind {
			t.Errorf("step %d: action kind = %v, want %v", i, back.Steps[i].Action.Kind, s.Action.Kind)
		}
	}
}

func TestTermRoundTrip(t *testing.T) {
	sig := tlscatalog.MustSignature()
	def, ok := sig.LookupByName("fn_compressions")
	if !ok {
		t.Fatal("fn_compressions not registered")
	}
	app, err := term.NewApplication(def)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}

	c := codecmsgpack.New()
	data, err := c.MarshalTerm(app)
	if err != nil {
		t.Fatalf("MarshalTerm: %v", err)
	}
	back, err := c.UnmarshalTerm(data, sig)
	if err != nil {
		t.Fatalf("UnmarshalTerm: %v", err)
	}
	if !back.OutputType().Equal(app.OutputType()) {
		t.Fatalf("round-tripped term has output type %s, want %s", back.OutputType(), app.OutputType())
	}
}

func TestUnmarshalTraceRejectsInvalidBytes(t *testing.T) {
	sig := tlscatalog.MustSignature()
	c := codecmsgpack.New()
	_, err := c.UnmarshalTrace([]byte("not msgpack"), sig)
	if err == nil {
		t.Fatal("expected an error for invalid MessagePack bytes")
	}
	if !errors.Is(err, term.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
