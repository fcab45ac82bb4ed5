package trace

import (
	"testing"

	"github.com/zoobzio/tlsfuzz/term"
)

type fuzzVersion uint16

func (v fuzzVersion) Clone() fuzzVersion { return v }

type fuzzRandom [32]byte

func (r fuzzRandom) Clone() fuzzRandom { return r }

type fuzzExtension struct {
	Kind uint16
	Data []byte
}

func (e fuzzExtension) Clone() fuzzExtension {
	cp := e
	cp.Data = append([]byte(nil), e.Data...)
	return cp
}

type fuzzClientHello struct {
	Version    fuzzVersion
	Random     fuzzRandom
	Extensions []fuzzExtension
}

func (c fuzzClientHello) Clone() fuzzClientHello {
	cp := c
	cp.Extensions = make([]fuzzExtension, len(c.Extensions))
	for i, e := range c.Extensions {
		cp.Extensions[i] = e.Clone()
	}
	return cp
}

func TestExtractKnowledgeWalksNestedFields(t *testing.T) {
	versionShape := term.ShapeOf[fuzzVersion]()
	randomShape := term.ShapeOf[fuzzRandom]()
	extShape := term.ShapeOf[fuzzExtension]()
	helloShape := term.ShapeOf[fuzzClientHello]()

	k := NewKnowledge()
	agent := term.FirstAgentName()
	kind := term.MessageKind("ClientHello")

	msg := fuzzClientHello{
		Version: 0x0303,
		Random:  fuzzRandom{1, 2, 3},
		Extensions: []fuzzExtension{
			{Kind: 1, Data: []byte{0xaa}},
			{Kind: 2, Data: []byte{0xbb}},
		},
	}

	ExtractKnowledge(k, agent, kind, msg)

	obs := k.All()
	wantShapes := []term.TypeShape{helloShape, versionShape, randomShape, extShape, extShape}
	if len(obs) != len(wantShapes) {
		t.Fatalf("got %d observations, want %d", len(obs), len(wantShapes))
	}
	for i, want := range wantShapes {
		if !obs[i].Type.Equal(want) {
			t.Errorf("observation %d has type %s, want %s", i, obs[i].Type, want)
		}
	}

	q := term.QueryId{Agent: agent, MessageKind: &kind, Counter: 1}
	v, err := k.Resolve(q, extShape)
	if err != nil {
		t.Fatalf("Resolve second extension: %v", err)
	}
	ext := v.(fuzzExtension)
	if ext.Kind != 2 {
		t.Errorf("second extension kind = %d, want 2", ext.Kind)
	}
}

func TestExtractKnowledgeToleratesNilExtensions(t *testing.T) {
	k := NewKnowledge()
	agent := term.FirstAgentName()
	kind := term.MessageKind("ClientHello")

	msg := fuzzClientHello{Version: 0x0304}
	ExtractKnowledge(k, agent, kind, msg)

	if len(k.All()) == 0 {
		t.Fatal("expected at least the top-level observation")
	}
}
