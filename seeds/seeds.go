// Package seeds provides concrete starting Trace constructors exercising the
// tlscatalog symbol catalog, built around an Input-step-rebuilds-from-
// captured-knowledge pattern: a sender agent's real output is drained into
// knowledge, then replayed to the receiver through a recipe built from
// Variables referencing exactly those captured values, so the fuzzer
// retains control over every field without hand-crafting bytes.
package seeds

import (
	"fmt"

	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/tlscatalog"
	"github.com/zoobzio/tlsfuzz/trace"
)

// builder accumulates Steps and the first error encountered while
// constructing a seed trace, so each constructor reads as a flat sequence
// of steps rather than a staircase of error checks.
type builder struct {
	sig   *term.Signature
	steps []trace.Step
	err   error
}

func newBuilder(sig *term.Signature) *builder {
	return &builder{sig: sig}
}

func (b *builder) output(agent term.AgentName) {
	if b.err != nil {
		return
	}
	b.steps = append(b.steps, trace.Step{Agent: agent, Action: trace.OutputAction()})
}

func (b *builder) input(agent term.AgentName, recipe term.Term) {
	if b.err != nil {
		return
	}
	b.steps = append(b.steps, trace.Step{Agent: agent, Action: trace.InputAction(recipe)})
}

// app builds an Application for a registered function symbol, recording
// the first construction error (unknown symbol, arity, or type mismatch).
func (b *builder) app(name string, children ...term.Term) term.Term {
	if b.err != nil {
		return nil
	}
	def, ok := b.sig.LookupByName(name)
	if !ok {
		b.err = fmt.Errorf("seeds: unknown function symbol %q", name)
		return nil
	}
	t, err := term.NewApplication(def, children...)
	if err != nil {
		b.err = err
		return nil
	}
	return t
}

// v builds a Variable querying agent's knowledge for the counter-th value
// of the named type observed under the named message kind.
func (b *builder) v(typeName string, agent term.AgentName, kind string, counter uint16) term.Term {
	if b.err != nil {
		return nil
	}
	t, ok := b.sig.TypeByName(typeName)
	if !ok {
		b.err = fmt.Errorf("seeds: unknown type %q", typeName)
		return nil
	}
	k := term.MessageKind(kind)
	return term.NewVariable(t, term.QueryId{Agent: agent, MessageKind: &k, Counter: counter})
}

func (b *builder) trace(descriptors []trace.AgentDescriptor) (*trace.Trace, error) {
	if b.err != nil {
		return nil, b.err
	}
	return trace.NewTrace(descriptors, b.steps...), nil
}

func descriptor(name term.AgentName, role trace.AgentRole) trace.AgentDescriptor {
	return trace.AgentDescriptor{
		Name:                 name,
		Role:                 role,
		TLSVersion:           "1.2",
		ClientAuthentication: trace.AuthNone,
		ServerAuthentication: trace.AuthNone,
		PUTName:              "example-put",
	}
}

// helloFlight builds the ServerHello + Certificate + ServerKeyExchange +
// ServerHelloDone MultiMessage, rebuilt from srcAgent's captured knowledge
// under the ServerHello message kind.
func (b *builder) helloFlight(srcAgent term.AgentName, kind string) term.Term {
	serverHello := b.app("fn_server_hello",
		b.v("ProtocolVersion", srcAgent, kind, 0),
		b.v("Random", srcAgent, kind, 0),
		b.v("SessionID", srcAgent, kind, 0),
		b.v("CipherSuite", srcAgent, kind, 0),
		b.v("Compression", srcAgent, kind, 0),
		b.v("Vec<ClientExtension>", srcAgent, kind, 0),
	)
	cert := b.app("fn_certificate", b.v("Payload", srcAgent, tlscatalog.KindCertificate, 0))
	ske := b.app("fn_server_key_exchange", b.v("Payload", srcAgent, tlscatalog.KindServerKeyExchange, 0))
	done := b.app("fn_server_hello_done")
	return b.app("fn_concat_messages4", serverHello, cert, ske, done)
}

// clientHelloRecipe rebuilds a ClientHello from srcAgent's captured
// knowledge under the ClientHello message kind.
func (b *builder) clientHelloRecipe(srcAgent term.AgentName) term.Term {
	return b.app("fn_client_hello",
		b.v("ProtocolVersion", srcAgent, tlscatalog.KindClientHello, 0),
		b.v("Random", srcAgent, tlscatalog.KindClientHello, 0),
		b.v("SessionID", srcAgent, tlscatalog.KindClientHello, 0),
		b.v("Vec<CipherSuite>", srcAgent, tlscatalog.KindClientHello, 0),
		b.v("Vec<Compression>", srcAgent, tlscatalog.KindClientHello, 0),
		b.v("Vec<ClientExtension>", srcAgent, tlscatalog.KindClientHello, 0),
	)
}

// finishFlight builds the ClientKeyExchange + ChangeCipherSpec + Finished
// MultiMessage a client sends to complete the handshake, deriving the
// session secret from both sides' captured randoms and signing an
// illustrative transcript built from the client's own ClientHello.
func (b *builder) finishFlight(clientAgent, serverAgent term.AgentName) term.Term {
	secret := b.app("fn_derive_handshake_secret",
		b.v("Random", clientAgent, tlscatalog.KindClientHello, 0),
		b.v("Random", serverAgent, tlscatalog.KindServerHello, 0),
	)
	params := b.app("fn_key_exchange_params", secret)
	cke := b.app("fn_client_key_exchange", params)
	ccs := b.app("fn_change_cipher_spec")
	transcript := b.app("fn_transcript_of", b.v("Message", clientAgent, tlscatalog.KindClientHello, 0))
	verify := b.app("fn_verify_data", transcript)
	fin := b.app("fn_finished", verify)
	return b.app("fn_concat_messages3", cke, ccs, fin)
}

// SeedSuccessful12 builds the TLS 1.2 happy-path trace: client and server
// agents; ClientHello -> ServerHello+Cert+SKE+Done -> ClientKeyExchange+
// CCS+Finished. After the final step both agents are expected to report
// IsStateSuccessful() == true.
func SeedSuccessful12(sig *term.Signature) (*trace.Trace, error) {
	client := term.FirstAgentName()
	server := client.Next()

	b := newBuilder(sig)

	b.output(client)
	b.input(server, b.clientHelloRecipe(client))

	b.output(server)
	b.input(client, b.helloFlight(server, tlscatalog.KindServerHello))

	b.output(client)
	b.input(server, b.finishFlight(client, server))

	b.output(server)

	return b.trace([]trace.AgentDescriptor{
		descriptor(client, trace.RoleClient),
		descriptor(server, trace.RoleServer),
	})
}

// SeedClientAttacker12 builds a trace with a single server agent: the
// client side is synthesized entirely from scratch by the recipes
// (fn_client_hello; a key exchange whose parameters come from
// fn_derive_handshake_secret via fn_key_exchange_params; fn_sign_transcript),
// with no client agent present. fn_encrypt12 is not used by this seed. After
// execution the server is expected to report success.
func SeedClientAttacker12(sig *term.Signature) (*trace.Trace, error) {
	server := term.FirstAgentName()
	attacker := server.Next() // never instantiated as an agent; no step or recipe refers to it

	b := newBuilder(sig)

	clientHello := b.app("fn_client_hello",
		b.app("fn_protocol_version12"),
		b.app("fn_random"),
		b.app("fn_session_id"),
		b.app("fn_cipher_suite12"),
		b.app("fn_compressions"),
		b.app("fn_client_extensions1", b.app("fn_signature_algorithms_extension")),
	)
	b.input(server, clientHello)

	b.output(server)

	secret := b.app("fn_derive_handshake_secret",
		b.app("fn_random"),
		b.v("Random", server, tlscatalog.KindServerHello, 0),
	)
	params := b.app("fn_key_exchange_params", secret)
	cke := b.app("fn_client_key_exchange", params)
	ccs := b.app("fn_change_cipher_spec")
	transcript := b.app("fn_transcript_of", b.v("Message", server, tlscatalog.KindServerHello, 0))
	verify := b.app("fn_sign_transcript", transcript)
	fin := b.app("fn_finished", verify)
	b.input(server, b.app("fn_concat_messages3", cke, ccs, fin))

	b.output(server)

	_ = attacker
	return b.trace([]trace.AgentDescriptor{
		descriptor(server, trace.RoleServer),
	})
}

// SeedCVE202103449 reproduces the shape of CVE-2021-3449: a client and
// server complete an initial ClientHello carrying
// signature_algorithms, then a renegotiation ClientHello produced by
// fn_attack_cve_2021_3449 - stripping signature_algorithms from a clone of
// the original - is delivered to the server. Against a vulnerable adapter
// the server is expected to raise a detectable claim or crash; against a
// fixed adapter the trace terminates normally.
func SeedCVE202103449(sig *term.Signature) (*trace.Trace, error) {
	client := term.FirstAgentName()
	server := client.Next()

	b := newBuilder(sig)

	b.output(client)
	b.input(server, b.clientHelloRecipe(client))

	b.output(server)
	b.input(client, b.helloFlight(server, tlscatalog.KindServerHello))

	b.output(client)
	b.input(server, b.finishFlight(client, server))

	b.output(server)

	// Renegotiation: strip signature_algorithms from the original
	// ClientHello and deliver it again.
	renegotiation := b.app("fn_attack_cve_2021_3449", b.v("Message", client, tlscatalog.KindClientHello, 0))
	b.input(server, renegotiation)

	b.output(server)

	return b.trace([]trace.AgentDescriptor{
		descriptor(client, trace.RoleClient),
		descriptor(server, trace.RoleServer),
	})
}
