// Package tlsfuzztest provides deterministic test doubles for exercising the
// execution engine and seed traces without a real TLS library adapter, in a
// small fixture-exporting style.
package tlsfuzztest

import (
	"fmt"
	"sync"

	"github.com/zoobzio/tlsfuzz/tlscatalog"
	"github.com/zoobzio/tlsfuzz/trace"
)

type handshakeState int

const (
	stateStart handshakeState = iota
	stateHelloExchanged
	stateComplete
)

func (s handshakeState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateHelloExchanged:
		return "hello-exchanged"
	case stateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// FakeAgent is a minimal in-memory TLS-1.2 handshake simulation implementing
// agent.Agent: it runs exactly the client or server half of the happy-path
// handshake the seed traces replay, plus a renegotiation check standing in
// for CVE-2021-3449's null-pointer dereference. Export-grade cipher suites
// are rejected, modeling a non-export-supporting library. It performs no
// real cryptography; Progress only tracks which flight has been
// sent/received.
type FakeAgent struct {
	mu    sync.Mutex
	role  trace.AgentRole
	state handshakeState

	inbound  [][]byte
	outbound [][]byte

	listener trace.ClaimListener

	sawSignatureAlgorithms bool
}

// NewFakeAgent returns a fresh FakeAgent playing role.
func NewFakeAgent(role trace.AgentRole) *FakeAgent {
	return &FakeAgent{role: role}
}

// AddToInbound implements agent.Stream.
func (a *FakeAgent) AddToInbound(opaque []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inbound = append(a.inbound, opaque)
}

// TakeFromOutbound implements agent.Stream.
func (a *FakeAgent) TakeFromOutbound() ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.outbound) == 0 {
		return nil, false
	}
	next := a.outbound[0]
	a.outbound = a.outbound[1:]
	return next, true
}

// Progress implements agent.Agent: it consumes one buffered inbound message
// (if any) and reacts according to role and current state.
func (a *FakeAgent) Progress() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.role == trace.RoleClient && a.state == stateStart && len(a.inbound) == 0 {
		return a.sendClientHello()
	}

	if len(a.inbound) == 0 {
		return nil
	}
	opaque := a.inbound[0]
	a.inbound = a.inbound[1:]

	msg, err := tlscatalog.DecodeMessage(opaque)
	if err != nil {
		return fmt.Errorf("tlsfuzztest: decoding inbound message: %w", err)
	}

	switch a.role {
	case trace.RoleServer:
		return a.progressServer(msg)
	case trace.RoleClient:
		return a.progressClient(msg)
	default:
		return fmt.Errorf("tlsfuzztest: unknown role %q", a.role)
	}
}

func (a *FakeAgent) sendClientHello() error {
	version, _ := tlscatalog.FnProtocolVersion12()
	random, _ := tlscatalog.FnRandom()
	session, _ := tlscatalog.FnSessionID()
	suites, _ := tlscatalog.FnCipherSuite12()
	comps, _ := tlscatalog.FnCompressions()
	sigAlgs, _ := tlscatalog.FnSignatureAlgorithmsExtension()
	exts, _ := tlscatalog.FnClientExtensions1(sigAlgs)

	hello, err := tlscatalog.FnClientHello(version, random, session, suites, comps, exts)
	if err != nil {
		return err
	}
	a.state = stateHelloExchanged
	return a.enqueue(hello)
}

func (a *FakeAgent) progressServer(msg tlscatalog.Message) error {
	if a.state == stateHelloExchanged {
		// Awaiting the client's ClientKeyExchange/ChangeCipherSpec/Finished
		// flight; acknowledge each and complete once Finished arrives.
		switch msg.Kind {
		case tlscatalog.KindClientKeyExchange, tlscatalog.KindChangeCipherSpec:
			return nil
		case tlscatalog.KindFinished:
			a.state = stateComplete
			return nil
		default:
			return fmt.Errorf("tlsfuzztest: server received unexpected message kind %q", msg.Kind)
		}
	}

	if msg.Kind != tlscatalog.KindClientHello || msg.ClientHello == nil {
		return fmt.Errorf("tlsfuzztest: server received unexpected message kind %q", msg.Kind)
	}

	if a.state == stateComplete {
		// A ClientHello arriving after the handshake completed is a
		// renegotiation attempt. A server that lost signature_algorithms
		// between the original and this ClientHello is exhibiting the
		// CVE-2021-3449 shape.
		if a.sawSignatureAlgorithms && !hasSignatureAlgorithms(msg.ClientHello.Extensions) {
			a.reportClaim("cve-2021-3449", map[string]string{"missing_extension": "signature_algorithms"})
		}
		return nil
	}

	for _, s := range msg.ClientHello.CipherSuites {
		if s == tlscatalog.TLSRSAExportWithRC440MD5 {
			return fmt.Errorf("tlsfuzztest: export-grade cipher suite 0x%04x not supported", uint16(s))
		}
	}

	a.sawSignatureAlgorithms = hasSignatureAlgorithms(msg.ClientHello.Extensions)

	cert, _ := tlscatalog.FnCertificate(tlscatalog.Payload("fake-certificate"))
	ske, _ := tlscatalog.FnServerKeyExchange(tlscatalog.Payload("fake-key-exchange-params"))
	done, _ := tlscatalog.FnServerHelloDone()

	version, _ := tlscatalog.FnProtocolVersion12()
	random, _ := tlscatalog.FnRandom()
	suite := tlscatalog.TLSRSAWithAES128GCMSHA256
	comp := tlscatalog.CompressionNull
	hello, err := tlscatalog.FnServerHello(version, random, msg.ClientHello.SessionID, suite, comp, msg.ClientHello.Extensions)
	if err != nil {
		return err
	}

	a.state = stateHelloExchanged
	for _, m := range []tlscatalog.Message{hello, cert, ske, done} {
		if err := a.enqueue(m); err != nil {
			return err
		}
	}
	return nil
}

func (a *FakeAgent) progressClient(msg tlscatalog.Message) error {
	switch msg.Kind {
	case tlscatalog.KindServerHello, tlscatalog.KindCertificate, tlscatalog.KindServerKeyExchange:
		return nil
	case tlscatalog.KindServerHelloDone:
		cke, _ := tlscatalog.FnClientKeyExchange(tlscatalog.Payload("fake-key-exchange-params"))
		ccs, _ := tlscatalog.FnChangeCipherSpec()
		fin, _ := tlscatalog.FnFinished(tlscatalog.Payload("fake-verify-data"))

		a.state = stateComplete
		for _, m := range []tlscatalog.Message{cke, ccs, fin} {
			if err := a.enqueue(m); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("tlsfuzztest: client received unexpected message kind %q", msg.Kind)
	}
}

func (a *FakeAgent) enqueue(m tlscatalog.Message) error {
	opaque, err := m.Encode()
	if err != nil {
		return err
	}
	a.outbound = append(a.outbound, opaque)
	return nil
}

func hasSignatureAlgorithms(exts tlscatalog.ClientExtensionList) bool {
	for _, e := range exts {
		if e.Kind == tlscatalog.ExtensionSignatureAlgorithms {
			return true
		}
	}
	return false
}

func (a *FakeAgent) reportClaim(origin string, fields map[string]string) {
	if a.listener == nil {
		return
	}
	a.listener(trace.Claim{
		Origin:     origin,
		TLSVersion: "1.2",
		Data: trace.ClaimData{
			MessageKind:   tlscatalog.KindClientHello,
			MessageFields: fields,
		},
	})
}

// Reset implements agent.Agent: rewinds the simulation to its initial state.
func (a *FakeAgent) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = stateStart
	a.inbound = nil
	a.outbound = nil
	a.sawSignatureAlgorithms = false
	return nil
}

// DescribeState implements agent.Agent.
func (a *FakeAgent) DescribeState() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("%s:%s", a.role, a.state)
}

// IsStateSuccessful implements agent.Agent: the client considers itself
// successful once it has sent its Finished flight; the server, once it has
// received the client's.
func (a *FakeAgent) IsStateSuccessful() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == stateComplete
}

// Shutdown implements agent.Agent.
func (a *FakeAgent) Shutdown() string {
	return a.DescribeState()
}

// RegisterClaimListener implements agent.Agent.
func (a *FakeAgent) RegisterClaimListener(l trace.ClaimListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = l
}

// DeregisterClaimListener implements agent.Agent.
func (a *FakeAgent) DeregisterClaimListener() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = nil
}
