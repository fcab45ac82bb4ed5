// Package tlscatalog is the illustrative catalog of concrete TLS-1.2 value
// types and function symbols: the core only fixes how such a catalog is
// shaped and used, not its contents. Names and hardcoded-version behavior
// follow the convention of a constructor function per message type; the
// catalog defines no per-field accessor functions.
package tlscatalog

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/tlsfuzz/engine"
)

// ProtocolVersion is the wire version field carried by ClientHello,
// ServerHello, and the record layer, treated as a constant unless a symbol
// explicitly parameterizes it.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// Clone returns p unchanged - ProtocolVersion has no reference fields.
func (p ProtocolVersion) Clone() ProtocolVersion { return p }

// TLS12 is the only record-layer version this illustrative catalog
// constructs; it is not independently controllable.
var TLS12 = ProtocolVersion{Major: 3, Minor: 3}

// Random is the 32-byte handshake random value.
type Random [32]byte

// Clone returns r unchanged - Random is a value array, not a reference type.
func (r Random) Clone() Random { return r }

// SessionID is the variable-length session identifier.
type SessionID []byte

// Clone returns a deep, independent copy of s.
func (s SessionID) Clone() SessionID {
	out := make(SessionID, len(s))
	copy(out, s)
	return out
}

// CipherSuite identifies one TLS cipher suite by its IANA registry value.
type CipherSuite uint16

// Clone returns c unchanged - CipherSuite is a plain integer.
func (c CipherSuite) Clone() CipherSuite { return c }

// Cipher suite constants referenced by the fn_cipher_suite12 family.
const (
	TLSRSAWithAES128GCMSHA256 CipherSuite = 0x009c
	TLSRSAExportWithRC440MD5  CipherSuite = 0x0003
)

// CipherSuiteList is the "Vec<CipherSuite>" distinguished type.
type CipherSuiteList []CipherSuite

// Clone returns a deep, independent copy of l.
func (l CipherSuiteList) Clone() CipherSuiteList {
	out := make(CipherSuiteList, len(l))
	copy(out, l)
	return out
}

// Compression identifies a compression method.
type Compression uint8

// Clone returns c unchanged - Compression is a plain integer.
func (c Compression) Clone() Compression { return c }

// CompressionNull is the only compression method this catalog emits.
const CompressionNull Compression = 0

// CompressionList is the "Vec<Compression>" distinguished type.
type CompressionList []Compression

// Clone returns a deep, independent copy of l.
func (l CompressionList) Clone() CompressionList {
	out := make(CompressionList, len(l))
	copy(out, l)
	return out
}

// ExtensionKind names a ClientHello extension by its IANA registry value.
type ExtensionKind uint16

// ExtensionSignatureAlgorithms is extension type 13 - the extension
// fn_attack_cve_2021_3449 strips from a renegotiation ClientHello.
const ExtensionSignatureAlgorithms ExtensionKind = 13

// ClientExtension is one opaque-payload TLS extension.
type ClientExtension struct {
	Kind ExtensionKind
	Data []byte
}

// Clone returns a deep, independent copy of e.
func (e ClientExtension) Clone() ClientExtension {
	data := append([]byte(nil), e.Data...)
	return ClientExtension{Kind: e.Kind, Data: data}
}

// ClientExtensionList is the "Vec<ClientExtension>" distinguished type.
type ClientExtensionList []ClientExtension

// Clone returns a deep, independent copy of l, cloning every extension.
func (l ClientExtensionList) Clone() ClientExtensionList {
	out := make(ClientExtensionList, len(l))
	for i, e := range l {
		out[i] = e.Clone()
	}
	return out
}

// Payload is an opaque byte vector - the fallback typed observation
// recorded when structured parsing of an outbound message fails, and the
// plaintext/ciphertext type fn_encrypt12/fn_decrypt12 operate on.
type Payload []byte

// Clone returns a deep, independent copy of p.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	copy(out, p)
	return out
}

// HandshakeHash is a running transcript hash snapshot, the input to
// fn_sign_transcript and fn_verify_data.
type HandshakeHash []byte

// Clone returns a deep, independent copy of h.
func (h HandshakeHash) Clone() HandshakeHash {
	out := make(HandshakeHash, len(h))
	copy(out, h)
	return out
}

// U64 is the catalog's u64 leaf type.
type U64 uint64

// Clone returns u unchanged - U64 is a plain integer.
func (u U64) Clone() U64 { return u }

// MessageKind names of the handshake messages this catalog's constructors
// produce, used both as term.MessageKind values and as Message.Kind tags.
const (
	KindClientHello       = "ClientHello"
	KindServerHello       = "ServerHello"
	KindCertificate       = "Certificate"
	KindServerKeyExchange = "ServerKeyExchange"
	KindServerHelloDone   = "ServerHelloDone"
	KindClientKeyExchange = "ClientKeyExchange"
	KindChangeCipherSpec  = "ChangeCipherSpec"
	KindFinished          = "Finished"
	KindOpaque            = "Opaque"
)

// Message is the tagged union of TLS-1.2 handshake messages this catalog
// knows how to construct, encode, and decompose into knowledge. Only the
// field matching Kind is populated; Encode msgpack-encodes the whole struct,
// Kind included.
type Message struct {
	Kind MessageKind

	ClientHello       *ClientHelloMessage
	ServerHello       *ServerHelloMessage
	Certificate       *CertificateMessage
	ServerKeyExchange *ServerKeyExchangeMessage
	ServerHelloDone   *ServerHelloDoneMessage
	ClientKeyExchange *ClientKeyExchangeMessage
	ChangeCipherSpec  *ChangeCipherSpecMessage
	Finished          *FinishedMessage
}

// MessageKind is a local alias kept distinct from term.MessageKind so the
// catalog's message tag and the knowledge store's query key share the same
// literal strings without importing package term here.
type MessageKind = string

// Clone returns a deep, independent copy of m.
func (m Message) Clone() Message {
	cp := Message{Kind: m.Kind}
	if m.ClientHello != nil {
		v := m.ClientHello.Clone()
		cp.ClientHello = &v
	}
	if m.ServerHello != nil {
		v := m.ServerHello.Clone()
		cp.ServerHello = &v
	}
	if m.Certificate != nil {
		v := m.Certificate.Clone()
		cp.Certificate = &v
	}
	if m.ServerKeyExchange != nil {
		v := m.ServerKeyExchange.Clone()
		cp.ServerKeyExchange = &v
	}
	if m.ServerHelloDone != nil {
		v := *m.ServerHelloDone
		cp.ServerHelloDone = &v
	}
	if m.ClientKeyExchange != nil {
		v := m.ClientKeyExchange.Clone()
		cp.ClientKeyExchange = &v
	}
	if m.ChangeCipherSpec != nil {
		v := *m.ChangeCipherSpec
		cp.ChangeCipherSpec = &v
	}
	if m.Finished != nil {
		v := m.Finished.Clone()
		cp.Finished = &v
	}
	return cp
}

// ClientHelloMessage is the ClientHello handshake message payload.
type ClientHelloMessage struct {
	Version      ProtocolVersion
	Random       Random
	SessionID    SessionID
	CipherSuites CipherSuiteList
	Compressions CompressionList
	Extensions   ClientExtensionList
}

func (c ClientHelloMessage) Clone() ClientHelloMessage {
	return ClientHelloMessage{
		Version:      c.Version.Clone(),
		Random:       c.Random.Clone(),
		SessionID:    c.SessionID.Clone(),
		CipherSuites: c.CipherSuites.Clone(),
		Compressions: c.Compressions.Clone(),
		Extensions:   c.Extensions.Clone(),
	}
}

// ServerHelloMessage is the ServerHello handshake message payload.
type ServerHelloMessage struct {
	Version     ProtocolVersion
	Random      Random
	SessionID   SessionID
	CipherSuite CipherSuite
	Compression Compression
	Extensions  ClientExtensionList
}

func (s ServerHelloMessage) Clone() ServerHelloMessage {
	return ServerHelloMessage{
		Version:     s.Version.Clone(),
		Random:      s.Random.Clone(),
		SessionID:   s.SessionID.Clone(),
		CipherSuite: s.CipherSuite.Clone(),
		Compression: s.Compression.Clone(),
		Extensions:  s.Extensions.Clone(),
	}
}

// CertificateMessage carries a DER-encoded certificate chain as opaque
// payloads.
type CertificateMessage struct {
	Chain []Payload
}

func (c CertificateMessage) Clone() CertificateMessage {
	out := make([]Payload, len(c.Chain))
	for i, p := range c.Chain {
		out[i] = p.Clone()
	}
	return CertificateMessage{Chain: out}
}

// ServerKeyExchangeMessage carries the server's key exchange payload
// (opaque - real key-exchange parameter parsing is out of this catalog's
// illustrative scope).
type ServerKeyExchangeMessage struct {
	Params Payload
}

func (s ServerKeyExchangeMessage) Clone() ServerKeyExchangeMessage {
	return ServerKeyExchangeMessage{Params: s.Params.Clone()}
}

// ServerHelloDoneMessage has no payload.
type ServerHelloDoneMessage struct{}

// ClientKeyExchangeMessage carries the client's key exchange payload.
type ClientKeyExchangeMessage struct {
	Params Payload
}

func (c ClientKeyExchangeMessage) Clone() ClientKeyExchangeMessage {
	return ClientKeyExchangeMessage{Params: c.Params.Clone()}
}

// ChangeCipherSpecMessage has no payload.
type ChangeCipherSpecMessage struct{}

// FinishedMessage carries the Finished message's verify_data.
type FinishedMessage struct {
	VerifyData Payload
}

func (f FinishedMessage) Clone() FinishedMessage {
	return FinishedMessage{VerifyData: f.VerifyData.Clone()}
}

// MultiMessageValue is a container of Messages - the shape a recipe's
// evaluation produces when a single Input step must deliver more than one
// message.
type MultiMessageValue struct {
	Items []Message
}

func (m MultiMessageValue) Clone() MultiMessageValue {
	out := make([]Message, len(m.Items))
	for i, item := range m.Items {
		out[i] = item.Clone()
	}
	return MultiMessageValue{Items: out}
}

// Messages implements engine.MultiMessage.
func (m MultiMessageValue) Messages() []engine.Message {
	out := make([]engine.Message, len(m.Items))
	for i, item := range m.Items {
		out[i] = item
	}
	return out
}

// Encode implements engine.Message via msgpack - an illustrative wire
// encoding; a production adapter would frame these as the actual TLS record
// layer.
func (m Message) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("tlscatalog: encode %s: %w", m.Kind, err)
	}
	return data, nil
}

// DecodeMessage is the inverse of Message.Encode, used by Extractor to parse
// outbound opaque bytes back into a structured Message. fn_decrypt12 returns
// its plaintext as a Payload and does not call it.
func DecodeMessage(opaque []byte) (Message, error) {
	var m Message
	if err := msgpack.Unmarshal(opaque, &m); err != nil {
		return Message{}, fmt.Errorf("tlscatalog: decode message: %w", err)
	}
	return m, nil
}
