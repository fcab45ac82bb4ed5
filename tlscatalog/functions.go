package tlscatalog

import (
	"sync"

	"github.com/zoobzio/tlsfuzz/term"
)

// deterministicState backs every "random" function symbol with a fixed,
// replayable source. Reset before each trace execution so repeated runs of
// the same trace reproduce identical wire bytes.
var (
	detMu      sync.Mutex
	detCounter uint64
)

// ResetDeterminism rewinds every deterministic function symbol's internal
// counter to its initial state. Call once per fresh TraceContext,
// immediately before Run, so a PUT's own "make the PRNG deterministic" hook
// is mirrored at the term algebra's own synthetic-randomness layer rather
// than the PUT's.
func ResetDeterminism() {
	detMu.Lock()
	defer detMu.Unlock()
	detCounter = 0
}

func nextCounter() uint64 {
	detMu.Lock()
	defer detMu.Unlock()
	detCounter++
	return detCounter
}

// FnRandom produces a deterministic Random value seeded from a monotonic
// counter rather than crypto/rand, so that two executions of an identical
// trace against fresh agents yield byte-identical handshakes.
func FnRandom() (Random, error) {
	n := nextCounter()
	var r Random
	for i := range r {
		r[i] = byte(n >> (uint(i%8) * 8))
		n = n*6364136223846793005 + 1
	}
	return r, nil
}

// FnProtocolVersion12 always returns TLS 1.2: the record-layer version is
// treated as a constant unless a symbol explicitly parameterizes it.
func FnProtocolVersion12() (ProtocolVersion, error) {
	return TLS12, nil
}

// FnSessionID produces a deterministic 32-byte session identifier.
func FnSessionID() (SessionID, error) {
	n := nextCounter()
	id := make(SessionID, 32)
	for i := range id {
		id[i] = byte(n >> (uint(i%8) * 8))
		n = n*2862933555777941757 + 3037000493
	}
	return id, nil
}

// FnCipherSuite12 offers the one AES-GCM suite this catalog's record-layer
// crypto implements.
func FnCipherSuite12() (CipherSuiteList, error) {
	return CipherSuiteList{TLSRSAWithAES128GCMSHA256}, nil
}

// FnWeakExportCipherSuite offers the export-grade 40-bit RC4 suite, used by
// a Replace-Match reachability probe of whether a PUT still accepts an
// export cipher.
func FnWeakExportCipherSuite() (CipherSuiteList, error) {
	return CipherSuiteList{TLSRSAExportWithRC440MD5}, nil
}

// FnCompressions offers the single null-compression method TLS 1.2 requires.
func FnCompressions() (CompressionList, error) {
	return CompressionList{CompressionNull}, nil
}

// FnSignatureAlgorithmsExtension builds a signature_algorithms extension
// carrying one illustrative scheme identifier.
func FnSignatureAlgorithmsExtension() (ClientExtension, error) {
	return ClientExtension{Kind: ExtensionSignatureAlgorithms, Data: []byte{0x04, 0x01}}, nil
}

// FnClientExtensions1 wraps a single extension into the Vec<ClientExtension>
// type the ClientHello constructor expects.
func FnClientExtensions1(e ClientExtension) (ClientExtensionList, error) {
	return ClientExtensionList{e}, nil
}

// FnClientHello builds a ClientHello message. The wire version is forced to
// TLS 1.2 regardless of the client_version argument - that field is not
// independently controllable by this catalog.
func FnClientHello(version ProtocolVersion, random Random, sessionID SessionID, suites CipherSuiteList, comps CompressionList, exts ClientExtensionList) (Message, error) {
	_ = version
	return Message{
		Kind: KindClientHello,
		ClientHello: &ClientHelloMessage{
			Version:      TLS12,
			Random:       random,
			SessionID:    sessionID,
			CipherSuites: suites,
			Compressions: comps,
			Extensions:   exts,
		},
	}, nil
}

// FnServerHello builds a ServerHello message.
func FnServerHello(version ProtocolVersion, random Random, sessionID SessionID, suite CipherSuite, comp Compression, exts ClientExtensionList) (Message, error) {
	_ = version
	return Message{
		Kind: KindServerHello,
		ServerHello: &ServerHelloMessage{
			Version:     TLS12,
			Random:      random,
			SessionID:   sessionID,
			CipherSuite: suite,
			Compression: comp,
			Extensions:  exts,
		},
	}, nil
}

// FnCertificate wraps an opaque certificate payload.
func FnCertificate(p Payload) (Message, error) {
	return Message{Kind: KindCertificate, Certificate: &CertificateMessage{Chain: []Payload{p}}}, nil
}

// FnServerKeyExchange wraps an opaque key-exchange parameter payload.
func FnServerKeyExchange(p Payload) (Message, error) {
	return Message{Kind: KindServerKeyExchange, ServerKeyExchange: &ServerKeyExchangeMessage{Params: p}}, nil
}

// FnServerHelloDone builds the empty ServerHelloDone message.
func FnServerHelloDone() (Message, error) {
	return Message{Kind: KindServerHelloDone, ServerHelloDone: &ServerHelloDoneMessage{}}, nil
}

// FnClientKeyExchange wraps the client's opaque key-exchange payload.
func FnClientKeyExchange(p Payload) (Message, error) {
	return Message{Kind: KindClientKeyExchange, ClientKeyExchange: &ClientKeyExchangeMessage{Params: p}}, nil
}

// FnChangeCipherSpec builds the empty ChangeCipherSpec message.
func FnChangeCipherSpec() (Message, error) {
	return Message{Kind: KindChangeCipherSpec, ChangeCipherSpec: &ChangeCipherSpecMessage{}}, nil
}

// FnFinished wraps a computed verify_data into a Finished message.
func FnFinished(verifyData Payload) (Message, error) {
	return Message{Kind: KindFinished, Finished: &FinishedMessage{VerifyData: verifyData}}, nil
}

// FnConcatMessages2 combines two messages into a MultiMessage, for recipes
// that must deliver more than one message in a single Input step.
func FnConcatMessages2(a, b Message) (MultiMessageValue, error) {
	return MultiMessageValue{Items: []Message{a, b}}, nil
}

// FnConcatMessages3 combines three messages into a MultiMessage.
func FnConcatMessages3(a, b, c Message) (MultiMessageValue, error) {
	return MultiMessageValue{Items: []Message{a, b, c}}, nil
}

// FnConcatMessages4 combines four messages into a MultiMessage - the
// ServerHello/Certificate/ServerKeyExchange/ServerHelloDone flight seed
// constructors deliver in one Input step.
func FnConcatMessages4(a, b, c, d Message) (MultiMessageValue, error) {
	return MultiMessageValue{Items: []Message{a, b, c, d}}, nil
}

// FnKeyExchangeParams wraps a derived secret as the opaque key-exchange
// parameter payload a ClientKeyExchange or ServerKeyExchange message
// carries.
func FnKeyExchangeParams(secret SessionID) (Payload, error) {
	return Payload(secret), nil
}

// FnEncrypt12 encrypts a message's wire encoding under a session key,
// yielding an opaque Payload suitable for a further fn_client_key_exchange
// or application-data carrying step.
func FnEncrypt12(m Message, key SessionID) (Payload, error) {
	plaintext, err := m.Encode()
	if err != nil {
		return nil, err
	}
	ct, err := aesGCMEncrypt(key, plaintext)
	if err != nil {
		return nil, err
	}
	return Payload(ct), nil
}

// FnDecrypt12 reverses FnEncrypt12, returning the plaintext bytes (further
// decoded by the engine's parser if the caller knows them to be a Message).
func FnDecrypt12(ct Payload, key SessionID) (Payload, error) {
	pt, err := aesGCMDecrypt(key, ct)
	if err != nil {
		return nil, err
	}
	return Payload(pt), nil
}

// FnTranscriptOf converts a single message into an illustrative transcript
// snapshot (its wire encoding) - a stand-in for the real PUT's running
// handshake-hash accumulator, which this catalog does not implement.
func FnTranscriptOf(m Message) (HandshakeHash, error) {
	b, err := m.Encode()
	if err != nil {
		return nil, err
	}
	return HandshakeHash(b), nil
}

// FnSignTranscript hashes an accumulated transcript, standing in for the
// real PUT's Finished-message MAC (fn_sign_transcript in the symbol
// catalog's naming).
func FnSignTranscript(transcript HandshakeHash) (Payload, error) {
	return Payload(transcriptHash(transcript)), nil
}

// FnVerifyData computes the Finished message's verify_data from a
// transcript hash - illustrative stand-in for the TLS 1.2 PRF.
func FnVerifyData(transcript HandshakeHash) (Payload, error) {
	sum := transcriptHash(transcript)
	return Payload(sum[:12]), nil
}

// FnDeriveHandshakeSecret stretches the client and server randoms into a
// session key via Argon2id.
func FnDeriveHandshakeSecret(clientRandom, serverRandom Random) (SessionID, error) {
	return SessionID(deriveHandshakeSecret(clientRandom, serverRandom)), nil
}

// FnRecordSequence returns a deterministic record-layer sequence number,
// exercising the catalog's u64 leaf type.
func FnRecordSequence() (U64, error) {
	return U64(nextCounter()), nil
}

// FnAttackCVE202103449 reproduces the core of CVE-2021-3449: given a
// ClientHello-bearing Message, it strips the signature_algorithms extension
// before a renegotiation handshake, a request shape some TLS 1.2 server
// implementations mishandled by dereferencing a null pointer. Non-ClientHello
// inputs pass through unchanged.
func FnAttackCVE202103449(m Message) (Message, error) {
	if m.Kind != KindClientHello || m.ClientHello == nil {
		return m, nil
	}
	stripped := m.ClientHello.Clone()
	kept := stripped.Extensions[:0]
	for _, e := range stripped.Extensions {
		if e.Kind == ExtensionSignatureAlgorithms {
			continue
		}
		kept = append(kept, e)
	}
	stripped.Extensions = kept
	return Message{Kind: KindClientHello, ClientHello: &stripped}, nil
}

// registerTypes records every TypeShape this catalog's functions reference,
// each via NewShape with its registered name and its own Clone method.
// MakeDynamic requires each argument and return type be registered before
// the function symbol referencing it is built.
func registerTypes() {
	term.NewShape[ProtocolVersion]("ProtocolVersion", ProtocolVersion.Clone)
	term.NewShape[Random]("Random", Random.Clone)
	term.NewShape[SessionID]("SessionID", SessionID.Clone)
	term.NewShape[CipherSuite]("CipherSuite", CipherSuite.Clone)
	term.NewShape[CipherSuiteList]("Vec<CipherSuite>", CipherSuiteList.Clone)
	term.NewShape[Compression]("Compression", Compression.Clone)
	term.NewShape[CompressionList]("Vec<Compression>", CompressionList.Clone)
	term.NewShape[ClientExtension]("ClientExtension", ClientExtension.Clone)
	term.NewShape[ClientExtensionList]("Vec<ClientExtension>", ClientExtensionList.Clone)
	term.NewShape[Payload]("Payload", Payload.Clone)
	term.NewShape[Message]("Message", Message.Clone)
	term.NewShape[MultiMessageValue]("MultiMessage", MultiMessageValue.Clone)
	term.NewShape[HandshakeHash]("HandshakeHash", HandshakeHash.Clone)
	term.NewShape[U64]("u64", U64.Clone)
}

// functionSymbols lists every (name, Go function) pair this catalog
// registers into the Signature as a flat symbol table.
func functionSymbols() map[string]any {
	return map[string]any{
		"fn_random":                         FnRandom,
		"fn_protocol_version12":             FnProtocolVersion12,
		"fn_session_id":                     FnSessionID,
		"fn_cipher_suite12":                 FnCipherSuite12,
		"fn_weak_export_cipher_suite":       FnWeakExportCipherSuite,
		"fn_compressions":                   FnCompressions,
		"fn_signature_algorithms_extension": FnSignatureAlgorithmsExtension,
		"fn_client_extensions1":             FnClientExtensions1,
		"fn_client_hello":                   FnClientHello,
		"fn_server_hello":                   FnServerHello,
		"fn_certificate":                    FnCertificate,
		"fn_server_key_exchange":            FnServerKeyExchange,
		"fn_server_hello_done":              FnServerHelloDone,
		"fn_client_key_exchange":            FnClientKeyExchange,
		"fn_change_cipher_spec":             FnChangeCipherSpec,
		"fn_finished":                       FnFinished,
		"fn_concat_messages2":               FnConcatMessages2,
		"fn_concat_messages3":               FnConcatMessages3,
		"fn_concat_messages4":               FnConcatMessages4,
		"fn_key_exchange_params":            FnKeyExchangeParams,
		"fn_encrypt12":                      FnEncrypt12,
		"fn_decrypt12":                      FnDecrypt12,
		"fn_transcript_of":                  FnTranscriptOf,
		"fn_sign_transcript":                FnSignTranscript,
		"fn_verify_data":                    FnVerifyData,
		"fn_derive_handshake_secret":        FnDeriveHandshakeSecret,
		"fn_record_sequence":                FnRecordSequence,
		"fn_attack_cve_2021_3449":           FnAttackCVE202103449,
	}
}
