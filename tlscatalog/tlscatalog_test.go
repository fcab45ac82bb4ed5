package tlscatalog_test

import (
	"testing"

	"github.com/zoobzio/tlsfuzz/tlscatalog"
)

func TestSignatureBuildsOnce(t *testing.T) {
	sig, err := tlscatalog.Signature()
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	sig2, err := tlscatalog.Signature()
	if err != nil {
		t.Fatalf("Signature (second call): %v", err)
	}
	if sig != sig2 {
		t.Fatal("Signature returned different instances across calls")
	}
	if _, ok := sig.LookupByName("fn_client_hello"); !ok {
		t.Fatal("expected fn_client_hello to be registered")
	}
	if _, ok := sig.LookupByName("fn_server_hello"); !ok {
		t.Fatal("expected fn_server_hello to be registered")
	}
	if _, ok := sig.LookupByName("fn_attack_cve_2021_3449"); !ok {
		t.Fatal("expected fn_attack_cve_2021_3449 to be registered")
	}
}

func TestFnRandomIsDeterministicAcrossReset(t *testing.T) {
	tlscatalog.ResetDeterminism()
	a, err := tlscatalog.FnRandom()
	if err != nil {
		t.Fatalf("FnRandom: %v", err)
	}
	tlscatalog.ResetDeterminism()
	b, err := tlscatalog.FnRandom()
	if err != nil {
		t.Fatalf("FnRandom: %v", err)
	}
	if a != b {
		t.Fatalf("FnRandom not reproducible after ResetDeterminism: %v != %v", a, b)
	}
}

func TestFnRandomAdvancesWithoutReset(t *testing.T) {
	tlscatalog.ResetDeterminism()
	a, _ := tlscatalog.FnRandom()
	b, _ := tlscatalog.FnRandom()
	if a == b {
		t.Fatal("expected successive FnRandom calls to differ without a reset")
	}
}

func TestClientHelloForcesTLS12Version(t *testing.T) {
	random, _ := tlscatalog.FnRandom()
	session, _ := tlscatalog.FnSessionID()
	suites, _ := tlscatalog.FnCipherSuite12()
	comps, _ := tlscatalog.FnCompressions()
	sigAlgs, _ := tlscatalog.FnSignatureAlgorithmsExtension()
	exts, _ := tlscatalog.FnClientExtensions1(sigAlgs)

	wrongVersion := tlscatalog.ProtocolVersion{Major: 1, Minor: 0}
	hello, err := tlscatalog.FnClientHello(wrongVersion, random, session, suites, comps, exts)
	if err != nil {
		t.Fatalf("FnClientHello: %v", err)
	}
	if hello.Kind != tlscatalog.KindClientHello || hello.ClientHello == nil {
		t.Fatal("expected a populated ClientHello message")
	}
	if hello.ClientHello.Version != tlscatalog.TLS12 {
		t.Fatalf("expected version to be forced to TLS12, got %v", hello.ClientHello.Version)
	}
}

func TestEncodeDecodeMessageRoundTrips(t *testing.T) {
	random, _ := tlscatalog.FnRandom()
	session, _ := tlscatalog.FnSessionID()
	suites, _ := tlscatalog.FnCipherSuite12()
	comps, _ := tlscatalog.FnCompressions()
	sigAlgs, _ := tlscatalog.FnSignatureAlgorithmsExtension()
	exts, _ := tlscatalog.FnClientExtensions1(sigAlgs)
	hello, err := tlscatalog.FnClientHello(tlscatalog.TLS12, random, session, suites, comps, exts)
	if err != nil {
		t.Fatalf("FnClientHello: %v", err)
	}

	opaque, err := hello.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := tlscatalog.DecodeMessage(opaque)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if decoded.Kind != tlscatalog.KindClientHello || decoded.ClientHello == nil {
		t.Fatal("decoded message lost its ClientHello payload")
	}
	if decoded.ClientHello.Random != random {
		t.Fatalf("decoded random = %v, want %v", decoded.ClientHello.Random, random)
	}
}

func TestFnAttackCVE202103449StripsSignatureAlgorithms(t *testing.T) {
	random, _ := tlscatalog.FnRandom()
	session, _ := tlscatalog.FnSessionID()
	suites, _ := tlscatalog.FnCipherSuite12()
	comps, _ := tlscatalog.FnCompressions()
	sigAlgs, _ := tlscatalog.FnSignatureAlgorithmsExtension()
	exts, _ := tlscatalog.FnClientExtensions1(sigAlgs)
	hello, err := tlscatalog.FnClientHello(tlscatalog.TLS12, random, session, suites, comps, exts)
	if err != nil {
		t.Fatalf("FnClientHello: %v", err)
	}

	stripped, err := tlscatalog.FnAttackCVE202103449(hello)
	if err != nil {
		t.Fatalf("FnAttackCVE202103449: %v", err)
	}
	for _, e := range stripped.ClientHello.Extensions {
		if e.Kind == tlscatalog.ExtensionSignatureAlgorithms {
			t.Fatal("expected signature_algorithms extension to be stripped")
		}
	}
	if len(hello.ClientHello.Extensions) == 0 {
		t.Fatal("original message mutated; expected the input to be left untouched")
	}
}

func TestFnAttackCVE202103449PassesThroughNonClientHello(t *testing.T) {
	done, err := tlscatalog.FnServerHelloDone()
	if err != nil {
		t.Fatalf("FnServerHelloDone: %v", err)
	}
	out, err := tlscatalog.FnAttackCVE202103449(done)
	if err != nil {
		t.Fatalf("FnAttackCVE202103449: %v", err)
	}
	if out.Kind != tlscatalog.KindServerHelloDone {
		t.Fatalf("expected pass-through, got kind %q", out.Kind)
	}
}

func TestFnEncryptFnDecryptRoundTrip(t *testing.T) {
	done, err := tlscatalog.FnServerHelloDone()
	if err != nil {
		t.Fatalf("FnServerHelloDone: %v", err)
	}
	key, _ := tlscatalog.FnSessionID()

	ct, err := tlscatalog.FnEncrypt12(done, key)
	if err != nil {
		t.Fatalf("FnEncrypt12: %v", err)
	}
	pt, err := tlscatalog.FnDecrypt12(ct, key)
	if err != nil {
		t.Fatalf("FnDecrypt12: %v", err)
	}
	decoded, err := tlscatalog.DecodeMessage(pt)
	if err != nil {
		t.Fatalf("DecodeMessage of decrypted plaintext: %v", err)
	}
	if decoded.Kind != tlscatalog.KindServerHelloDone {
		t.Fatalf("round-tripped message kind = %q, want %q", decoded.Kind, tlscatalog.KindServerHelloDone)
	}
}

func TestFnConcatMessages4CollectsAllItems(t *testing.T) {
	hello, _ := tlscatalog.FnServerHelloDone()
	cert, _ := tlscatalog.FnCertificate(tlscatalog.Payload("cert"))
	ske, _ := tlscatalog.FnServerKeyExchange(tlscatalog.Payload("params"))
	done, _ := tlscatalog.FnServerHelloDone()

	multi, err := tlscatalog.FnConcatMessages4(hello, cert, ske, done)
	if err != nil {
		t.Fatalf("FnConcatMessages4: %v", err)
	}
	if len(multi.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(multi.Items))
	}
	if len(multi.Messages()) != 4 {
		t.Fatalf("Messages() returned %d entries, want 4", len(multi.Messages()))
	}
}

func TestExtractorRecordsPayloadOnDecodeFailure(t *testing.T) {
	extract := tlscatalog.Extractor()
	k := newTestKnowledge()
	kind, parsed := extract(k, testAgent, []byte("not a valid message encoding"))
	if parsed {
		t.Fatal("expected parsed=false for malformed bytes")
	}
	if kind != tlscatalog.KindOpaque {
		t.Fatalf("kind = %q, want %q", kind, tlscatalog.KindOpaque)
	}
}

func TestExtractorDecomposesValidMessage(t *testing.T) {
	done, err := tlscatalog.FnServerHelloDone()
	if err != nil {
		t.Fatalf("FnServerHelloDone: %v", err)
	}
	opaque, err := done.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	extract := tlscatalog.Extractor()
	k := newTestKnowledge()
	kind, parsed := extract(k, testAgent, opaque)
	if !parsed {
		t.Fatal("expected parsed=true for a valid message")
	}
	if kind != tlscatalog.KindServerHelloDone {
		t.Fatalf("kind = %q, want %q", kind, tlscatalog.KindServerHelloDone)
	}
}
