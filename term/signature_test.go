package term_test

import (
	"testing"

	"github.com/zoobzio/tlsfuzz/term"
)

func TestSignatureLookupByName(t *testing.T) {
	inc := addSymbol(t, "sig_inc", func(a int) int { return a + 1 })
	sig, err := term.NewSignature(inc)
	if err != nil {
		t.Fatalf("NewSignature: %v", err)
	}

	def, ok := sig.LookupByName("sig_inc")
	if !ok {
		t.Fatal("expected to find sig_inc")
	}
	if def.Shape.Name != "sig_inc" {
		t.Fatalf("got %q", def.Shape.Name)
	}

	if _, ok := sig.LookupByName("does_not_exist"); ok {
		t.Fatal("unexpected hit for unregistered name")
	}
}

func TestSignatureRejectsDuplicateNames(t *testing.T) {
	a := addSymbol(t, "sig_dup", func(a int) int { return a })
	b := addSymbol(t, "sig_dup", func(a int) int { return a + 1 })

	if _, err := term.NewSignature(a, b); err == nil {
		t.Fatal("expected an error for duplicate function symbol names")
	}
}

func TestSignatureFunctionsReturning(t *testing.T) {
	f1 := addSymbol(t, "sig_ret_a", func(a int) int { return a })
	f2 := addSymbol(t, "sig_ret_b", func(a int) int { return a })
	f3 := addSymbol(t, "sig_ret_c", func(a int) string { return "x" })

	sig, err := term.NewSignature(f1, f2, f3)
	if err != nil {
		t.Fatalf("NewSignature: %v", err)
	}

	got := sig.FunctionsReturning(intShape)
	if len(got) != 2 {
		t.Fatalf("got %d int-returning functions, want 2", len(got))
	}

	gotStr := sig.FunctionsReturning(strShape)
	if len(gotStr) != 1 {
		t.Fatalf("got %d string-returning functions, want 1", len(gotStr))
	}
}

func TestSignatureAllFunctionsPreservesRegistrationOrder(t *testing.T) {
	f1 := addSymbol(t, "sig_order_1", func(a int) int { return a })
	f2 := addSymbol(t, "sig_order_2", func(a int) int { return a })

	sig, err := term.NewSignature(f1, f2)
	if err != nil {
		t.Fatalf("NewSignature: %v", err)
	}

	all := sig.AllFunctions()
	if len(all) != 2 || all[0].Shape.Name != "sig_order_1" || all[1].Shape.Name != "sig_order_2" {
		t.Fatalf("AllFunctions order not preserved: %+v", all)
	}
}

func TestSignatureTypesByNameIncludesEveryReferencedType(t *testing.T) {
	f := addSymbol(t, "sig_types", func(a int, b string) string { return b })
	sig, err := term.NewSignature(f)
	if err != nil {
		t.Fatalf("NewSignature: %v", err)
	}

	if _, ok := sig.TypeByName("int"); !ok {
		t.Fatal("expected int to be registered by name")
	}
	if _, ok := sig.TypeByName("string"); !ok {
		t.Fatal("expected string to be registered by name")
	}
}
