package term_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/tlsfuzz/term"
)

func TestMakeDynamicRejectsUnregisteredArgumentType(t *testing.T) {
	type unregistered struct{ X int }
	_, err := term.MakeDynamic("bad", func(u unregistered) int { return u.X })
	if err == nil {
		t.Fatal("expected an error for an unregistered argument type")
	}
}

func TestMakeDynamicWithErrorReturn(t *testing.T) {
	boom := errors.New("boom")
	def, err := term.MakeDynamic("fails", func(a int) (int, error) {
		return 0, boom
	})
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}

	_, callErr := def.Fn([]any{1})
	if callErr == nil {
		t.Fatal("expected the erased call to propagate the function's error")
	}
	if !errors.Is(callErr, term.ErrFn) {
		t.Fatalf("expected ErrFn, got %v", callErr)
	}
}

func TestErasedCallRejectsWrongArgumentCount(t *testing.T) {
	def, err := term.MakeDynamic("arity", func(a, b int) int { return a + b })
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}
	_, callErr := def.Fn([]any{1})
	if callErr == nil || !errors.Is(callErr, term.ErrTerm) {
		t.Fatalf("expected ErrTerm for wrong argument count, got %v", callErr)
	}
}

func TestErasedCallRejectsWrongRuntimeType(t *testing.T) {
	def, err := term.MakeDynamic("typecheck", func(a int) int { return a })
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}
	_, callErr := def.Fn([]any{"not an int"})
	if callErr == nil || !errors.Is(callErr, term.ErrTerm) {
		t.Fatalf("expected ErrTerm for wrong runtime type, got %v", callErr)
	}
}

func TestErasedCallClonesArguments(t *testing.T) {
	type box struct{ n int }
	cloned := 0
	shape := term.NewShape[*box]("box", func(b *box) *box {
		cloned++
		cp := *b
		return &cp
	})
	_ = shape

	def, err := term.MakeDynamic("identity", func(b *box) *box { return b })
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}

	in := &box{n: 1}
	out, err := def.Fn([]any{in})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if out.(*box) == in {
		t.Fatal("expected a cloned argument, got the same pointer")
	}
	if cloned != 1 {
		t.Fatalf("expected the clone function to run once, ran %d times", cloned)
	}
}
