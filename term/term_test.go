package term_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/tlsfuzz/term"
)

var (
	intShape = term.NewShape[int]("int", func(v int) int { return v })
	strShape = term.NewShape[string]("string", func(v string) string { return v })
)

// fakeKnowledge resolves every query to a fixed value, used to exercise
// Variable/Application evaluation without pulling in package trace.
type fakeKnowledge struct {
	values map[uint16]any
	err    error
}

func (k *fakeKnowledge) Resolve(q term.QueryId, _ term.TypeShape) (any, error) {
	if k.err != nil {
		return nil, k.err
	}
	v, ok := k.values[q.Counter]
	if !ok {
		return nil, errors.New("no such observation")
	}
	return v, nil
}

func addSymbol(t *testing.T, name string, fn any) term.FunctionDefinition {
	t.Helper()
	def, err := term.MakeDynamic(name, fn)
	if err != nil {
		t.Fatalf("MakeDynamic(%s): %v", name, err)
	}
	return def
}

func TestApplicationEvaluateLeftToRight(t *testing.T) {
	var order []int
	lhs, err := term.MakeDynamic("lhs", func() int {
		order = append(order, 0)
		return 10
	})
	if err != nil {
		t.Fatal(err)
	}
	rhs, err := term.MakeDynamic("rhs", func() int {
		order = append(order, 1)
		return 32
	})
	if err != nil {
		t.Fatal(err)
	}
	sum := addSymbol(t, "sum", func(a, b int) int { return a + b })

	app, err := term.NewApplication(sum,
		must(term.NewApplication(lhs)),
		must(term.NewApplication(rhs)),
	)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}

	k := &fakeKnowledge{}
	got, err := app.Evaluate(k)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.(int) != 42 {
		t.Fatalf("got %v, want 42", got)
	}
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Fatalf("evaluation order not left-to-right: %v", order)
	}
}

func must(a *term.Application, err error) *term.Application {
	if err != nil {
		panic(err)
	}
	return a
}

func TestNewApplicationRejectsArityMismatch(t *testing.T) {
	sum := addSymbol(t, "sum2", func(a, b int) int { return a + b })
	one := term.NewVariable(intShape, term.QueryId{Counter: 0})

	_, err := term.NewApplication(sum, one)
	if err == nil {
		t.Fatal("expected arity mismatch error")
	}
	if !errors.Is(err, term.ErrTerm) {
		t.Fatalf("expected ErrTerm, got %v", err)
	}
}

func TestNewApplicationRejectsTypeMismatch(t *testing.T) {
	concat := addSymbol(t, "concatIntString", func(a int, b string) string { return b })
	wrongType := term.NewVariable(strShape, term.QueryId{Counter: 0})
	other := term.NewVariable(strShape, term.QueryId{Counter: 1})

	_, err := term.NewApplication(concat, wrongType, other)
	if err == nil {
		t.Fatal("expected type mismatch error")
	}
	if !errors.Is(err, term.ErrTerm) {
		t.Fatalf("expected ErrTerm, got %v", err)
	}
}

func TestVariableEvaluateExtractionFailure(t *testing.T) {
	v := term.NewVariable(intShape, term.QueryId{Counter: 99})
	k := &fakeKnowledge{values: map[uint16]any{0: 1}}

	_, err := v.Evaluate(k)
	if err == nil {
		t.Fatal("expected extraction error")
	}
	if !errors.Is(err, term.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	double := addSymbol(t, "double", func(a int) int { return a * 2 })
	v := term.NewVariable(intShape, term.QueryId{Counter: 0})
	app := must(term.NewApplication(double, v))

	clone := app.Clone().(*term.Application)
	if clone == app {
		t.Fatal("Clone returned the same pointer")
	}
	if clone.Children[0] == app.Children[0] {
		t.Fatal("Clone did not deep-copy children")
	}
}
