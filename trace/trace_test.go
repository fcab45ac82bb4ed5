package trace

import (
	"testing"

	"github.com/zoobzio/tlsfuzz/term"
)

func TestTraceCloneIsIndependent(t *testing.T) {
	shape := term.ShapeOf[cloneableU32]()
	kind := term.MessageKind("ClientHello")
	agent := term.FirstAgentName()

	recipe := term.NewVariable(shape, term.QueryId{Agent: agent, MessageKind: &kind, Counter: 0})
	orig := NewTrace(
		[]AgentDescriptor{{Name: agent, Role: RoleClient}},
		Step{Agent: agent, Action: InputAction(recipe)},
		Step{Agent: agent, Action: OutputAction()},
	)

	clone := orig.Clone()

	if len(clone.Steps) != len(orig.Steps) {
		t.Fatalf("clone has %d steps, want %d", len(clone.Steps), len(orig.Steps))
	}

	cloneRecipe, ok := clone.Steps[0].Action.Recipe.(*term.Variable)
	if !ok {
		t.Fatalf("clone recipe has unexpected type %T", clone.Steps[0].Action.Recipe)
	}
	if cloneRecipe == recipe {
		t.Fatal("clone's recipe is the same pointer as the original - not independently cloned")
	}
	if cloneRecipe.Query != recipe.Query {
		t.Fatalf("clone recipe query = %+v, want %+v", cloneRecipe.Query, recipe.Query)
	}

	clone.Descriptors[0].Name = agent.Next()
	if orig.Descriptors[0].Name != agent {
		t.Fatal("mutating clone's descriptors affected the original")
	}
}

func TestOutputActionCarriesNoRecipe(t *testing.T) {
	a := OutputAction()
	if a.Kind != ActionOutput {
		t.Fatalf("Kind = %v, want ActionOutput", a.Kind)
	}
	if a.Recipe != nil {
		t.Fatal("OutputAction carries a non-nil recipe")
	}
}
