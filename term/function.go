package term

import (
	"fmt"
	"reflect"
)

// DynamicFunctionShape is the erased signature of a function symbol.
// Equality is by (Name, ArgumentTypes, ReturnType).
type DynamicFunctionShape struct {
	Name          string
	ArgumentTypes []TypeShape
	ReturnType    TypeShape
}

// Equal reports whether two shapes have the same name, argument types in
// order, and return type.
func (s DynamicFunctionShape) Equal(o DynamicFunctionShape) bool {
	if s.Name != o.Name || !s.ReturnType.Equal(o.ReturnType) || len(s.ArgumentTypes) != len(o.ArgumentTypes) {
		return false
	}
	for i := range s.ArgumentTypes {
		if !s.ArgumentTypes[i].Equal(o.ArgumentTypes[i]) {
			return false
		}
	}
	return true
}

// SameSignature reports whether two shapes accept the same argument types and
// return the same type, ignoring their name - the compatibility test used by
// Replace-Match.
func (s DynamicFunctionShape) SameSignature(o DynamicFunctionShape) bool {
	if !s.ReturnType.Equal(o.ReturnType) || len(s.ArgumentTypes) != len(o.ArgumentTypes) {
		return false
	}
	for i := range s.ArgumentTypes {
		if !s.ArgumentTypes[i].Equal(o.ArgumentTypes[i]) {
			return false
		}
	}
	return true
}

// DynamicFunction is an erased callable: an ordered list of erased arguments
// in, a single erased value out. Preconditions for invocation (argument
// count and per-argument runtime type) are enforced by the adapter built by
// MakeDynamic.
type DynamicFunction func(args []any) (any, error)

// FunctionDefinition pairs a function symbol's erased shape with its erased
// callable.
type FunctionDefinition struct {
	Shape DynamicFunctionShape
	Fn    DynamicFunction
}

// MakeDynamic reflects over a statically-typed Go function and yields its
// erased shape and callable. Each parameter and the return
// type must already be registered via ShapeOf/NewShape; MakeDynamic looks up
// their TypeShape by reflect.Type rather than re-deriving identity, keeping a
// single source of truth for "what types exist" in the shape cache.
//
// fn must have the Go shape func(A1, ..., An) (R, error) or func(A1, ..., An) R.
// The erased callable deep-clones each argument (via its TypeShape) before
// invoking fn, honoring by-value semantics in the term algebra.
func MakeDynamic(name string, fn any) (FunctionDefinition, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return FunctionDefinition{}, fmt.Errorf("term: MakeDynamic(%s): fn is not a function", name)
	}

	hasErr := ft.NumOut() == 2
	if ft.NumOut() != 1 && !hasErr {
		return FunctionDefinition{}, fmt.Errorf("term: MakeDynamic(%s): must return (R) or (R, error), got %d results", name, ft.NumOut())
	}
	if hasErr && ft.Out(1) != reflect.TypeFor[error]() {
		return FunctionDefinition{}, fmt.Errorf("term: MakeDynamic(%s): second result must be error", name)
	}

	argShapes := make([]TypeShape, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		shape, ok := lookupShape(ft.In(i))
		if !ok {
			return FunctionDefinition{}, fmt.Errorf("term: MakeDynamic(%s): argument %d type %s has no registered TypeShape", name, i, ft.In(i))
		}
		argShapes[i] = shape
	}

	retShape, ok := lookupShape(ft.Out(0))
	if !ok {
		return FunctionDefinition{}, fmt.Errorf("term: MakeDynamic(%s): return type %s has no registered TypeShape", name, ft.Out(0))
	}

	shape := DynamicFunctionShape{Name: name, ArgumentTypes: argShapes, ReturnType: retShape}

	erased := func(args []any) (any, error) {
		if len(args) != len(argShapes) {
			return nil, &TermError{Err: ErrTerm, Detail: fmt.Sprintf("%s: expected %d arguments, got %d", name, len(argShapes), len(args))}
		}

		in := make([]reflect.Value, len(args))
		for i, a := range args {
			at := reflect.TypeOf(a)
			if at != argShapes[i].rt {
				return nil, &TermError{Err: ErrTerm, Detail: fmt.Sprintf("%s: argument %d has runtime type %v, want %v", name, i, at, argShapes[i].rt)}
			}
			cloned := argShapes[i].Clone(a)
			in[i] = reflect.ValueOf(cloned)
		}

		out := fv.Call(in)
		if hasErr {
			if errv, _ := out[1].Interface().(error); errv != nil {
				return nil, &FnError{Err: ErrFn, Name: name, Cause: errv}
			}
		}
		return out[0].Interface(), nil
	}

	return FunctionDefinition{Shape: shape, Fn: erased}, nil
}
