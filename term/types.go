// Package term implements the typed term algebra: a type registry with
// runtime identity and erased deep-clone, dynamic function dispatch, and the
// Variable/Application expression tree evaluated against a knowledge store.
package term

import (
	"reflect"
	"sync"
)

// Cloner allows a concrete value type to provide deep-copy logic so it can be
// registered as a TypeShape. Modifications to a clone must never affect the
// original - for types holding slices, maps, or pointers, Clone must copy
// them too.
type Cloner[T any] interface {
	Clone() T
}

// TypeShape is the stable identity of a concrete value type used throughout
// the term algebra: two TypeShapes are equal iff their runtime identifiers
// match, regardless of name.
type TypeShape struct {
	rt    reflect.Type
	name  string
	clone func(any) any
}

// RuntimeType returns the underlying reflect.Type - the shape's runtime
// identifier.
func (s TypeShape) RuntimeType() reflect.Type { return s.rt }

// Name returns the shape's human-readable name.
func (s TypeShape) Name() string { return s.name }

// Equal reports whether two TypeShapes share the same runtime identifier.
func (s TypeShape) Equal(o TypeShape) bool { return s.rt == o.rt }

// Clone returns a deep copy of an erased value whose runtime type matches s.
// Returns v unchanged if no clone operation was registered or v is nil.
func (s TypeShape) Clone(v any) any {
	if s.clone == nil || v == nil {
		return v
	}
	return s.clone(v)
}

func (s TypeShape) String() string { return s.name }

var (
	shapeCacheMu sync.RWMutex
	shapeCache   = make(map[reflect.Type]TypeShape)
)

// ShapeOf returns the cached TypeShape for T, building and caching it on
// first use via T's own Clone method.
func ShapeOf[T Cloner[T]]() TypeShape {
	rt := reflect.TypeFor[T]()

	shapeCacheMu.RLock()
	if s, ok := shapeCache[rt]; ok {
		shapeCacheMu.RUnlock()
		return s
	}
	shapeCacheMu.RUnlock()

	shapeCacheMu.Lock()
	defer shapeCacheMu.Unlock()

	if s, ok := shapeCache[rt]; ok {
		return s
	}

	shape := TypeShape{
		rt:   rt,
		name: rt.Name(),
		clone: func(v any) any {
			t := v.(T)
			return t.Clone()
		},
	}
	shapeCache[rt] = shape
	return shape
}

// NewShape registers (and caches) a TypeShape for a type that cannot
// implement Cloner directly - primitives and other external types. Use for
// leaf types such as `u64` or `[]byte` wire payloads.
func NewShape[T any](name string, clone func(T) T) TypeShape {
	rt := reflect.TypeFor[T]()

	shapeCacheMu.RLock()
	if s, ok := shapeCache[rt]; ok {
		shapeCacheMu.RUnlock()
		return s
	}
	shapeCacheMu.RUnlock()

	shapeCacheMu.Lock()
	defer shapeCacheMu.Unlock()

	if s, ok := shapeCache[rt]; ok {
		return s
	}

	shape := TypeShape{
		rt:   rt,
		name: name,
		clone: func(v any) any {
			return clone(v.(T))
		},
	}
	shapeCache[rt] = shape
	return shape
}

// lookupShape returns the TypeShape registered for a reflect.Type, if any.
// MakeDynamic uses this to derive a function's erased shape from its static
// Go signature without re-deriving type identity.
func lookupShape(rt reflect.Type) (TypeShape, bool) {
	shapeCacheMu.RLock()
	defer shapeCacheMu.RUnlock()
	s, ok := shapeCache[rt]
	return s, ok
}

// ShapeForType is the exported form of lookupShape, used by package trace's
// knowledge extraction to test whether a reflected sub-value's runtime type
// is one the term algebra knows how to name and clone.
func ShapeForType(rt reflect.Type) (TypeShape, bool) {
	return lookupShape(rt)
}

// ResetShapeCache clears the shape cache. For test isolation only - the
// Signature is process-wide and immutable in production use.
func ResetShapeCache() {
	shapeCacheMu.Lock()
	defer shapeCacheMu.Unlock()
	shapeCache = make(map[reflect.Type]TypeShape)
}
