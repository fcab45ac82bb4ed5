package trace

import (
	"reflect"

	"github.com/zoobzio/sentinel"
	"github.com/zoobzio/tlsfuzz/term"
)

// ExtractKnowledge recursively decomposes a parsed protocol message into
// typed sub-values and appends each to k, in the fixed order given by the
// message's structural walk: a ClientHello yields its version, random,
// session id, cipher-suite vector, compression vector, extension vector,
// and - transitively - each extension as its own typed value.
//
// The top-level type is scanned via sentinel for its field metadata. Nested
// struct types encountered mid-walk that sentinel has not separately
// registered fall back to a plain reflect-based field scan.
func ExtractKnowledge[T any](k *Knowledge, agent term.AgentName, kind term.MessageKind, msg T) {
	spec := sentinel.Scan[T]()
	rv := reflect.ValueOf(msg)
	before := k.size()

	if shape, ok := term.ShapeForType(rv.Type()); ok {
		k.Append(agent, kind, shape, rv.Interface())
	}

	for _, field := range spec.Fields {
		walkExtract(k, agent, kind, rv.FieldByIndex(field.Index))
	}

	emitKnowledgeExtracted(agent.String(), kind, k.size()-before)
}

// walkExtract appends rv itself if its runtime type is registered, then
// recurses into struct fields and slice/array elements regardless, so that
// unregistered container types (e.g. a raw []byte payload wrapper) still
// yield their registered descendants.
func walkExtract(k *Knowledge, agent term.AgentName, kind term.MessageKind, rv reflect.Value) {
	if !rv.IsValid() {
		return
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return
		}
		walkExtract(k, agent, kind, rv.Elem())
		return
	}

	if shape, ok := term.ShapeForType(rv.Type()); ok {
		k.Append(agent, kind, shape, rv.Interface())
	}

	switch rv.Kind() {
	case reflect.Struct:
		nested := scanNestedStruct(rv.Type())
		for _, field := range nested.Fields {
			walkExtract(k, agent, kind, rv.FieldByIndex(field.Index))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			walkExtract(k, agent, kind, rv.Index(i))
		}
	}
}

// scanNestedStruct builds minimal field metadata for a struct type
// encountered mid-walk: a plain exported-field scan for struct fields that
// were not the original sentinel.Scan[T] call site.
func scanNestedStruct(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		spec.Fields = append(spec.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
		})
	}
	return spec
}
