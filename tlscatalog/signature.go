package tlscatalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zoobzio/tlsfuzz/term"
)

var (
	sigOnce sync.Once
	sig     *term.Signature
	sigErr  error
)

// Signature returns the process-wide catalog of every function symbol this
// package registers, built once on first call and exposed as an immutable
// singleton.
func Signature() (*term.Signature, error) {
	sigOnce.Do(func() {
		registerTypes()

		names := make([]string, 0, len(functionSymbols()))
		symbols := functionSymbols()
		for name := range symbols {
			names = append(names, name)
		}
		sort.Strings(names)

		defs := make([]term.FunctionDefinition, 0, len(names))
		for _, name := range names {
			def, err := term.MakeDynamic(name, symbols[name])
			if err != nil {
				sigErr = fmt.Errorf("tlscatalog: building %s: %w", name, err)
				return
			}
			defs = append(defs, def)
		}

		sig, sigErr = term.NewSignature(defs...)
	})
	return sig, sigErr
}

// MustSignature panics if the catalog fails to build - suitable for package
// init in a binary that has no graceful fallback if its own symbol catalog
// is malformed.
func MustSignature() *term.Signature {
	s, err := Signature()
	if err != nil {
		panic(err)
	}
	return s
}
