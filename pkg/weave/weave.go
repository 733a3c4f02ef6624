// Package weave is the public API of the trait composition engine. It
// re-exports the engine types and constructors while keeping the
// implementation internal.
//
// Example:
//
//	counter, _ := weave.DefineTrait("Counter",
//	    types.Must(types.NewProperty("private _n", 0)),
//	    types.Must(types.NewMethod("virtual inc", 0, inc)),
//	)
//	class, _ := weave.Compose(weave.ClassDef{Name: "Clicker", Traits: []any{counter}})
//	obj, _ := class.New()
//	obj.Call("inc")
package weave

import (
	"github.com/mesh-intelligence/weave/internal/compose"
	"github.com/mesh-intelligence/weave/pkg/types"
)

// Version is the engine version manifests are checked against.
const Version = "0.1.0"

// Engine types.
type (
	Trait         = compose.Trait
	ArgumentTrait = compose.ArgumentTrait
	Mixin         = compose.Mixin
	Class         = compose.Class
	ClassDef      = compose.ClassDef
	Instance      = compose.Instance
	Interface     = compose.Interface
	Table         = compose.Table
	Entry         = compose.Entry
	Option        = compose.Option
)

// DefineTrait validates members and returns a trait.
func DefineTrait(name string, members ...types.Member) (*Trait, error) {
	return compose.DefineTrait(name, members...)
}

// DefineInterface validates members and returns an interface.
func DefineInterface(name string, members ...types.Member) (*Interface, error) {
	return compose.DefineInterface(name, members...)
}

// Compose linearizes def into a class.
func Compose(def ClassDef, opts ...Option) (*Class, error) {
	return compose.Compose(def, opts...)
}

// Linearize resolves traits, then members, into a member table.
func Linearize(members []types.Member, traits ...any) (*Table, error) {
	return compose.Linearize(members, traits...)
}

// WithLogger sets the logger composition and activation report to.
var WithLogger = compose.WithLogger

// IsTrait reports whether v is a trait, configured or not.
func IsTrait(v any) bool { return compose.IsTrait(v) }

// IsParameterTrait reports whether v is an unconfigured parameter trait.
func IsParameterTrait(v any) bool { return compose.IsParameterTrait(v) }

// IsArgumentTrait reports whether v is a configured parameter trait.
func IsArgumentTrait(v any) bool { return compose.IsArgumentTrait(v) }

// IsInterface reports whether v is an interface.
func IsInterface(v any) bool { return compose.IsInterface(v) }

// IsClass reports whether v is a composed class.
func IsClass(v any) bool { return compose.IsClass(v) }
