package types

import "fmt"

// OriginKind tells whether a member came from a trait or a class.
type OriginKind string

// Origin kinds.
const (
	OriginTrait     OriginKind = "trait"
	OriginClass     OriginKind = "class"
	OriginInterface OriginKind = "interface"
)

// Origin identifies where a member was defined. It records provenance for
// diagnostics and private-context routing; it never owns the definition.
type Origin struct {
	ID   string     // UUID v7 assigned when the trait or class was defined.
	Name string     // Human-readable name of the trait or class.
	Kind OriginKind // trait or class.
}

func (o Origin) String() string {
	return fmt.Sprintf("%s %s", o.Kind, o.Name)
}

// Object is the outward face of a composed instance. Only public members
// are reachable through it.
type Object interface {
	// Call invokes a public method.
	Call(name string, args ...any) (any, error)

	// Get returns the value of a public property.
	Get(name string) (any, error)

	// Set assigns a public, mutable property.
	Set(name string, value any) error
}

// Context is the execution context a method runs in. It is bound to one
// instance and one origin (a trait or class level): the origin's private
// members resolve first, then the instance's public and protected members.
type Context interface {
	Object

	// Self returns the outer instance. Code should hand this out rather
	// than the context itself.
	Self() Object

	// Super invokes the implementation this method overrides. It returns
	// ErrNoSuper when there is none.
	Super(args ...any) (any, error)
}

// ClassState is the lifecycle tag of a composed class.
type ClassState string

// Class lifecycle states. A class is Composed once linearized; the first
// instantiation runs the deferred checks and moves it to Activated, or to
// Failed with the error cached.
const (
	StateComposed  ClassState = "composed"
	StateActivated ClassState = "activated"
	StateFailed    ClassState = "failed"
)
