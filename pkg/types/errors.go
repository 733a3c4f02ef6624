package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error raised while defining or composing is
// either a *DefinitionError or a *CompositionError; errors.Is matches the
// category and the specific cause.
var (
	ErrDefinition  = errors.New("definition error")
	ErrComposition = errors.New("composition error")
)

// Definition causes.
var (
	ErrInvalidName           = errors.New("invalid member name")
	ErrInvalidModifier       = errors.New("illegal modifier combination")
	ErrInvalidArity          = errors.New("invalid arity")
	ErrMissingImplementation = errors.New("missing implementation")
	ErrDuplicateMember       = errors.New("duplicate member")
	ErrDisallowedKind        = errors.New("member kind not allowed")
)

// Composition causes.
var (
	ErrConflict               = errors.New("conflicting members")
	ErrNotTrait               = errors.New("value is not a trait")
	ErrUnconfiguredTrait      = errors.New("parameter trait must be configured before mixing")
	ErrNotParameterTrait      = errors.New("trait has no configuration entry point")
	ErrReconfigure            = errors.New("argument trait cannot be reconfigured")
	ErrArity                  = errors.New("override accepts too few arguments")
	ErrVisibility             = errors.New("override cannot reduce visibility")
	ErrNothingToOverride      = errors.New("override has nothing to override")
	ErrNotVirtual             = errors.New("member is not virtual")
	ErrAbstractInstance       = errors.New("class has abstract members")
	ErrMissingInterfaceMethod = errors.New("interface method not implemented")
	ErrNotInterface           = errors.New("value is not an interface")
	ErrParentNotClass         = errors.New("parent is not a class")
)

// Runtime access errors raised by instances and execution contexts.
var (
	ErrUnknownMember = errors.New("unknown member")
	ErrNotAccessible = errors.New("member is not accessible")
	ErrImmutable     = errors.New("member is immutable")
	ErrNoSuper       = errors.New("no super method")
	ErrNotMethod     = errors.New("member is not a method")
	ErrNotProperty   = errors.New("member is not a property")
)

// DefinitionError reports an illegal member definition.
type DefinitionError struct {
	Member string
	Cause  error
	Detail string
}

func definitionError(member string, cause error, detail string) *DefinitionError {
	return &DefinitionError{Member: member, Cause: cause, Detail: detail}
}

// NewDefinitionError builds a *DefinitionError for member with the given
// cause sentinel.
func NewDefinitionError(member string, cause error, detail string) *DefinitionError {
	return definitionError(member, cause, detail)
}

func (e *DefinitionError) Error() string {
	var b strings.Builder
	b.WriteString("definition error")
	if e.Member != "" {
		fmt.Fprintf(&b, " in %q", e.Member)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the specific cause.
func (e *DefinitionError) Unwrap() error { return e.Cause }

// Is matches ErrDefinition.
func (e *DefinitionError) Is(target error) bool { return target == ErrDefinition }

// CompositionError reports a failure to compose traits into a class, to
// configure a trait, or to activate a composed class.
type CompositionError struct {
	Member  string
	Origins []Origin
	Cause   error
	Detail  string
}

// NewCompositionError builds a *CompositionError citing the given origins.
func NewCompositionError(member string, cause error, detail string, origins ...Origin) *CompositionError {
	return &CompositionError{Member: member, Origins: origins, Cause: cause, Detail: detail}
}

func (e *CompositionError) Error() string {
	var b strings.Builder
	b.WriteString("composition error")
	if e.Member != "" {
		fmt.Fprintf(&b, " in %q", e.Member)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if len(e.Origins) > 0 {
		names := make([]string, len(e.Origins))
		for i, o := range e.Origins {
			names[i] = o.String()
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("]")
	}
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the specific cause.
func (e *CompositionError) Unwrap() error { return e.Cause }

// Is matches ErrComposition.
func (e *CompositionError) Is(target error) bool { return target == ErrComposition }
