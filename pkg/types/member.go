// Member descriptors: the canonical representation of a named member with
// its visibility, mutability and virtual/abstract/override modifiers.
package types

import (
	"fmt"
	"strings"
)

// Visibility controls who may see a member. Lower values are more open, so
// an override may move a member to a lower value (widen) but never higher.
type Visibility int

// Visibility levels.
const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// Kind distinguishes methods from properties.
type Kind int

// Member kinds.
const (
	KindMethod Kind = iota
	KindProperty
)

func (k Kind) String() string {
	if k == KindProperty {
		return "property"
	}
	return "method"
}

// Modifier is a bit set of member modifiers.
type Modifier uint8

// Member modifiers. Virtual, Abstract and Override apply to methods only;
// Const applies to properties only.
const (
	Virtual Modifier = 1 << iota
	Abstract
	Override
	Const
)

// Has reports whether every bit in m2 is set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

func (m Modifier) String() string {
	var parts []string
	for _, kw := range []struct {
		bit  Modifier
		name string
	}{{Abstract, "abstract"}, {Override, "override"}, {Virtual, "virtual"}, {Const, "const"}} {
		if m.Has(kw.bit) {
			parts = append(parts, kw.name)
		}
	}
	return strings.Join(parts, " ")
}

// Reserved member names.
const (
	// MixinMethod is the configuration entry point of a parameter trait.
	MixinMethod = "__mixin"

	// ConstructorMethod is the class constructor.
	ConstructorMethod = "__construct"
)

// Method is the implementation of a method member. ctx is the execution
// context the method runs in; args are passed through unchanged.
type Method func(ctx Context, args ...any) (any, error)

// Member describes one named member of a trait, class or interface.
type Member struct {
	Name       string
	Kind       Kind
	Visibility Visibility
	Modifiers  Modifier

	// Arity is the number of parameters a method accepts. Overrides must
	// accept at least as many as the member they override.
	Arity int

	// Method is the implementation; nil for abstract methods.
	Method Method

	// Value is the initial value of a property.
	Value any
}

// IsMethod reports whether m is a method.
func (m Member) IsMethod() bool { return m.Kind == KindMethod }

// IsVirtual reports whether m may be overridden.
func (m Member) IsVirtual() bool { return m.Modifiers.Has(Virtual) }

// IsAbstract reports whether m is a declaration without implementation.
func (m Member) IsAbstract() bool { return m.Modifiers.Has(Abstract) }

// IsOverride reports whether m is declared as an override.
func (m Member) IsOverride() bool { return m.Modifiers.Has(Override) }

// IsConst reports whether m is an immutable property.
func (m Member) IsConst() bool { return m.Modifiers.Has(Const) }

// Declaration renders m in the keyword syntax accepted by ParseDeclaration.
func (m Member) Declaration() string {
	parts := []string{}
	if mods := m.Modifiers.String(); mods != "" {
		parts = append(parts, mods)
	}
	parts = append(parts, m.Visibility.String(), m.Name)
	return strings.Join(parts, " ")
}

// Validate checks modifier combinations. It returns a *DefinitionError on
// violation.
func (m Member) Validate() error {
	if m.Name == "" {
		return definitionError(m.Name, ErrInvalidName, "member name must not be empty")
	}
	if m.Visibility < Public || m.Visibility > Private {
		return definitionError(m.Name, ErrInvalidModifier, "unknown visibility")
	}
	if m.Arity < 0 {
		return definitionError(m.Name, ErrInvalidArity, "arity must not be negative")
	}
	if m.IsAbstract() && m.IsOverride() {
		return definitionError(m.Name, ErrInvalidModifier, "abstract members cannot override")
	}
	if m.Kind == KindProperty {
		if m.Modifiers&(Virtual|Abstract|Override) != 0 {
			return definitionError(m.Name, ErrInvalidModifier,
				fmt.Sprintf("%s is only legal on methods", (m.Modifiers &^ Const).String()))
		}
		return nil
	}
	if m.IsConst() {
		return definitionError(m.Name, ErrInvalidModifier, "const is only legal on properties")
	}
	if m.Visibility == Private && m.Modifiers&(Virtual|Abstract|Override) != 0 {
		return definitionError(m.Name, ErrInvalidModifier, "private methods cannot be virtual, abstract or override")
	}
	if m.IsAbstract() && m.Method != nil {
		return definitionError(m.Name, ErrInvalidModifier, "abstract methods have no implementation")
	}
	if !m.IsAbstract() && m.Method == nil {
		return definitionError(m.Name, ErrMissingImplementation, "concrete method has no implementation")
	}
	return nil
}

// Declaration is the parsed form of a member declaration string.
type Declaration struct {
	Name       string
	Visibility Visibility
	Modifiers  Modifier
}

var visibilityKeywords = map[string]Visibility{
	"public":    Public,
	"protected": Protected,
	"private":   Private,
}

var modifierKeywords = map[string]Modifier{
	"virtual":  Virtual,
	"abstract": Abstract,
	"override": Override,
	"const":    Const,
}

// ParseDeclaration parses a member declaration of the form
// "[keyword ...] name", e.g. "override virtual protected foo". Visibility
// defaults to public.
func ParseDeclaration(decl string) (Declaration, error) {
	fields := strings.Fields(decl)
	if len(fields) == 0 {
		return Declaration{}, definitionError("", ErrInvalidName, "empty declaration")
	}
	d := Declaration{Name: fields[len(fields)-1], Visibility: Public}
	if _, ok := visibilityKeywords[d.Name]; ok {
		return Declaration{}, definitionError(decl, ErrInvalidName, "declaration has no member name")
	}
	if _, ok := modifierKeywords[d.Name]; ok {
		return Declaration{}, definitionError(decl, ErrInvalidName, "declaration has no member name")
	}

	seenVisibility := false
	for _, kw := range fields[:len(fields)-1] {
		if v, ok := visibilityKeywords[kw]; ok {
			if seenVisibility {
				return Declaration{}, definitionError(d.Name, ErrInvalidModifier, "multiple visibility keywords")
			}
			seenVisibility = true
			d.Visibility = v
			continue
		}
		mod, ok := modifierKeywords[kw]
		if !ok {
			return Declaration{}, definitionError(d.Name, ErrInvalidModifier, fmt.Sprintf("unknown keyword %q", kw))
		}
		if d.Modifiers.Has(mod) {
			return Declaration{}, definitionError(d.Name, ErrInvalidModifier, fmt.Sprintf("duplicate keyword %q", kw))
		}
		d.Modifiers |= mod
	}
	return d, nil
}

// NewMethod builds and validates a method member from a declaration.
// fn must be nil for abstract declarations.
func NewMethod(decl string, arity int, fn Method) (Member, error) {
	d, err := ParseDeclaration(decl)
	if err != nil {
		return Member{}, err
	}
	m := Member{
		Name:       d.Name,
		Kind:       KindMethod,
		Visibility: d.Visibility,
		Modifiers:  d.Modifiers,
		Arity:      arity,
		Method:     fn,
	}
	if err := m.Validate(); err != nil {
		return Member{}, err
	}
	return m, nil
}

// NewProperty builds and validates a property member from a declaration.
func NewProperty(decl string, value any) (Member, error) {
	d, err := ParseDeclaration(decl)
	if err != nil {
		return Member{}, err
	}
	m := Member{
		Name:       d.Name,
		Kind:       KindProperty,
		Visibility: d.Visibility,
		Modifiers:  d.Modifiers,
		Value:      value,
	}
	if err := m.Validate(); err != nil {
		return Member{}, err
	}
	return m, nil
}

// Must panics if err is non-nil. It is meant for package-level member
// tables built from literal declarations.
func Must(m Member, err error) Member {
	if err != nil {
		panic(err)
	}
	return m
}
