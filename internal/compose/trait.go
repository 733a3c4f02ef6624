package compose

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Mixin is a value that can be listed among a class's traits: a *Trait or
// an *ArgumentTrait. The interface is sealed.
type Mixin interface {
	base() *Trait
	configuration() (args []any, configured bool)
}

// Trait is a named, reusable bundle of members mixed into classes. A trait
// declaring the __mixin entry point is a parameter trait and must be
// configured with Invoke before it can be mixed.
type Trait struct {
	origin    types.Origin
	members   []types.Member // Declaration order, entry point excluded.
	entry     *types.Member
	createdAt time.Time
}

// DefineTrait validates members and returns a trait. Traits may declare
// methods of any visibility but only private properties; the __mixin entry
// point, when present, must be a concrete method.
func DefineTrait(name string, members ...types.Member) (*Trait, error) {
	if name == "" {
		return nil, types.NewDefinitionError(name, types.ErrInvalidName, "trait name must not be empty")
	}
	t := &Trait{
		origin:    types.Origin{ID: newID(), Name: name, Kind: types.OriginTrait},
		createdAt: time.Now().UTC(),
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if seen[m.Name] {
			return nil, types.NewDefinitionError(m.Name, types.ErrDuplicateMember, fmt.Sprintf("declared twice in trait %s", name))
		}
		seen[m.Name] = true

		switch {
		case m.Name == types.ConstructorMethod:
			return nil, types.NewDefinitionError(m.Name, types.ErrInvalidName, "traits cannot declare constructors")
		case m.Name == types.MixinMethod:
			if !m.IsMethod() || m.IsAbstract() {
				return nil, types.NewDefinitionError(m.Name, types.ErrDisallowedKind, "configuration entry point must be a concrete method")
			}
			entry := m
			t.entry = &entry
			continue
		case m.Kind == types.KindProperty && m.Visibility != types.Private:
			return nil, types.NewDefinitionError(m.Name, types.ErrDisallowedKind, "traits may only declare private properties")
		}
		t.members = append(t.members, m)
	}
	return t, nil
}

// Name returns the trait name.
func (t *Trait) Name() string { return t.origin.Name }

// ID returns the trait's UUID.
func (t *Trait) ID() string { return t.origin.ID }

// Origin returns the provenance tag members of this trait carry.
func (t *Trait) Origin() types.Origin { return t.origin }

// Members returns the trait's members in declaration order, including the
// configuration entry point.
func (t *Trait) Members() []types.Member {
	out := make([]types.Member, 0, len(t.members)+1)
	if t.entry != nil {
		out = append(out, *t.entry)
	}
	return append(out, t.members...)
}

// Parameterized reports whether t declares a configuration entry point.
func (t *Trait) Parameterized() bool { return t.entry != nil }

// Invoke configures a parameter trait. args are stored as-is and handed to
// __mixin once per instance of every class the result is mixed into.
// Invoking a trait without an entry point is an error.
func (t *Trait) Invoke(args ...any) (*ArgumentTrait, error) {
	if t.entry == nil {
		return nil, types.NewCompositionError(t.origin.Name, types.ErrNotParameterTrait,
			"only parameter traits can be configured", t.origin)
	}
	return &ArgumentTrait{trait: t, args: args}, nil
}

func (t *Trait) base() *Trait { return t }
func (t *Trait) configuration() ([]any, bool) { return nil, false }

// private returns the trait's private members.
func (t *Trait) private() []types.Member {
	var out []types.Member
	for _, m := range t.members {
		if m.Visibility == types.Private {
			out = append(out, m)
		}
	}
	return out
}

// ArgumentTrait is a parameter trait paired with its configuration
// arguments. It mixes like its trait and cannot be configured again.
type ArgumentTrait struct {
	trait *Trait
	args  []any
}

// Trait returns the parameter trait a was configured from.
func (a *ArgumentTrait) Trait() *Trait { return a.trait }

// Args returns the configuration arguments. The slice is shared, not copied.
func (a *ArgumentTrait) Args() []any { return a.args }

// Invoke always fails: argument traits are configured exactly once.
func (a *ArgumentTrait) Invoke(args ...any) (*ArgumentTrait, error) {
	return nil, types.NewCompositionError(a.trait.origin.Name, types.ErrReconfigure, "", a.trait.origin)
}

func (a *ArgumentTrait) base() *Trait { return a.trait }
func (a *ArgumentTrait) configuration() ([]any, bool) { return a.args, true }

// IsTrait reports whether v is a trait of any kind, configured or not.
func IsTrait(v any) bool {
	switch t := v.(type) {
	case *Trait:
		return t != nil
	case *ArgumentTrait:
		return t != nil && t.trait != nil
	}
	return false
}

// IsParameterTrait reports whether v is a trait that declares a
// configuration entry point and has not been configured.
func IsParameterTrait(v any) bool {
	t, ok := v.(*Trait)
	return ok && t != nil && t.entry != nil
}

// IsArgumentTrait reports whether v is a configured parameter trait.
func IsArgumentTrait(v any) bool {
	a, ok := v.(*ArgumentTrait)
	return ok && a != nil && a.trait != nil
}

// mixin is one application of a trait to a class. Its scope holds the
// trait's private members for that application.
type mixin struct {
	trait      *Trait
	args       []any
	configured bool
	scope      *scope
}
