package compose

import (
	"fmt"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// arityCheck is an override arity comparison postponed to activation.
// Overrides of trait-provided virtual members are checked lazily because
// the trait's final shape is only known once composition is complete.
type arityCheck struct {
	name       string
	got        int
	want       int
	overrider  types.Origin
	overridden types.Origin
}

// composer accumulates the member table of one class. Layers are applied
// in order: inherited slots, each trait, then the class's own members.
type composer struct {
	class    *Class
	names    []string
	slots    map[string]*slot
	deferred []arityCheck
}

func newComposer(c *Class) *composer {
	cp := &composer{class: c, slots: make(map[string]*slot)}
	if p := c.parent; p != nil {
		cp.names = append(cp.names, p.table.names...)
		for name, s := range p.slots {
			cp.slots[name] = s
		}
	}
	return cp
}

func (cp *composer) put(name string, s *slot) {
	if _, ok := cp.slots[name]; !ok {
		cp.names = append(cp.names, name)
	}
	cp.slots[name] = s
}

// mix applies one trait or argument trait.
func (cp *composer) mix(v any) error {
	if !IsTrait(v) {
		return types.NewCompositionError("", types.ErrNotTrait, fmt.Sprintf("got %T", v), cp.class.origin)
	}
	mx := v.(Mixin)
	t := mx.base()
	args, configured := mx.configuration()
	if t.entry != nil && !configured {
		return types.NewCompositionError(t.origin.Name, types.ErrUnconfiguredTrait,
			"invoke the trait with its arguments first", t.origin)
	}

	app := &mixin{trait: t, args: args, configured: configured, scope: newScope(t.origin, t.private())}
	for _, m := range t.members {
		if m.Visibility == types.Private {
			continue
		}
		if err := cp.merge(impl{member: m, scope: app.scope}); err != nil {
			return err
		}
	}
	cp.class.mixins = append(cp.class.mixins, app)
	return nil
}

// declare applies the class's own members. Private members go to the class
// scope and may not shadow any resolved name.
func (cp *composer) declare(members []types.Member) error {
	c := cp.class
	seen := make(map[string]bool, len(members))
	var private, shared []types.Member
	var ctor *types.Member
	for _, m := range members {
		if err := m.Validate(); err != nil {
			return err
		}
		if seen[m.Name] {
			return types.NewDefinitionError(m.Name, types.ErrDuplicateMember, fmt.Sprintf("declared twice in class %s", c.origin.Name))
		}
		seen[m.Name] = true

		switch m.Name {
		case types.MixinMethod:
			return types.NewDefinitionError(m.Name, types.ErrInvalidName, "only traits declare a configuration entry point")
		case types.ConstructorMethod:
			if !m.IsMethod() || m.IsAbstract() {
				return types.NewDefinitionError(m.Name, types.ErrDisallowedKind, "constructor must be a concrete method")
			}
			ctor = &m
			continue
		}
		if m.Visibility == types.Private {
			private = append(private, m)
		} else {
			shared = append(shared, m)
		}
	}

	c.scope = newScope(c.origin, private)
	for _, m := range private {
		if prev, ok := cp.slots[m.Name]; ok {
			return types.NewCompositionError(m.Name, types.ErrConflict,
				"private member shadows an inherited or trait member", c.origin, prev.origin)
		}
	}

	if c.parent != nil {
		c.ctor = c.parent.ctor
	}
	if ctor != nil {
		c.ctor = append([]impl{{member: *ctor, scope: c.scope}}, c.ctor...)
	}

	for _, m := range shared {
		if err := cp.merge(impl{member: m, scope: c.scope}); err != nil {
			return err
		}
	}
	return nil
}

// merge places one public or protected member onto the table.
func (cp *composer) merge(in impl) error {
	m := in.member
	origin := in.scope.origin
	prev, exists := cp.slots[m.Name]
	if !exists {
		if m.IsOverride() {
			return types.NewCompositionError(m.Name, types.ErrNothingToOverride, "", origin)
		}
		cp.put(m.Name, cp.fresh(in))
		return nil
	}
	if m.Kind == types.KindProperty || prev.member.Kind == types.KindProperty {
		return types.NewCompositionError(m.Name, types.ErrConflict, "properties cannot be redeclared", origin, prev.origin)
	}

	switch {
	case m.IsAbstract():
		return cp.require(prev, in)
	case prev.member.IsAbstract():
		return cp.implement(prev, in)
	case prev.member.IsVirtual():
		return cp.override(prev, in)
	case m.IsOverride():
		return types.NewCompositionError(m.Name, types.ErrNotVirtual, "", origin, prev.origin)
	default:
		return types.NewCompositionError(m.Name, types.ErrConflict, "neither member is virtual", origin, prev.origin)
	}
}

// fresh builds the slot for a name nothing has claimed yet.
func (cp *composer) fresh(in impl) *slot {
	m := in.member
	s := &slot{member: m, origin: in.scope.origin}
	if m.Kind == types.KindProperty || m.IsAbstract() {
		return s
	}
	chain := []impl{in}
	if in.scope.origin.Kind == types.OriginTrait && m.IsVirtual() {
		s.proxy = &proxy{name: m.Name, home: cp.class, base: chain, arity: m.Arity}
	} else {
		s.chain = chain
	}
	return s
}

// require handles an abstract declaration over an existing member. Two
// abstract declarations merge; a concrete member satisfies the requirement
// when it is visible enough and accepts enough arguments.
func (cp *composer) require(prev *slot, in impl) error {
	m := in.member
	if prev.member.IsAbstract() {
		merged := *prev
		if m.Arity > merged.member.Arity {
			merged.member.Arity = m.Arity
		}
		if m.Visibility < merged.member.Visibility {
			merged.member.Visibility = m.Visibility
		}
		cp.put(m.Name, &merged)
		return nil
	}
	if prev.member.Visibility > m.Visibility {
		return types.NewCompositionError(m.Name, types.ErrVisibility,
			fmt.Sprintf("required %s, provided %s", m.Visibility, prev.member.Visibility), in.scope.origin, prev.origin)
	}
	if prev.arity() < m.Arity {
		return types.NewCompositionError(m.Name, types.ErrArity,
			fmt.Sprintf("required %d, provided %d", m.Arity, prev.arity()), in.scope.origin, prev.origin)
	}
	return nil
}

// implement handles a concrete member over an abstract one.
func (cp *composer) implement(prev *slot, in impl) error {
	m := in.member
	origin := in.scope.origin
	if origin.Kind == types.OriginTrait && prev.origin.Kind == types.OriginTrait && !m.IsOverride() {
		return types.NewCompositionError(m.Name, types.ErrConflict,
			"implementing another trait's abstract member requires override", origin, prev.origin)
	}
	if err := checkVisibility(prev, in); err != nil {
		return err
	}
	if m.Arity < prev.member.Arity {
		return arityError(m.Name, m.Arity, prev.member.Arity, origin, prev.origin)
	}
	s := cp.fresh(in)
	s.overrides = append([]types.Origin{prev.origin}, prev.overrides...)
	cp.put(m.Name, s)
	return nil
}

// override handles a concrete member over a concrete virtual one.
func (cp *composer) override(prev *slot, in impl) error {
	m := in.member
	origin := in.scope.origin
	if !m.IsOverride() {
		return types.NewCompositionError(m.Name, types.ErrConflict,
			"replacing a virtual member requires override", origin, prev.origin)
	}
	if err := checkVisibility(prev, in); err != nil {
		return err
	}

	proxied := prev.proxy != nil
	if proxied {
		cp.deferred = append(cp.deferred, arityCheck{
			name:       m.Name,
			got:        m.Arity,
			want:       prev.arity(),
			overrider:  origin,
			overridden: prev.origin,
		})
	} else if m.Arity < prev.member.Arity {
		return arityError(m.Name, m.Arity, prev.member.Arity, origin, prev.origin)
	}

	s := &slot{
		member:    m,
		origin:    origin,
		overrides: append([]types.Origin{prev.origin}, prev.overrides...),
	}
	switch {
	case origin.Kind == types.OriginTrait:
		chain := append([]impl{in}, prev.dispatch(cp.class)...)
		if m.IsVirtual() {
			s.proxy = &proxy{name: m.Name, home: cp.class, base: chain, arity: m.Arity}
		} else {
			s.chain = chain
		}
	case proxied:
		cp.class.overrides[m.Name] = in
		s.proxy = prev.proxy.withArity(m.Arity)
	default:
		s.chain = append([]impl{in}, prev.chain...)
	}
	cp.put(m.Name, s)
	return nil
}

func (cp *composer) finish() {
	c := cp.class
	c.slots = cp.slots
	c.table = newTable(cp.names, cp.slots)
	c.deferred = cp.deferred
}

func checkVisibility(prev *slot, in impl) error {
	if in.member.Visibility > prev.member.Visibility {
		return types.NewCompositionError(in.member.Name, types.ErrVisibility,
			fmt.Sprintf("%s cannot replace %s", in.member.Visibility, prev.member.Visibility),
			in.scope.origin, prev.origin)
	}
	return nil
}

func arityError(name string, got, want int, origins ...types.Origin) error {
	return types.NewCompositionError(name, types.ErrArity,
		fmt.Sprintf("accepts %d, overridden member accepts %d", got, want), origins...)
}

// Linearize resolves traits, then members, into a member table without
// keeping the composed class around.
func Linearize(members []types.Member, traits ...any) (*Table, error) {
	c, err := Compose(ClassDef{Traits: traits, Members: members})
	if err != nil {
		return nil, err
	}
	return c.Table(), nil
}
