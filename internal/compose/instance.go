package compose

import (
	"fmt"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Instance is an object of a composed class. It holds the public and
// protected property values and one private record per scope along the
// class chain. Instances are not safe for concurrent use.
type Instance struct {
	class *Class
	props map[string]any
	arena map[*scope]map[string]any
}

var _ types.Object = (*Instance)(nil)

func newInstance(c *Class) *Instance {
	inst := &Instance{
		class: c,
		props: make(map[string]any),
		arena: make(map[*scope]map[string]any),
	}
	for k := c; k != nil; k = k.parent {
		inst.arena[k.scope] = k.scope.newRecord()
		for _, mx := range k.mixins {
			inst.arena[mx.scope] = mx.scope.newRecord()
		}
	}
	for _, name := range c.table.names {
		if s := c.slots[name]; s.member.Kind == types.KindProperty {
			inst.props[name] = s.member.Value
		}
	}
	return inst
}

// Class returns the class inst was created from.
func (inst *Instance) Class() *Class { return inst.class }

// InstanceOf reports whether inst's class is c or descends from it.
func (inst *Instance) InstanceOf(c *Class) bool { return inst.class.IsSubclassOf(c) }

// Call invokes a public method.
func (inst *Instance) Call(name string, args ...any) (any, error) {
	return inst.call(name, args, true)
}

// Get returns the value of a public property.
func (inst *Instance) Get(name string) (any, error) {
	return inst.get(name, true)
}

// Set assigns a public, mutable property.
func (inst *Instance) Set(name string, value any) error {
	return inst.set(name, value, true)
}

// lookup finds the slot for name, enforcing public visibility for callers
// outside the instance.
func (inst *Instance) lookup(name string, external bool) (*slot, error) {
	s, ok := inst.class.slots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownMember, name)
	}
	if external && s.member.Visibility != types.Public {
		return nil, fmt.Errorf("%w: %s %q", types.ErrNotAccessible, s.member.Visibility, name)
	}
	return s, nil
}

func (inst *Instance) call(name string, args []any, external bool) (any, error) {
	s, err := inst.lookup(name, external)
	if err != nil {
		return nil, err
	}
	if !s.member.IsMethod() {
		return nil, fmt.Errorf("%w: %q", types.ErrNotMethod, name)
	}
	chain := s.dispatch(inst.class)
	if len(chain) == 0 {
		return nil, types.NewCompositionError(name, types.ErrAbstractInstance, "method has no implementation", s.origin)
	}
	return inst.invoke(chain, 0, args)
}

func (inst *Instance) get(name string, external bool) (any, error) {
	s, err := inst.lookup(name, external)
	if err != nil {
		return nil, err
	}
	if s.member.Kind != types.KindProperty {
		return nil, fmt.Errorf("%w: %q", types.ErrNotProperty, name)
	}
	return inst.props[name], nil
}

func (inst *Instance) set(name string, value any, external bool) error {
	s, err := inst.lookup(name, external)
	if err != nil {
		return err
	}
	if s.member.Kind != types.KindProperty {
		return fmt.Errorf("%w: %q", types.ErrNotProperty, name)
	}
	if s.member.IsConst() {
		return fmt.Errorf("%w: %q", types.ErrImmutable, name)
	}
	inst.props[name] = value
	return nil
}

// invoke runs chain[pos] in its own scope. A method returning its own
// context yields the instance instead.
func (inst *Instance) invoke(chain []impl, pos int, args []any) (any, error) {
	ctx := &execContext{inst: inst, scope: chain[pos].scope, chain: chain, pos: pos}
	ret, err := chain[pos].member.Method(ctx, args...)
	if err != nil {
		return nil, err
	}
	return inst.outward(ret), nil
}

func (inst *Instance) outward(v any) any {
	if x, ok := v.(*execContext); ok && x.inst == inst {
		return inst
	}
	return v
}
