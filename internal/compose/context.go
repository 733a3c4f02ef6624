package compose

import (
	"fmt"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// execContext is the context a method body runs in: one instance seen from
// one scope. The scope's private members resolve first and are visible only
// here; every other name resolves on the instance, protected included.
type execContext struct {
	inst  *Instance
	scope *scope
	chain []impl
	pos   int
}

var _ types.Context = (*execContext)(nil)

func (x *execContext) Self() types.Object { return x.inst }

func (x *execContext) Call(name string, args ...any) (any, error) {
	if m, ok := x.scope.methods[name]; ok {
		return x.inst.invoke([]impl{{member: m, scope: x.scope}}, 0, args)
	}
	if _, ok := x.scope.props[name]; ok {
		return nil, fmt.Errorf("%w: %q", types.ErrNotMethod, name)
	}
	return x.inst.call(name, args, false)
}

func (x *execContext) Get(name string) (any, error) {
	if _, ok := x.scope.props[name]; ok {
		return x.inst.arena[x.scope][name], nil
	}
	if _, ok := x.scope.methods[name]; ok {
		return nil, fmt.Errorf("%w: %q", types.ErrNotProperty, name)
	}
	return x.inst.get(name, false)
}

func (x *execContext) Set(name string, value any) error {
	if p, ok := x.scope.props[name]; ok {
		if p.IsConst() {
			return fmt.Errorf("%w: %q", types.ErrImmutable, name)
		}
		x.inst.arena[x.scope][name] = value
		return nil
	}
	if _, ok := x.scope.methods[name]; ok {
		return fmt.Errorf("%w: %q", types.ErrNotProperty, name)
	}
	return x.inst.set(name, value, false)
}

func (x *execContext) Super(args ...any) (any, error) {
	if x.pos+1 >= len(x.chain) {
		return nil, fmt.Errorf("%w: %q", types.ErrNoSuper, x.chain[x.pos].member.Name)
	}
	return x.inst.invoke(x.chain, x.pos+1, args)
}
