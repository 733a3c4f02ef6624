package compose

import (
	"fmt"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Interface is a named set of public method requirements a class promises
// to satisfy. Its methods are public and abstract.
type Interface struct {
	origin  types.Origin
	parent  *Interface
	names   []string
	methods map[string]types.Member
}

// DefineInterface validates members and returns an interface. Only public
// methods are allowed; any implementation given is discarded.
func DefineInterface(name string, members ...types.Member) (*Interface, error) {
	return defineInterface(name, nil, members)
}

// Extend returns a sub-interface of i with additional requirements.
func (i *Interface) Extend(name string, members ...types.Member) (*Interface, error) {
	return defineInterface(name, i, members)
}

func defineInterface(name string, parent *Interface, members []types.Member) (*Interface, error) {
	if name == "" {
		return nil, types.NewDefinitionError(name, types.ErrInvalidName, "interface name must not be empty")
	}
	i := &Interface{
		origin:  types.Origin{ID: newID(), Name: name, Kind: types.OriginInterface},
		parent:  parent,
		methods: make(map[string]types.Member),
	}
	if parent != nil {
		i.names = append(i.names, parent.names...)
		for n, m := range parent.methods {
			i.methods[n] = m
		}
	}

	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if seen[m.Name] {
			return nil, types.NewDefinitionError(m.Name, types.ErrDuplicateMember, fmt.Sprintf("declared twice in interface %s", name))
		}
		seen[m.Name] = true
		if m.Kind != types.KindMethod {
			return nil, types.NewDefinitionError(m.Name, types.ErrDisallowedKind, "interfaces may only declare methods")
		}
		if m.Visibility != types.Public {
			return nil, types.NewDefinitionError(m.Name, types.ErrInvalidModifier, "interface methods are public")
		}

		req := types.Member{
			Name:       m.Name,
			Kind:       types.KindMethod,
			Visibility: types.Public,
			Modifiers:  types.Abstract,
			Arity:      m.Arity,
		}
		if prev, ok := i.methods[m.Name]; ok {
			if prev.Arity > req.Arity {
				req.Arity = prev.Arity
			}
		} else {
			i.names = append(i.names, m.Name)
		}
		i.methods[m.Name] = req
	}
	return i, nil
}

// Name returns the interface name.
func (i *Interface) Name() string { return i.origin.Name }

// Origin returns the interface's provenance tag.
func (i *Interface) Origin() types.Origin { return i.origin }

// Methods returns the required methods in declaration order.
func (i *Interface) Methods() []types.Member {
	out := make([]types.Member, 0, len(i.names))
	for _, n := range i.names {
		out = append(out, i.methods[n])
	}
	return out
}

// IsSubtypeOf reports whether i is j or extends it.
func (i *Interface) IsSubtypeOf(j *Interface) bool {
	for k := i; k != nil; k = k.parent {
		if k == j {
			return true
		}
	}
	return false
}

// IsInterface reports whether v is an interface.
func IsInterface(v any) bool {
	i, ok := v.(*Interface)
	return ok && i != nil
}

// implement checks that c satisfies every interface it declares. Every
// required method must be present; an abstract class may declare it
// abstract, but may not omit it.
func (c *Class) implement(ifaces []*Interface) error {
	for _, i := range ifaces {
		if i == nil {
			return types.NewCompositionError("", types.ErrNotInterface, "nil interface", c.origin)
		}
		for _, req := range i.Methods() {
			s, ok := c.slots[req.Name]
			if !ok || !s.member.IsMethod() {
				return types.NewCompositionError(req.Name, types.ErrMissingInterfaceMethod,
					fmt.Sprintf("required by %s", i.origin), c.origin, i.origin)
			}
			if s.member.Visibility != types.Public {
				return types.NewCompositionError(req.Name, types.ErrVisibility,
					fmt.Sprintf("%s requires public, got %s", i.origin, s.member.Visibility), s.origin, i.origin)
			}
			if s.arity() < req.Arity {
				return arityError(req.Name, s.arity(), req.Arity, s.origin, i.origin)
			}
		}
		c.ifaces = append(c.ifaces, i)
	}
	return nil
}

// Implements reports whether c or an ancestor declares i or a
// sub-interface of it.
func (c *Class) Implements(i *Interface) bool {
	for k := c; k != nil; k = k.parent {
		for _, own := range k.ifaces {
			if own.IsSubtypeOf(i) {
				return true
			}
		}
	}
	return false
}
