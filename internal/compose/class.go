package compose

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mesh-intelligence/weave/pkg/types"
)

// anonymousClass names classes composed without a name.
const anonymousClass = "(anonymous)"

// ClassDef describes a class to compose. Traits are applied in order before
// Members; each entry must be a *Trait or an *ArgumentTrait.
type ClassDef struct {
	Name       string
	Parent     *Class
	Traits     []any
	Members    []types.Member
	Implements []*Interface
}

// Class is a composed class. Its member table is fixed at composition; the
// deferred checks run once, on first instantiation.
type Class struct {
	origin    types.Origin
	parent    *Class
	scope     *scope
	mixins    []*mixin
	overrides map[string]impl // Class-level overrides of trait-provided virtuals.
	ctor      []impl
	slots     map[string]*slot
	table     *Table
	ifaces    []*Interface
	deferred  []arityCheck
	logger    *log.Logger
	createdAt time.Time

	once  sync.Once
	mu    sync.RWMutex
	state types.ClassState
	err   error
}

// Compose linearizes def into a class. Composition is atomic: on error no
// class is returned.
func Compose(def ClassDef, opts ...Option) (*Class, error) {
	o := buildOptions(def.Parent, opts)
	name := def.Name
	if name == "" {
		name = anonymousClass
	}
	c := &Class{
		origin:    types.Origin{ID: newID(), Name: name, Kind: types.OriginClass},
		parent:    def.Parent,
		overrides: make(map[string]impl),
		logger:    o.logger,
		createdAt: time.Now().UTC(),
		state:     types.StateComposed,
	}

	cp := newComposer(c)
	for _, t := range def.Traits {
		if err := cp.mix(t); err != nil {
			return nil, err
		}
	}
	if err := cp.declare(def.Members); err != nil {
		return nil, err
	}
	cp.finish()

	if err := c.implement(def.Implements); err != nil {
		return nil, err
	}

	c.logger.Debug("composed class",
		"class", name,
		"members", c.table.Len(),
		"traits", len(c.mixins),
		"deferred", len(c.deferred),
	)
	return c, nil
}

// Extend composes a subclass of c with the given members.
func (c *Class) Extend(name string, members ...types.Member) (*Class, error) {
	return Compose(ClassDef{Name: name, Parent: c, Members: members})
}

// Use composes a subclass of c that mixes in traits. The subclass keeps
// c's name.
func (c *Class) Use(traits ...any) (*Class, error) {
	return Compose(ClassDef{Name: c.origin.Name, Parent: c, Traits: traits})
}

// Name returns the class name.
func (c *Class) Name() string { return c.origin.Name }

// ID returns the class's UUID.
func (c *Class) ID() string { return c.origin.ID }

// Origin returns the provenance tag members of this class carry.
func (c *Class) Origin() types.Origin { return c.origin }

// Parent returns the parent class, or nil.
func (c *Class) Parent() *Class { return c.parent }

// Table returns the resolved member table.
func (c *Class) Table() *Table { return c.table }

// Traits returns the traits mixed directly into c, in order.
func (c *Class) Traits() []*Trait {
	out := make([]*Trait, 0, len(c.mixins))
	for _, mx := range c.mixins {
		out = append(out, mx.trait)
	}
	return out
}

// Abstract reports whether c still has members without implementation.
func (c *Class) Abstract() bool { return len(c.table.Abstract()) > 0 }

// Uses reports whether t was mixed into c or one of its ancestors.
func (c *Class) Uses(t *Trait) bool {
	for k := c; k != nil; k = k.parent {
		for _, mx := range k.mixins {
			if mx.trait == t {
				return true
			}
		}
	}
	return false
}

// IsSubclassOf reports whether c is ancestor or descends from it.
func (c *Class) IsSubclassOf(ancestor *Class) bool {
	for k := c; k != nil; k = k.parent {
		if k == ancestor {
			return true
		}
	}
	return false
}

// lineage returns c's class chain, root first.
func (c *Class) lineage() []*Class {
	var out []*Class
	for k := c; k != nil; k = k.parent {
		out = append([]*Class{k}, out...)
	}
	return out
}

// IsClass reports whether v is a composed class.
func IsClass(v any) bool {
	c, ok := v.(*Class)
	return ok && c != nil
}
