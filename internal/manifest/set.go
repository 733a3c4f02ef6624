package manifest

import (
	"fmt"

	"github.com/mesh-intelligence/weave/internal/compose"
	"github.com/mesh-intelligence/weave/pkg/types"
	"github.com/mesh-intelligence/weave/pkg/weave"
)

// Set holds everything a manifest defines, keyed by name.
type Set struct {
	Interfaces map[string]*compose.Interface
	Traits     map[string]*compose.Trait
	Classes    map[string]*compose.Class

	traitOrder []string
	classOrder []string
}

// TraitNames returns trait names in declaration order.
func (s *Set) TraitNames() []string { return append([]string(nil), s.traitOrder...) }

// ClassNames returns class names in declaration order.
func (s *Set) ClassNames() []string { return append([]string(nil), s.classOrder...) }

// Class returns the named class.
func (s *Set) Class(name string) (*compose.Class, error) {
	c, ok := s.Classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: class %q", ErrUnknownName, name)
	}
	return c, nil
}

// Load reads and builds the manifest at path.
func Load(path string, opts ...compose.Option) (*Set, error) {
	doc, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts...)
}

// Build checks the version constraint, then defines interfaces, traits and
// classes in that order. The first failure stops the build; the error names
// the entity that failed.
func Build(doc *Document, opts ...compose.Option) (*Set, error) {
	if err := CheckVersion(doc.Weave, weave.Version); err != nil {
		return nil, err
	}
	s := &Set{
		Interfaces: make(map[string]*compose.Interface),
		Traits:     make(map[string]*compose.Trait),
		Classes:    make(map[string]*compose.Class),
	}
	for _, spec := range doc.Interfaces {
		if err := s.defineInterface(spec); err != nil {
			return nil, fmt.Errorf("interface %q: %w", spec.Name, err)
		}
	}
	for _, spec := range doc.Traits {
		if err := s.defineTrait(spec); err != nil {
			return nil, fmt.Errorf("trait %q: %w", spec.Name, err)
		}
	}
	for _, spec := range doc.Classes {
		if err := s.defineClass(spec, opts); err != nil {
			return nil, fmt.Errorf("class %q: %w", spec.Name, err)
		}
	}
	return s, nil
}

func (s *Set) defineInterface(spec InterfaceSpec) error {
	if _, dup := s.Interfaces[spec.Name]; dup {
		return ErrDuplicateName
	}
	var reqs []types.Member
	for _, ref := range spec.Methods {
		name, arity, _, err := splitArity(ref)
		if err != nil {
			return err
		}
		m, err := types.NewMethod("abstract "+name, arity, nil)
		if err != nil {
			return err
		}
		reqs = append(reqs, m)
	}

	var (
		i   *compose.Interface
		err error
	)
	if spec.Extends != "" {
		parent, ok := s.Interfaces[spec.Extends]
		if !ok {
			return fmt.Errorf("%w: interface %q", ErrUnknownName, spec.Extends)
		}
		i, err = parent.Extend(spec.Name, reqs...)
	} else {
		i, err = compose.DefineInterface(spec.Name, reqs...)
	}
	if err != nil {
		return err
	}
	s.Interfaces[spec.Name] = i
	return nil
}

func (s *Set) defineTrait(spec TraitSpec) error {
	if _, dup := s.Traits[spec.Name]; dup {
		return ErrDuplicateName
	}
	ms, err := members(spec.Name, spec.Members)
	if err != nil {
		return err
	}
	t, err := compose.DefineTrait(spec.Name, ms...)
	if err != nil {
		return err
	}
	s.Traits[spec.Name] = t
	s.traitOrder = append(s.traitOrder, spec.Name)
	return nil
}

func (s *Set) defineClass(spec ClassSpec, opts []compose.Option) error {
	if _, dup := s.Classes[spec.Name]; dup {
		return ErrDuplicateName
	}
	def := compose.ClassDef{Name: spec.Name}

	if spec.Extends != "" {
		parent, ok := s.Classes[spec.Extends]
		if !ok {
			return types.NewCompositionError(spec.Extends, types.ErrParentNotClass,
				"parents must be declared before their subclasses")
		}
		def.Parent = parent
	}

	for _, use := range spec.Use {
		t, ok := s.Traits[use.Trait]
		if !ok {
			return types.NewCompositionError(use.Trait, types.ErrNotTrait, "no trait with that name")
		}
		if use.Args == nil {
			def.Traits = append(def.Traits, t)
			continue
		}
		configured, err := t.Invoke(*use.Args...)
		if err != nil {
			return err
		}
		def.Traits = append(def.Traits, configured)
	}

	for _, name := range spec.Implements {
		i, ok := s.Interfaces[name]
		if !ok {
			return types.NewCompositionError(name, types.ErrNotInterface, "no interface with that name")
		}
		def.Implements = append(def.Implements, i)
	}

	ms, err := members(spec.Name, spec.Members)
	if err != nil {
		return err
	}
	def.Members = ms

	c, err := compose.Compose(def, opts...)
	if err != nil {
		return err
	}
	s.Classes[spec.Name] = c
	s.classOrder = append(s.classOrder, spec.Name)
	return nil
}
