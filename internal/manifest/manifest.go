// Package manifest loads declarative trait, interface and class
// definitions from YAML or TOML and composes them with the engine.
//
// Method bodies cannot be expressed in data. Every manifest method gets a
// stub body that returns "Owner.name"; override stubs append the result of
// the member they override, so the dispatch chain is visible from a call.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Manifest errors.
var (
	ErrUnknownFormat = errors.New("unknown manifest format")
	ErrIncompatible  = errors.New("manifest requires a different weave version")
	ErrDuplicateName = errors.New("duplicate name in manifest")
	ErrUnknownName   = errors.New("unknown name in manifest")
	ErrInvalidMember = errors.New("invalid member entry")
)

// Format is a manifest encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Document is the decoded form of a manifest file.
type Document struct {
	Weave      string          `yaml:"weave" toml:"weave"`
	Interfaces []InterfaceSpec `yaml:"interfaces" toml:"interfaces"`
	Traits     []TraitSpec     `yaml:"traits" toml:"traits"`
	Classes    []ClassSpec     `yaml:"classes" toml:"classes"`
}

// InterfaceSpec declares an interface. Methods use "name/arity".
type InterfaceSpec struct {
	Name    string   `yaml:"name" toml:"name"`
	Extends string   `yaml:"extends" toml:"extends"`
	Methods []string `yaml:"methods" toml:"methods"`
}

// TraitSpec declares a trait.
type TraitSpec struct {
	Name    string       `yaml:"name" toml:"name"`
	Members []MemberSpec `yaml:"members" toml:"members"`
}

// ClassSpec declares a class. Parents must be declared before children.
type ClassSpec struct {
	Name       string       `yaml:"name" toml:"name"`
	Extends    string       `yaml:"extends" toml:"extends"`
	Use        []UseSpec    `yaml:"use" toml:"use"`
	Implements []string     `yaml:"implements" toml:"implements"`
	Members    []MemberSpec `yaml:"members" toml:"members"`
}

// UseSpec mixes a trait into a class. When Args is present, even empty,
// the trait is configured with them first.
type UseSpec struct {
	Trait string `yaml:"trait" toml:"trait"`
	Args  *[]any `yaml:"args" toml:"args"`
}

// MemberSpec declares one member. Decl uses the keyword syntax and may
// carry an arity suffix ("virtual foo/2"). A member with a value, or with
// kind "property", is a property; anything else is a method.
type MemberSpec struct {
	Decl  string `yaml:"decl" toml:"decl"`
	Kind  string `yaml:"kind" toml:"kind"`
	Arity int    `yaml:"arity" toml:"arity"`
	Value any    `yaml:"value" toml:"value"`
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
	}
}

// Read decodes the manifest at path.
func Read(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes manifest data in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml manifest: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse toml manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return &doc, nil
}

// CheckVersion reports whether version satisfies the manifest's weave
// constraint. An empty constraint accepts any version.
func CheckVersion(constraint, version string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("weave constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("weave version %q: %w", version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %q", ErrIncompatible, version, constraint)
	}
	return nil
}

// splitArity separates an optional "/N" suffix from a declaration.
func splitArity(decl string) (string, int, bool, error) {
	i := strings.LastIndex(decl, "/")
	if i < 0 {
		return decl, 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(decl[i+1:]))
	if err != nil || n < 0 {
		return "", 0, false, fmt.Errorf("%w: bad arity in %q", ErrInvalidMember, decl)
	}
	return decl[:i], n, true, nil
}

// member converts a spec into a member with a stub body owned by owner.
func (ms MemberSpec) member(owner string) (types.Member, error) {
	decl, arity, suffixed, err := splitArity(ms.Decl)
	if err != nil {
		return types.Member{}, err
	}
	if !suffixed {
		arity = ms.Arity
	}

	kind := strings.ToLower(strings.TrimSpace(ms.Kind))
	switch {
	case kind == "property" || (kind == "" && ms.Value != nil):
		return types.NewProperty(decl, ms.Value)
	case kind == "" || kind == "method":
		d, err := types.ParseDeclaration(decl)
		if err != nil {
			return types.Member{}, err
		}
		var body types.Method
		if !d.Modifiers.Has(types.Abstract) {
			body = stub(owner, d)
		}
		return types.NewMethod(decl, arity, body)
	default:
		return types.Member{}, fmt.Errorf("%w: kind %q", ErrInvalidMember, ms.Kind)
	}
}

func stub(owner string, d types.Declaration) types.Method {
	label := owner + "." + d.Name
	if !d.Modifiers.Has(types.Override) {
		return func(types.Context, ...any) (any, error) { return label, nil }
	}
	return func(ctx types.Context, args ...any) (any, error) {
		r, err := ctx.Super(args...)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return label, nil
		}
		return fmt.Sprintf("%s > %v", label, r), nil
	}
}

func members(owner string, specs []MemberSpec) ([]types.Member, error) {
	out := make([]types.Member, 0, len(specs))
	for _, ms := range specs {
		m, err := ms.member(owner)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
