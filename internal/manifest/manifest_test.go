package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/weave/pkg/types"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "a.yaml", want: FormatYAML},
		{path: "dir/a.YML", want: FormatYAML},
		{path: "a.toml", want: FormatTOML},
		{path: "a.json", wantErr: true},
		{path: "manifest", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		version    string
		wantErr    error
		wantAnyErr bool
	}{
		{name: "empty constraint", constraint: "", version: "0.1.0"},
		{name: "satisfied", constraint: ">= 0.1.0", version: "0.1.0"},
		{name: "caret range", constraint: "^0.1", version: "0.1.7"},
		{name: "too old", constraint: ">= 1.0.0", version: "0.1.0", wantErr: ErrIncompatible},
		{name: "bad constraint", constraint: "not-a-range", version: "0.1.0", wantAnyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersion(tt.constraint, tt.version)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Formats(t *testing.T) {
	for _, file := range []string{"counter.yaml", "counter.toml"} {
		t.Run(file, func(t *testing.T) {
			set, err := Load(filepath.Join("testdata", file))
			require.NoError(t, err)

			assert.Equal(t, []string{"Counter"}, set.TraitNames())
			assert.Equal(t, []string{"Base", "Child"}, set.ClassNames())
			assert.Contains(t, set.Interfaces, "Greeter")
			assert.True(t, set.Traits["Counter"].Parameterized())

			child, err := set.Class("Child")
			require.NoError(t, err)
			e, ok := child.Table().Lookup("step")
			require.True(t, ok)
			assert.Equal(t, "Child", e.Origin.Name)
			assert.True(t, e.Proxied)
			assert.True(t, child.Implements(set.Interfaces["Greeter"]))

			inst, err := child.New()
			require.NoError(t, err)
			out, err := inst.Call("greet", "you")
			require.NoError(t, err)
			assert.Equal(t, "Base.greet", out)
		})
	}
}

func TestBuild_StubsFollowDispatch(t *testing.T) {
	doc := &Document{
		Traits: []TraitSpec{{
			Name:    "Loud",
			Members: []MemberSpec{{Decl: "virtual speak/0"}},
		}},
		Classes: []ClassSpec{
			{Name: "Base", Use: []UseSpec{{Trait: "Loud"}}},
			{Name: "Sub", Extends: "Base", Members: []MemberSpec{{Decl: "override virtual speak/0"}}},
			{Name: "Leaf", Extends: "Sub", Members: []MemberSpec{{Decl: "override speak", Arity: 0}}},
		},
	}
	set, err := Build(doc)
	require.NoError(t, err)

	leaf, err := set.Class("Leaf")
	require.NoError(t, err)
	inst, err := leaf.New()
	require.NoError(t, err)
	out, err := inst.Call("speak")
	require.NoError(t, err)
	assert.Equal(t, "Leaf.speak > Sub.speak > Loud.speak", out)
}

func TestBuild_Properties(t *testing.T) {
	doc := &Document{
		Classes: []ClassSpec{{
			Name: "Config",
			Members: []MemberSpec{
				{Decl: "const limit", Value: 10},
				{Decl: "label", Kind: "property"},
			},
		}},
	}
	set, err := Build(doc)
	require.NoError(t, err)
	inst, err := set.Classes["Config"].New()
	require.NoError(t, err)

	v, err := inst.Get("limit")
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.ErrorIs(t, inst.Set("limit", 1), types.ErrImmutable)
	assert.NoError(t, inst.Set("label", "x"))
}

func TestBuild_Errors(t *testing.T) {
	plain := TraitSpec{Name: "Plain", Members: []MemberSpec{{Decl: "foo/0"}}}
	param := TraitSpec{Name: "Param", Members: []MemberSpec{{Decl: "__mixin/1"}}}
	noArgs := []any{}

	tests := []struct {
		name     string
		doc      Document
		wantErr  error
		wantText string
	}{
		{
			name:    "incompatible version",
			doc:     Document{Weave: ">= 9.0.0"},
			wantErr: ErrIncompatible,
		},
		{
			name:     "unknown trait",
			doc:      Document{Classes: []ClassSpec{{Name: "C", Use: []UseSpec{{Trait: "Missing"}}}}},
			wantErr:  types.ErrNotTrait,
			wantText: `class "C"`,
		},
		{
			name:    "unknown parent",
			doc:     Document{Classes: []ClassSpec{{Name: "C", Extends: "Later"}, {Name: "Later"}}},
			wantErr: types.ErrParentNotClass,
		},
		{
			name:    "unknown interface",
			doc:     Document{Classes: []ClassSpec{{Name: "C", Implements: []string{"Nope"}}}},
			wantErr: types.ErrNotInterface,
		},
		{
			name:    "unknown parent interface",
			doc:     Document{Interfaces: []InterfaceSpec{{Name: "I", Extends: "J"}}},
			wantErr: ErrUnknownName,
		},
		{
			name:     "duplicate class",
			doc:      Document{Classes: []ClassSpec{{Name: "C"}, {Name: "C"}}},
			wantErr:  ErrDuplicateName,
			wantText: `class "C"`,
		},
		{
			name:    "duplicate trait",
			doc:     Document{Traits: []TraitSpec{plain, plain}},
			wantErr: ErrDuplicateName,
		},
		{
			name: "unconfigured parameter trait",
			doc: Document{
				Traits:  []TraitSpec{param},
				Classes: []ClassSpec{{Name: "C", Use: []UseSpec{{Trait: "Param"}}}},
			},
			wantErr: types.ErrUnconfiguredTrait,
		},
		{
			name: "arguments for a plain trait",
			doc: Document{
				Traits:  []TraitSpec{plain},
				Classes: []ClassSpec{{Name: "C", Use: []UseSpec{{Trait: "Plain", Args: &noArgs}}}},
			},
			wantErr: types.ErrNotParameterTrait,
		},
		{
			name:    "bad arity suffix",
			doc:     Document{Traits: []TraitSpec{{Name: "T", Members: []MemberSpec{{Decl: "foo/x"}}}}},
			wantErr: ErrInvalidMember,
		},
		{
			name:    "bad kind",
			doc:     Document{Traits: []TraitSpec{{Name: "T", Members: []MemberSpec{{Decl: "foo", Kind: "field"}}}}},
			wantErr: ErrInvalidMember,
		},
		{
			name:     "composition conflict",
			doc:      Document{Traits: []TraitSpec{plain}, Classes: []ClassSpec{{Name: "C", Use: []UseSpec{{Trait: "Plain"}}, Members: []MemberSpec{{Decl: "foo"}}}}},
			wantErr:  types.ErrConflict,
			wantText: `class "C"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.doc
			set, err := Build(&doc)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("classes: [unterminated"), 0o644))
	_, err = Read(bad)
	assert.Error(t, err)

	_, err = Parse([]byte("{}"), Format("json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
