package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(Context, ...any) (any, error) { return nil, nil }

func TestParseDeclaration(t *testing.T) {
	tests := []struct {
		name    string
		decl    string
		want    Declaration
		wantErr error
	}{
		{
			name: "bare name defaults to public",
			decl: "foo",
			want: Declaration{Name: "foo", Visibility: Public},
		},
		{
			name: "visibility and modifiers in any order",
			decl: "override virtual protected foo",
			want: Declaration{Name: "foo", Visibility: Protected, Modifiers: Override | Virtual},
		},
		{
			name: "private property",
			decl: "private _foo",
			want: Declaration{Name: "_foo", Visibility: Private},
		},
		{
			name:    "empty declaration",
			decl:    "   ",
			wantErr: ErrInvalidName,
		},
		{
			name:    "keyword without name",
			decl:    "public virtual",
			wantErr: ErrInvalidName,
		},
		{
			name:    "two visibilities",
			decl:    "public private foo",
			wantErr: ErrInvalidModifier,
		},
		{
			name:    "duplicate modifier",
			decl:    "virtual virtual foo",
			wantErr: ErrInvalidModifier,
		},
		{
			name:    "unknown keyword",
			decl:    "static foo",
			wantErr: ErrInvalidModifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeclaration(tt.decl)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrDefinition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMethod(t *testing.T) {
	tests := []struct {
		name    string
		decl    string
		arity   int
		fn      Method
		wantErr error
	}{
		{"concrete public", "foo", 0, noop, nil},
		{"virtual protected", "virtual protected foo", 2, noop, nil},
		{"override virtual", "override virtual foo", 1, noop, nil},
		{"abstract without body", "abstract foo", 1, nil, nil},
		{"abstract with override rejected", "abstract override foo", 0, nil, ErrInvalidModifier},
		{"abstract with body rejected", "abstract foo", 0, noop, ErrInvalidModifier},
		{"concrete without body rejected", "foo", 0, nil, ErrMissingImplementation},
		{"const method rejected", "const foo", 0, noop, ErrInvalidModifier},
		{"private virtual rejected", "private virtual foo", 0, noop, ErrInvalidModifier},
		{"negative arity rejected", "foo", -1, noop, ErrInvalidArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMethod(tt.decl, tt.arity, tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var defErr *DefinitionError
				assert.True(t, errors.As(err, &defErr), "expected *DefinitionError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindMethod, m.Kind)
			assert.Equal(t, tt.arity, m.Arity)
		})
	}
}

func TestNewProperty(t *testing.T) {
	m, err := NewProperty("const protected limit", 10)
	require.NoError(t, err)
	assert.Equal(t, KindProperty, m.Kind)
	assert.True(t, m.IsConst())
	assert.Equal(t, Protected, m.Visibility)
	assert.Equal(t, 10, m.Value)

	for _, decl := range []string{"virtual foo", "abstract foo", "override foo"} {
		t.Run(decl, func(t *testing.T) {
			_, err := NewProperty(decl, nil)
			assert.ErrorIs(t, err, ErrInvalidModifier)
		})
	}
}

func TestMemberDeclarationRoundTrip(t *testing.T) {
	m := Must(NewMethod("override virtual protected foo", 2, noop))
	d, err := ParseDeclaration(m.Declaration())
	require.NoError(t, err)
	assert.Equal(t, m.Name, d.Name)
	assert.Equal(t, m.Visibility, d.Visibility)
	assert.Equal(t, m.Modifiers, d.Modifiers)
}

func TestMustPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		Must(NewMethod("abstract override foo", 0, nil))
	})
}

func TestVisibilityOrdering(t *testing.T) {
	assert.Less(t, int(Public), int(Protected))
	assert.Less(t, int(Protected), int(Private))
	assert.Equal(t, "protected", Protected.String())
}
