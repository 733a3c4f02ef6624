package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/weave/pkg/types"
)

func TestDefineTrait(t *testing.T) {
	tests := []struct {
		name      string
		traitName string
		members   []types.Member
		wantErr   error
	}{
		{
			name:      "public and private methods",
			traitName: "T",
			members:   []types.Member{method("foo", 0, returns(1)), method("private bar", 0, returns(2))},
		},
		{
			name:      "private property",
			traitName: "T",
			members:   []types.Member{prop("private _n", 0)},
		},
		{
			name:      "abstract and virtual methods",
			traitName: "T",
			members:   []types.Member{abstract("abstract foo", 1), method("virtual protected bar", 2, returns(nil))},
		},
		{
			name:      "empty name rejected",
			traitName: "",
			wantErr:   types.ErrInvalidName,
		},
		{
			name:      "public property rejected",
			traitName: "T",
			members:   []types.Member{prop("n", 0)},
			wantErr:   types.ErrDisallowedKind,
		},
		{
			name:      "protected property rejected",
			traitName: "T",
			members:   []types.Member{prop("protected n", 0)},
			wantErr:   types.ErrDisallowedKind,
		},
		{
			name:      "duplicate member rejected",
			traitName: "T",
			members:   []types.Member{method("foo", 0, returns(1)), method("foo", 1, returns(2))},
			wantErr:   types.ErrDuplicateMember,
		},
		{
			name:      "constructor rejected",
			traitName: "T",
			members:   []types.Member{method(types.ConstructorMethod, 0, returns(nil))},
			wantErr:   types.ErrInvalidName,
		},
		{
			name:      "abstract entry point rejected",
			traitName: "T",
			members:   []types.Member{abstract("abstract __mixin", 1)},
			wantErr:   types.ErrDisallowedKind,
		},
		{
			name:      "invalid member rejected",
			traitName: "T",
			members:   []types.Member{{Kind: types.KindMethod}},
			wantErr:   types.ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := DefineTrait(tt.traitName, tt.members...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, types.ErrDefinition)
				assert.Nil(t, tr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.traitName, tr.Name())
			assert.NotEmpty(t, tr.ID())
			assert.Len(t, tr.Members(), len(tt.members))
		})
	}
}

func TestTraitPredicates(t *testing.T) {
	plain := mustTrait(t, "Plain", method("foo", 0, returns(nil)))
	param := mustTrait(t, "Param", method(types.MixinMethod, 1, returns(nil)))
	arg := mustInvoke(t, param, "x")

	tests := []struct {
		name          string
		value         any
		wantTrait     bool
		wantParameter bool
		wantArgument  bool
	}{
		{name: "plain trait", value: plain, wantTrait: true},
		{name: "parameter trait", value: param, wantTrait: true, wantParameter: true},
		{name: "argument trait", value: arg, wantTrait: true, wantArgument: true},
		{name: "nil", value: nil},
		{name: "string", value: "Plain"},
		{name: "nil trait pointer", value: (*Trait)(nil)},
		{name: "nil argument trait pointer", value: (*ArgumentTrait)(nil)},
		{name: "class", value: mustCompose(t, ClassDef{Name: "C"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTrait, IsTrait(tt.value))
			assert.Equal(t, tt.wantParameter, IsParameterTrait(tt.value))
			assert.Equal(t, tt.wantArgument, IsArgumentTrait(tt.value))
		})
	}
}

func TestTraitInvoke(t *testing.T) {
	t.Run("plain trait cannot be configured", func(t *testing.T) {
		plain := mustTrait(t, "Plain", method("foo", 0, returns(nil)))
		a, err := plain.Invoke("x")
		assert.Nil(t, a)
		assert.ErrorIs(t, err, types.ErrNotParameterTrait)
		assert.ErrorIs(t, err, types.ErrComposition)
	})

	t.Run("argument trait cannot be reconfigured", func(t *testing.T) {
		param := mustTrait(t, "Param", method(types.MixinMethod, 1, returns(nil)))
		arg := mustInvoke(t, param, "x")
		again, err := arg.Invoke("y")
		assert.Nil(t, again)
		assert.ErrorIs(t, err, types.ErrReconfigure)
	})

	t.Run("arguments are kept by identity", func(t *testing.T) {
		param := mustTrait(t, "Param", method(types.MixinMethod, 2, returns(nil)))
		a, b := &payload{1}, &payload{2}
		arg := mustInvoke(t, param, a, b)
		require.Len(t, arg.Args(), 2)
		assert.Same(t, a, arg.Args()[0])
		assert.Same(t, b, arg.Args()[1])
		assert.Same(t, param, arg.Trait())
	})

	t.Run("each invocation is distinct", func(t *testing.T) {
		param := mustTrait(t, "Param", method(types.MixinMethod, 1, returns(nil)))
		a1 := mustInvoke(t, param, "x")
		a2 := mustInvoke(t, param, "x")
		assert.NotSame(t, a1, a2)
		assert.True(t, param.Parameterized())
	})
}

func TestTraitRecord(t *testing.T) {
	tr := mustTrait(t, "Counter",
		method(types.MixinMethod, 1, returns(nil)),
		prop("private _n", 0),
		method("virtual protected inc", 1, returns(nil)),
	)
	rec := tr.Record()
	assert.Equal(t, tr.ID(), rec.TraitID)
	assert.Equal(t, "Counter", rec.Name)
	assert.True(t, rec.Parameterized)
	assert.Equal(t, []string{"public __mixin/1", "private _n", "virtual protected inc/1"}, rec.Members)
	assert.False(t, rec.CreatedAt.IsZero())
}
