package compose

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/weave/pkg/types"
)

func TestVirtual_Dispatch(t *testing.T) {
	tr := mustTrait(t, "T", method("virtual foo", 0, returns("trait")))

	t.Run("trait implementation when nothing overrides", func(t *testing.T) {
		c := mustCompose(t, ClassDef{Name: "C", Traits: []any{tr}})
		assert.Equal(t, "trait", mustCall(t, mustNew(t, c), "foo"))
	})

	t.Run("class override reaches trait through super", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:    "C",
			Traits:  []any{tr},
			Members: []types.Member{method("override foo", 0, wraps("class"))},
		})
		assert.Equal(t, "class+trait", mustCall(t, mustNew(t, c), "foo"))
	})

	t.Run("subclass override of trait virtual", func(t *testing.T) {
		c := mustCompose(t, ClassDef{Name: "C", Traits: []any{tr}})
		d, err := c.Extend("D", method("override foo", 0, wraps("sub")))
		require.NoError(t, err)

		assert.Equal(t, "sub+trait", mustCall(t, mustNew(t, d), "foo"))
		assert.Equal(t, "trait", mustCall(t, mustNew(t, c), "foo"), "parent is unaffected")
	})

	t.Run("overrides stack along the class chain", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:    "C",
			Traits:  []any{tr},
			Members: []types.Member{method("override virtual foo", 0, wraps("c"))},
		})
		d, err := c.Extend("D", method("override foo", 0, wraps("d")))
		require.NoError(t, err)

		assert.Equal(t, "d+c+trait", mustCall(t, mustNew(t, d), "foo"))
		assert.Equal(t, "c+trait", mustCall(t, mustNew(t, c), "foo"))
	})

	t.Run("later trait overrides earlier trait virtual", func(t *testing.T) {
		over := mustTrait(t, "U", method("override virtual foo", 0, wraps("u")))
		c := mustCompose(t, ClassDef{Name: "C", Traits: []any{tr, over}})
		assert.Equal(t, "u+trait", mustCall(t, mustNew(t, c), "foo"))

		d, err := c.Extend("D", method("override foo", 0, wraps("d")))
		require.NoError(t, err)
		assert.Equal(t, "d+u+trait", mustCall(t, mustNew(t, d), "foo"))
	})
}

func TestVirtual_InternalCallsReachOverride(t *testing.T) {
	tr := mustTrait(t, "T",
		method("virtual foo", 0, returns("trait")),
		method("bar", 0, func(ctx types.Context, _ ...any) (any, error) {
			return ctx.Call("foo")
		}),
	)

	plain := mustCompose(t, ClassDef{Name: "Plain", Traits: []any{tr}})
	assert.Equal(t, "trait", mustCall(t, mustNew(t, plain), "bar"))

	overridden := mustCompose(t, ClassDef{
		Name:    "Overridden",
		Traits:  []any{tr},
		Members: []types.Member{method("override foo", 0, returns("class"))},
	})
	assert.Equal(t, "class", mustCall(t, mustNew(t, overridden), "bar"))

	sub, err := plain.Extend("Sub", method("override foo", 0, returns("sub")))
	require.NoError(t, err)
	assert.Equal(t, "sub", mustCall(t, mustNew(t, sub), "bar"))
}

func TestVirtual_TraitOverridesParentVirtual(t *testing.T) {
	parent := mustCompose(t, ClassDef{
		Name:    "P",
		Members: []types.Member{method("virtual foo", 0, returns("parent"))},
	})
	tr := mustTrait(t, "T", method("override virtual foo", 0, wraps("t")))
	c := mustCompose(t, ClassDef{Name: "C", Parent: parent, Traits: []any{tr}})
	assert.Equal(t, "t+parent", mustCall(t, mustNew(t, c), "foo"))

	d, err := c.Extend("D", method("override foo", 0, wraps("d")))
	require.NoError(t, err)
	assert.Equal(t, "d+t+parent", mustCall(t, mustNew(t, d), "foo"))
	assert.Equal(t, "parent", mustCall(t, mustNew(t, parent), "foo"))
}

func TestVirtual_SuperRunsInTraitContext(t *testing.T) {
	tr := mustTrait(t, "T",
		prop("private _p", "secret"),
		method("virtual foo", 0, func(ctx types.Context, _ ...any) (any, error) {
			return ctx.Get("_p")
		}),
	)
	c := mustCompose(t, ClassDef{
		Name:    "C",
		Traits:  []any{tr},
		Members: []types.Member{method("override virtual foo", 0, wraps("c"))},
	})
	d, err := c.Extend("D", method("override virtual foo", 0, wraps("d")))
	require.NoError(t, err)
	e, err := d.Extend("E")
	require.NoError(t, err)

	assert.Equal(t, "c+secret", mustCall(t, mustNew(t, c), "foo"))
	assert.Equal(t, "d+c+secret", mustCall(t, mustNew(t, e), "foo"))

	_, err = mustNew(t, e).Get("_p")
	assert.ErrorIs(t, err, types.ErrUnknownMember, "class code cannot see trait state")
}

func TestVirtual_ReturnsSelf(t *testing.T) {
	self := func(ctx types.Context, _ ...any) (any, error) { return ctx, nil }
	tr := mustTrait(t, "T", method("virtual foo", 0, self))

	t.Run("trait method", func(t *testing.T) {
		c := mustCompose(t, ClassDef{Name: "C", Traits: []any{tr}})
		inst := mustNew(t, c)
		assert.Same(t, inst, mustCall(t, inst, "foo"))
	})

	t.Run("through class override", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:   "C",
			Traits: []any{tr},
			Members: []types.Member{method("override foo", 0, func(ctx types.Context, _ ...any) (any, error) {
				return ctx.Super()
			})},
		})
		inst := mustNew(t, c)
		assert.Same(t, inst, mustCall(t, inst, "foo"))
	})

	t.Run("self from inside matches", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:   "C",
			Traits: []any{tr},
			Members: []types.Member{method("same", 0, func(ctx types.Context, _ ...any) (any, error) {
				r, err := ctx.Call("foo")
				return r == ctx.Self(), err
			})},
		})
		assert.Equal(t, true, mustCall(t, mustNew(t, c), "same"))
	})
}

func TestVirtual_ProtectedWidened(t *testing.T) {
	tr := mustTrait(t, "T", method("virtual protected foo", 0, returns("t")))

	hidden := mustCompose(t, ClassDef{Name: "Hidden", Traits: []any{tr}})
	_, err := mustNew(t, hidden).Call("foo")
	assert.ErrorIs(t, err, types.ErrNotAccessible)

	open := mustCompose(t, ClassDef{
		Name:    "Open",
		Traits:  []any{tr},
		Members: []types.Member{method("override foo", 0, wraps("open"))},
	})
	assert.Equal(t, "open+t", mustCall(t, mustNew(t, open), "foo"))
}

func TestVirtual_DeferredArity(t *testing.T) {
	tr := mustTrait(t, "T", method("virtual foo", 2, returns("t")))

	t.Run("class override with fewer arguments fails on first instantiation", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:    "C",
			Traits:  []any{tr},
			Members: []types.Member{method("override foo", 1, returns("c"))},
		})
		assert.Equal(t, types.StateComposed, c.State())

		_, err1 := c.New()
		require.Error(t, err1)
		assert.ErrorIs(t, err1, types.ErrArity)
		assert.Equal(t, []string{"C", "T"}, originNames(err1))
		assert.Equal(t, types.StateFailed, c.State())

		_, err2 := c.New()
		assert.Same(t, err1, err2, "failure is cached")
		assert.Same(t, err1, c.Err())
	})

	t.Run("subclass override with fewer arguments", func(t *testing.T) {
		c := mustCompose(t, ClassDef{Name: "C", Traits: []any{tr}})
		d, err := c.Extend("D", method("override foo", 1, returns("d")))
		require.NoError(t, err)

		mustNew(t, c)
		assert.Equal(t, types.StateActivated, c.State())

		_, err = d.New()
		assert.ErrorIs(t, err, types.ErrArity)
		assert.Equal(t, types.StateFailed, d.State())
	})

	t.Run("override with more arguments", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:    "C",
			Traits:  []any{tr},
			Members: []types.Member{method("override foo", 3, returns("c"))},
		})
		assert.Equal(t, "c", mustCall(t, mustNew(t, c), "foo"))
		assert.Equal(t, types.StateActivated, c.State())
	})

	t.Run("failed parent fails subclasses", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:    "C",
			Traits:  []any{tr},
			Members: []types.Member{method("override virtual foo", 1, returns("c"))},
		})
		d, err := c.Extend("D", method("extra", 0, returns(nil)))
		require.NoError(t, err)

		_, err = d.New()
		assert.ErrorIs(t, err, types.ErrArity)
		assert.Equal(t, types.StateFailed, c.State())
	})

	t.Run("concurrent activation runs once", func(t *testing.T) {
		c := mustCompose(t, ClassDef{
			Name:    "C",
			Traits:  []any{tr},
			Members: []types.Member{method("override foo", 1, returns("c"))},
		})
		errs := make([]error, 8)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = c.Activate()
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			assert.Same(t, errs[0], err)
		}
	})
}

func TestVirtual_StaticOverrideArityIsImmediate(t *testing.T) {
	parent := mustCompose(t, ClassDef{
		Name:    "P",
		Members: []types.Member{method("virtual foo", 2, returns("p"))},
	})
	_, err := parent.Extend("C", method("override foo", 1, returns("c")))
	assert.ErrorIs(t, err, types.ErrArity)
}

func TestVirtual_NoSuper(t *testing.T) {
	c := mustCompose(t, ClassDef{
		Name: "C",
		Members: []types.Member{method("foo", 0, func(ctx types.Context, _ ...any) (any, error) {
			return ctx.Super()
		})},
	})
	_, err := mustNew(t, c).Call("foo")
	assert.ErrorIs(t, err, types.ErrNoSuper)
}
