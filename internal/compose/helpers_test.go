package compose

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// payload is a non-empty type so distinct pointers never compare equal.
type payload struct{ n int }

func method(decl string, arity int, fn types.Method) types.Member {
	return types.Must(types.NewMethod(decl, arity, fn))
}

func abstract(decl string, arity int) types.Member {
	return types.Must(types.NewMethod(decl, arity, nil))
}

func prop(decl string, value any) types.Member {
	return types.Must(types.NewProperty(decl, value))
}

func returns(v any) types.Method {
	return func(types.Context, ...any) (any, error) { return v, nil }
}

// wraps prefixes the result of the overridden implementation.
func wraps(prefix string) types.Method {
	return func(ctx types.Context, args ...any) (any, error) {
		r, err := ctx.Super(args...)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%s+%v", prefix, r), nil
	}
}

func mustTrait(t *testing.T, name string, members ...types.Member) *Trait {
	t.Helper()
	tr, err := DefineTrait(name, members...)
	require.NoError(t, err)
	return tr
}

func mustInvoke(t *testing.T, tr *Trait, args ...any) *ArgumentTrait {
	t.Helper()
	a, err := tr.Invoke(args...)
	require.NoError(t, err)
	return a
}

func mustCompose(t *testing.T, def ClassDef) *Class {
	t.Helper()
	c, err := Compose(def)
	require.NoError(t, err)
	return c
}

func mustNew(t *testing.T, c *Class, args ...any) *Instance {
	t.Helper()
	inst, err := c.New(args...)
	require.NoError(t, err)
	return inst
}

func mustCall(t *testing.T, o types.Object, name string, args ...any) any {
	t.Helper()
	r, err := o.Call(name, args...)
	require.NoError(t, err)
	return r
}

// originNames returns the names of the origins a composition error cites.
func originNames(err error) []string {
	var ce *types.CompositionError
	if !errors.As(err, &ce) {
		return nil
	}
	names := make([]string, 0, len(ce.Origins))
	for _, o := range ce.Origins {
		names = append(names, o.Name)
	}
	return names
}
