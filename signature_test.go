package overload_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struct0x/overload"
)

type shape struct {
	overload.Bindings
	name string
}

func TestExtract_Func(t *testing.T) {
	impl := overload.Func(func(x int, y string, z any) {},
		overload.Arg("x"), overload.Opt("y", "a"), overload.Opt("z", nil))

	sig, err := overload.Extract(impl)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y", "z"}, sig.Names())
	assert.Equal(t, map[string]reflect.Type{
		"x": reflect.TypeFor[int](),
		"y": reflect.TypeFor[string](),
	}, sig.Types())
	assert.Equal(t, []any{"a", nil}, sig.Defaults())
	assert.False(t, sig.ExpectsReceiver())
	assert.False(t, sig.Variadic())

	def, ok := sig.Default("y")
	assert.True(t, ok)
	assert.Equal(t, "a", def)

	_, ok = sig.Default("x")
	assert.False(t, ok, "x has no default")

	_, ok = sig.Default("missing")
	assert.False(t, ok)
}

func TestExtract_UndeclaredNames(t *testing.T) {
	sig, err := overload.Extract(overload.Func(func(int, string) {}))
	require.NoError(t, err)

	assert.Equal(t, []string{"arg0", "arg1"}, sig.Names())
	assert.Len(t, sig.Types(), 2)
	assert.Empty(t, sig.Defaults())
}

func TestExtract_PartiallyDeclared(t *testing.T) {
	sig, err := overload.Extract(overload.Func(func(int, string) {}, overload.Arg("n")))
	require.NoError(t, err)

	assert.Equal(t, []string{"n", "arg1"}, sig.Names())
}

func TestExtract_Variadic(t *testing.T) {
	sig, err := overload.Extract(overload.Func(func(prefix string, rest ...int) {}, overload.Arg("prefix")))
	require.NoError(t, err)

	assert.Equal(t, []string{"prefix"}, sig.Names())
	assert.True(t, sig.Variadic())
	assert.NotContains(t, sig.Types(), "rest")
}

func TestExtract_Method(t *testing.T) {
	impl := overload.Method(func(s *shape, scale float64) {}, overload.Arg("scale"))

	t.Run("unbound", func(t *testing.T) {
		sig, err := overload.Extract(impl)
		require.NoError(t, err)

		assert.Equal(t, []string{overload.ReceiverName, "scale"}, sig.Names())
		assert.Equal(t, reflect.TypeFor[*shape](), sig.Types()[overload.ReceiverName])
		assert.False(t, sig.ExpectsReceiver())
	})

	t.Run("bound", func(t *testing.T) {
		bound, err := impl.Bind(&shape{})
		require.NoError(t, err)
		assert.True(t, bound.Bound())

		sig, err := overload.Extract(bound)
		require.NoError(t, err)

		assert.Equal(t, []string{"scale"}, sig.Names())
		assert.NotContains(t, sig.Types(), overload.ReceiverName)
		assert.True(t, sig.ExpectsReceiver())
	})
}

func TestExtract_Invalid(t *testing.T) {
	tests := []struct {
		name string
		impl *overload.Impl
	}{
		{"nil impl", nil},
		{"not a function", overload.Func(42)},
		{"nil function", overload.Func(nil)},
		{"too many declarations", overload.Func(func(x int) {}, overload.Arg("x"), overload.Arg("y"))},
		{"default of wrong type", overload.Func(func(x int) {}, overload.Opt("x", "one"))},
		{"nil default for value type", overload.Func(func(x int) {}, overload.Opt("x", nil))},
		{"default not trailing", overload.Func(func(x, y int) {}, overload.Opt("x", 1), overload.Arg("y"))},
		{"default before undeclared", overload.Func(func(x, y int) {}, overload.Opt("x", 1))},
		{"duplicate name", overload.Func(func(x, y int) {}, overload.Arg("x"), overload.Arg("x"))},
		{"method without receiver", overload.Method(func() {})},
		{"method param named like receiver", overload.Method(func(s *shape, x int) {}, overload.Arg(overload.ReceiverName))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := overload.Extract(tt.impl)
			assert.ErrorIs(t, err, overload.ErrInvalidSignature)
		})
	}
}

func TestImpl_Bind(t *testing.T) {
	method := overload.Method(func(s *shape) string { return s.name })

	t.Run("plain function", func(t *testing.T) {
		_, err := overload.Func(func(s *shape) {}).Bind(&shape{})
		assert.ErrorIs(t, err, overload.ErrNotBindable)
	})

	t.Run("wrong receiver type", func(t *testing.T) {
		_, err := method.Bind(shape{})
		assert.ErrorIs(t, err, overload.ErrNotBindable)
	})

	t.Run("nil receiver", func(t *testing.T) {
		_, err := method.Bind(nil)
		assert.ErrorIs(t, err, overload.ErrNotBindable)
	})

	t.Run("already bound", func(t *testing.T) {
		bound, err := method.Bind(&shape{})
		require.NoError(t, err)

		_, err = bound.Bind(&shape{})
		assert.ErrorIs(t, err, overload.ErrNotBindable)
	})

	t.Run("receiver", func(t *testing.T) {
		s := &shape{name: "square"}
		bound, err := method.Bind(s)
		require.NoError(t, err)

		assert.Same(t, s, bound.Receiver())
		assert.Nil(t, method.Receiver())
		assert.False(t, method.Bound())
	})
}
