package gfactory_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstgnz/gfactory"
)

func joinParts(prefix string, first, second int, _ bool) string {
	return prefix + strings.Repeat("-", first+second)
}

func parseLevel(level string) (int, error) {
	if level == "" {
		return 0, errors.New("empty level")
	}
	return len(level), nil
}

func sum(base int, values ...int) int {
	for _, v := range values {
		base += v
	}
	return base
}

func parameterNames(m *gfactory.Method) []string {
	var names []string
	for _, p := range m.Parameters() {
		names = append(names, p.Name)
	}
	return names
}

func TestFactoryType_ParameterNamesFromSource(t *testing.T) {
	t.Parallel()

	ft := gfactory.NewFactoryType("Text").
		Func("JoinParts", joinParts).
		Func("Literal", func(left string, right string) string { return left + right })

	assert.Equal(t, []string{"prefix", "first", "second", "param3"}, parameterNames(ft.Method("JoinParts")))
	assert.Equal(t, []string{"left", "right"}, parameterNames(ft.Method("Literal")))
	assert.Equal(t, []string{"serviceB"}, parameterNames(gfactory.NewFactoryType("S").Func("A", NewServiceA).Method("A")))
}

func TestFactoryType_ExplicitParameterNames(t *testing.T) {
	t.Parallel()

	ft := gfactory.NewFactoryType("Text").
		Func("JoinParts", joinParts, gfactory.WithParamNames("p", "a", "b", "flag"))

	m := ft.Method("JoinParts")
	assert.Equal(t, []string{"p", "a", "b", "flag"}, parameterNames(m))
	assert.Equal(t, "JoinParts(string, int, int, bool)", m.String())
	assert.Equal(t, reflect.TypeOf(""), m.ReturnType())
	assert.Same(t, ft, m.DeclaringType())
}

func TestFactoryType_OptionalAndDefault(t *testing.T) {
	t.Parallel()

	ft := gfactory.NewFactoryType("Text").
		Func("JoinParts", joinParts,
			gfactory.WithParamNames("prefix", "first", "second", "flag"),
			gfactory.WithDefault("first", 2),
			gfactory.WithOptional("flag")).
		Func("Sum", sum, gfactory.WithParamNames("base", "values"))

	params := ft.Method("JoinParts").Parameters()
	require.Len(t, params, 4)
	assert.False(t, params[0].Optional)
	assert.True(t, params[1].Optional)
	assert.True(t, params[1].HasDefault)
	assert.Equal(t, 2, params[1].Default)
	assert.False(t, params[2].Optional)
	assert.True(t, params[3].Optional)
	assert.False(t, params[3].HasDefault)

	sumParams := ft.Method("Sum").Parameters()
	require.Len(t, sumParams, 2)
	assert.False(t, sumParams[0].Optional)
	assert.True(t, sumParams[1].Optional, "variadic parameters are optional")
}

func TestFactoryType_Methods(t *testing.T) {
	t.Parallel()

	ft := integerSources()
	methods := ft.Methods()
	require.Len(t, methods, 2)
	assert.Equal(t, "GetOneToTen", methods[0].Name())
	assert.Equal(t, "GetOnePlusEach", methods[1].Name())
	assert.Nil(t, ft.Method("Missing"))
	assert.Equal(t, "IntegerSources", ft.String())
}

func TestFactoryType_RejectsBadFunctions(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { gfactory.NewFactoryType("Bad").Func("NotAFunc", 42) })
	assert.Panics(t, func() { gfactory.NewFactoryType("Bad").Func("NoResult", func() {}) })
	assert.Panics(t, func() { gfactory.NewFactoryType("Bad").Func("OnlyError", func() error { return nil }) })
	assert.Panics(t, func() {
		gfactory.NewFactoryType("Bad").Func("TooMany", func() (int, int, error) { return 0, 0, nil })
	})
	assert.Panics(t, func() {
		gfactory.NewFactoryType("Bad").Func("Twice", GetOneToTen).Func("Twice", GetOneToTen)
	})
}

func TestMethod_Invoke(t *testing.T) {
	t.Parallel()

	ft := gfactory.NewFactoryType("Misc").
		Func("JoinParts", joinParts, gfactory.WithParamNames("prefix", "first", "second", "flag")).
		Func("ParseLevel", parseLevel, gfactory.WithParamNames("level")).
		Func("Sum", sum, gfactory.WithParamNames("base", "values"))

	t.Run("nil arguments become zero values", func(t *testing.T) {
		out, err := ft.Method("JoinParts").Invoke([]any{"x", 2, nil, nil})
		require.NoError(t, err)
		assert.Equal(t, "x--", out)
	})

	t.Run("convertible arguments", func(t *testing.T) {
		out, err := ft.Method("JoinParts").Invoke([]any{"x", int64(1), uint8(1), true})
		require.NoError(t, err)
		assert.Equal(t, "x--", out)
	})

	t.Run("numbers are not converted to strings", func(t *testing.T) {
		_, err := ft.Method("JoinParts").Invoke([]any{65, 1, 1, true})
		assert.ErrorContains(t, err, `argument "prefix"`)
	})

	t.Run("numbers must fit the parameter", func(t *testing.T) {
		narrow := gfactory.NewFactoryType("Narrow").
			Func("Int8", func(n int8) int8 { return n }, gfactory.WithParamNames("n")).
			Func("Uint16", func(n uint16) uint16 { return n }, gfactory.WithParamNames("n")).
			Func("Int", func(n int) int { return n }, gfactory.WithParamNames("n")).
			Func("Float32", func(f float32) float32 { return f }, gfactory.WithParamNames("f"))

		cases := []struct {
			method string
			arg    any
			want   any
		}{
			{method: "Int8", arg: 300},
			{method: "Int8", arg: -129},
			{method: "Int8", arg: uint64(200)},
			{method: "Uint16", arg: -1},
			{method: "Uint16", arg: 70000},
			{method: "Int", arg: 1.9},
			{method: "Int", arg: 1e300},
			{method: "Int", arg: uint64(1 << 63)},
			{method: "Float32", arg: 1e300},
			{method: "Int8", arg: 127, want: int8(127)},
			{method: "Uint16", arg: int64(65535), want: uint16(65535)},
			{method: "Int", arg: 2.0, want: 2},
			{method: "Float32", arg: 1.5, want: float32(1.5)},
		}
		for _, tc := range cases {
			out, err := narrow.Method(tc.method).Invoke([]any{tc.arg})
			if tc.want == nil {
				assert.ErrorContains(t, err, "does not fit", "%s(%v)", tc.method, tc.arg)
				continue
			}
			require.NoError(t, err, "%s(%v)", tc.method, tc.arg)
			assert.Equal(t, tc.want, out)
		}
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := ft.Method("JoinParts").Invoke([]any{"x"})
		assert.Error(t, err)
	})

	t.Run("returned error", func(t *testing.T) {
		out, err := ft.Method("ParseLevel").Invoke([]any{"debug"})
		require.NoError(t, err)
		assert.Equal(t, 5, out)

		_, err = ft.Method("ParseLevel").Invoke([]any{""})
		assert.EqualError(t, err, "empty level")
	})

	t.Run("variadic takes a slice", func(t *testing.T) {
		out, err := ft.Method("Sum").Invoke([]any{1, []int{2, 3}})
		require.NoError(t, err)
		assert.Equal(t, 6, out)

		out, err = ft.Method("Sum").Invoke([]any{1, nil})
		require.NoError(t, err)
		assert.Equal(t, 1, out)
	})

	t.Run("nil method", func(t *testing.T) {
		_, err := ft.Method("Missing").Invoke(nil)
		assert.ErrorIs(t, err, gfactory.ErrMethodNotFound)
	})
}
