// FILE: lixenwraith/tomlcfg/kind_test.go
package tomlcfg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	t.Run("Names", func(t *testing.T) {
		assert.Equal(t, "int", KindInt.String())
		assert.Equal(t, "float", KindFloat.String())
		assert.Equal(t, "bool", KindBool.String())
		assert.Equal(t, "string", KindString.String())
		assert.Equal(t, "invalid", KindInvalid.String())
		assert.Equal(t, "int64", KindInt.GoType())
		assert.Empty(t, KindInvalid.GoType())
	})

	t.Run("ParseKind", func(t *testing.T) {
		tests := map[string]Kind{
			"int":     KindInt,
			"integer": KindInt,
			"Float":   KindFloat,
			"boolean": KindBool,
			" str ":   KindString,
		}
		for in, want := range tests {
			k, err := ParseKind(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, k, in)
		}

		_, err := ParseKind("array")
		assert.Error(t, err)
	})
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"int", 32, Int(32)},
		{"int8", int8(-3), Int(-3)},
		{"uint16", uint16(65535), Int(65535)},
		{"float32", float32(0.5), Float(0.5)},
		{"float64", 1.25, Float(1.25)},
		{"bool", true, Bool(true)},
		{"string", "hello", String("hello")},
		{"value passthrough", Int(7), Int(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(v), "got %s", v)
		})
	}

	t.Run("Rejected", func(t *testing.T) {
		_, err := ValueOf(nil)
		assert.Error(t, err)
		_, err = ValueOf([]int{1})
		assert.Error(t, err)
		_, err = ValueOf(uint64(math.MaxUint64))
		assert.ErrorContains(t, err, "overflow")
	})
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(KindInt, "0x10")
	require.NoError(t, err)
	assert.True(t, Int(16).Equal(v))

	v, err = ParseValue(KindInt, "1_000")
	require.NoError(t, err)
	assert.True(t, Int(1000).Equal(v))

	v, err = ParseValue(KindFloat, "2.5")
	require.NoError(t, err)
	assert.True(t, Float(2.5).Equal(v))

	v, err = ParseValue(KindBool, "true")
	require.NoError(t, err)
	assert.True(t, Bool(true).Equal(v))

	v, err = ParseValue(KindString, " spaced ")
	require.NoError(t, err)
	assert.True(t, String(" spaced ").Equal(v))

	_, err = ParseValue(KindInt, "1.5")
	assert.Error(t, err)
	_, err = ParseValue(KindBool, "yes please")
	assert.Error(t, err)
	_, err = ParseValue(KindInvalid, "x")
	assert.Error(t, err)
}

func TestValueAccessors(t *testing.T) {
	i, ok := Int(5).Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(5), i)

	_, ok = Int(5).Float64()
	assert.False(t, ok, "an int is never a float")

	s, ok := String("x").Str()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	assert.False(t, Value{}.IsValid())
	assert.Nil(t, Value{}.Interface())
	assert.Equal(t, int64(5), Int(5).Interface())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Float(1)), "kinds differ")
	assert.False(t, String("a").Equal(String("b")))
	assert.True(t, Float(math.NaN()).Equal(Float(math.NaN())))
	assert.True(t, Value{}.Equal(Value{}))
}

func TestGoLiteral(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int(-42), "-42"},
		{Float(1), "1.0"},
		{Float(0.25), "0.25"},
		{Float(1e21), "1e+21"},
		{Bool(false), "false"},
		{String(`say "hi"`), `"say \"hi\""`},
	}
	for _, tt := range tests {
		lit, err := tt.v.GoLiteral()
		require.NoError(t, err)
		assert.Equal(t, tt.want, lit)
	}

	_, err := Float(math.Inf(1)).GoLiteral()
	assert.Error(t, err)
	_, err = Float(math.NaN()).GoLiteral()
	assert.Error(t, err)
	_, err = Value{}.GoLiteral()
	assert.Error(t, err)
}
