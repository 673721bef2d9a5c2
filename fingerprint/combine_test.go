package fingerprint

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMix_KnownValues(t *testing.T) {
	assert.Equal(t, uint64(0x9e3779ba), Mix(0, 1))
	assert.Equal(t, uint64(0x28cd94bf13), Mix(Mix(0, 1), 2))
}

func TestKey_Scalars(t *testing.T) {
	fp, err := Key(1, 2)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(0x28cd94bf13), fp)

	fp, err = Key(2, 1)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(0x28cd94bf53), fp)
}

func TestKey_SequenceFoldedAsOneValue(t *testing.T) {
	seq, err := Key([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(0x296bcc38cc), seq)

	flat, err := Key(1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, flat, seq, "a sequence must not hash like its flattened elements")
}

func TestKey_EmptyInput(t *testing.T) {
	fp, err := Key()
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(0), fp)
}

func TestKey_Deterministic(t *testing.T) {
	args := []any{[]int64{1, 3, 224, 224}, []int64{64, 3, 3, 3}, []int{1, 1}, "nchw", 0.5, true, Float32}

	first, err := Key(args...)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		got, err := Key(args...)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestKey_OrderSensitive(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	const samples = 10000

	collisions := 0
	for i := 0; i < samples; i++ {
		a := r.Int64()
		b := r.Int64()
		if a == b {
			continue
		}
		ab := MustKey(a, b)
		ba := MustKey(b, a)
		if ab == ba {
			collisions++
		}
	}
	assert.Zero(t, collisions)
}

func TestKey_OrderSensitiveHeterogeneous(t *testing.T) {
	dims := []int64{8, 16, 32}
	assert.NotEqual(t, MustKey(dims, Float16), MustKey(Float16, dims))
	assert.NotEqual(t, MustKey("conv", 3), MustKey(3, "conv"))
}

func TestKey_IntegerWidthsAgree(t *testing.T) {
	want := MustKey(int64(42))
	assert.Equal(t, want, MustKey(42))
	assert.Equal(t, want, MustKey(int32(42)))
	assert.Equal(t, want, MustKey(uint8(42)))
	assert.Equal(t, MustKey([]int64{1, 2}), MustKey([]int{1, 2}))
}

func TestKey_Floats(t *testing.T) {
	assert.Equal(t, MustKey(0.0), MustKey(math.Copysign(0, -1)))
	assert.Equal(t, MustKey(float32(1.5)), MustKey(1.5))
	assert.NotEqual(t, MustKey(1.5), MustKey(2.5))
}

func TestKey_Strings(t *testing.T) {
	assert.Equal(t, MustKey("nhwc"), MustKey([]byte("nhwc")))
	assert.NotEqual(t, MustKey("nhwc"), MustKey("nchw"))
	assert.NotEqual(t, MustKey([]string{"a", "b"}), MustKey([]string{"b", "a"}))
}

func TestKey_ByteSlicesHashAsStrings(t *testing.T) {
	raw := []uint8{1, 2, 3}
	assert.Equal(t, MustKey([]byte{1, 2, 3}), MustKey(raw))
	assert.Equal(t, MustKey(string(raw)), MustKey(raw))
	assert.Equal(t, Fingerprint(Mix(0, xxhash.Sum64(raw))), MustKey(raw))
	assert.NotEqual(t, MustKey([]int{1, 2, 3}), MustKey(raw))

	type blob []byte
	assert.Equal(t, MustKey([]int{1, 2, 3}), MustKey(blob{1, 2, 3}))
	assert.Equal(t, MustKey([]int{1, 2, 3}), MustKey([3]uint8{1, 2, 3}))
}

func TestKey_NamedTypesViaReflection(t *testing.T) {
	type layout int
	assert.Equal(t, MustKey(7), MustKey(layout(7)))

	dtypes := []DataType{Float16, Float32}
	want := Mix(Mix(0, Float16.Hash64()), Float32.Hash64())
	assert.Equal(t, Fingerprint(Mix(0, want)), MustKey(dtypes))

	assert.Equal(t, MustKey([]int{1, 2, 3}), MustKey([3]int{1, 2, 3}))
}

func TestKey_NestedAny(t *testing.T) {
	nested := MustKey([]any{1, []int{2, 3}})
	assert.Equal(t, Fingerprint(Mix(0, uint64(MustKey(1, []int{2, 3})))), nested)
}

func TestKey_FingerprintIsHashable(t *testing.T) {
	inner := MustKey(1, 2)
	assert.Equal(t, Fingerprint(Mix(0, uint64(inner))), MustKey(inner))
}

func TestKey_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"map", map[string]int{"a": 1}},
		{"struct", struct{ A int }{1}},
		{"func", func() {}},
		{"slice of maps", []map[string]int{{"a": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Key(1, tt.value)
			require.ErrorIs(t, err, ErrUnsupportedType)
			assert.Contains(t, err.Error(), "argument 1")
		})
	}
}

func TestMustKey_Panics(t *testing.T) {
	assert.Panics(t, func() { MustKey(struct{}{}) })
}

func TestFingerprint_String(t *testing.T) {
	assert.Equal(t, "000000009e3779ba", Fingerprint(0x9e3779ba).String())
}
