package fingerprint

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// GoldenRatio is the odd mixing constant added on every fold.
const GoldenRatio uint64 = 0x9e3779b9

// ErrUnsupportedType is returned when a value has no hash rule.
var ErrUnsupportedType = errors.New("fingerprint: unsupported value type")

// Fingerprint is the opaque key derived from a configuration tuple.
type Fingerprint uint64

// Hash64 lets a Fingerprint be folded into another key.
func (f Fingerprint) Hash64() uint64 { return uint64(f) }

// String returns the fingerprint as 16 hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Hashable is implemented by values that supply their own scalar hash.
type Hashable interface {
	Hash64() uint64
}

// Mix folds one scalar hash h into seed.
func Mix(seed, h uint64) uint64 {
	return seed ^ (h + GoldenRatio + (seed << 6) + (seed >> 2))
}

// Combine folds values into seed left to right and returns the new seed.
//
// Scalars are folded with Mix. Slices and arrays are folded element by
// element into a fresh accumulator starting at 0, and that accumulator is
// folded into seed as one scalar. A []byte, which is the same type as
// []uint8, is the exception: it hashes with xxhash like a string of the same
// bytes, so MustKey([]uint8{1, 2}) differs from MustKey([]int{1, 2}). Byte
// arrays and named byte slice types still fold element by element.
func Combine(seed uint64, values ...any) (uint64, error) {
	for i, v := range values {
		h, err := hashValue(v)
		if err != nil {
			return seed, fmt.Errorf("argument %d: %w", i, err)
		}
		seed = Mix(seed, h)
	}
	return seed, nil
}

// Key combines values starting from a zero seed.
func Key(values ...any) (Fingerprint, error) {
	seed, err := Combine(0, values...)
	if err != nil {
		return 0, err
	}
	return Fingerprint(seed), nil
}

// MustKey is like Key but panics when a value has no hash rule.
func MustKey(values ...any) Fingerprint {
	fp, err := Key(values...)
	if err != nil {
		panic(err)
	}
	return fp
}

func hashValue(v any) (uint64, error) {
	switch val := v.(type) {
	case Hashable:
		return val.Hash64(), nil
	case bool:
		return hashBool(val), nil
	case int:
		return uint64(val), nil
	case int8:
		return uint64(val), nil
	case int16:
		return uint64(val), nil
	case int32:
		return uint64(val), nil
	case int64:
		return uint64(val), nil
	case uint:
		return uint64(val), nil
	case uint8:
		return uint64(val), nil
	case uint16:
		return uint64(val), nil
	case uint32:
		return uint64(val), nil
	case uint64:
		return val, nil
	case uintptr:
		return uint64(val), nil
	case float32:
		return hashFloat(float64(val)), nil
	case float64:
		return hashFloat(val), nil
	case string:
		return xxhash.Sum64String(val), nil
	case []byte:
		return xxhash.Sum64(val), nil
	case []int:
		return foldInts(val), nil
	case []int32:
		return foldInts(val), nil
	case []int64:
		return foldInts(val), nil
	case []uint64:
		return foldInts(val), nil
	case []float32:
		return foldFloats(val), nil
	case []float64:
		return foldFloats(val), nil
	case []bool:
		var seed uint64
		for _, b := range val {
			seed = Mix(seed, hashBool(b))
		}
		return seed, nil
	case []string:
		var seed uint64
		for _, s := range val {
			seed = Mix(seed, xxhash.Sum64String(s))
		}
		return seed, nil
	case []any:
		return Combine(0, val...)
	case nil:
		return 0, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	return hashReflect(reflect.ValueOf(v))
}

// hashReflect covers named scalar types and slices or arrays the type switch
// does not list, such as []DataType or [4]int.
func hashReflect(rv reflect.Value) (uint64, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return hashBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return hashFloat(rv.Float()), nil
	case reflect.String:
		return xxhash.Sum64String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		var seed uint64
		for i := 0; i < rv.Len(); i++ {
			h, err := hashValue(rv.Index(i).Interface())
			if err != nil {
				return 0, fmt.Errorf("element %d: %w", i, err)
			}
			seed = Mix(seed, h)
		}
		return seed, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

func foldInts[T integer](vs []T) uint64 {
	var seed uint64
	for _, v := range vs {
		seed = Mix(seed, uint64(v))
	}
	return seed
}

func foldFloats[T ~float32 | ~float64](vs []T) uint64 {
	var seed uint64
	for _, v := range vs {
		seed = Mix(seed, hashFloat(float64(v)))
	}
	return seed
}

func hashBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// hashFloat hashes the IEEE-754 bits; -0 and +0 hash alike.
func hashFloat(f float64) uint64 {
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}
