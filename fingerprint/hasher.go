package fingerprint

import "github.com/cespare/xxhash/v2"

// Hasher folds typed fields without boxing them into interfaces.
// It produces the same fingerprint as Key given the same values in the
// same order. The zero value is ready to use.
//
//	fp := new(fingerprint.Hasher).Int64s(dims).Ints(strides).DataType(dt).Sum()
type Hasher struct {
	seed uint64
}

// Int folds a single integer.
func (h *Hasher) Int(v int) *Hasher {
	h.seed = Mix(h.seed, uint64(v))
	return h
}

// Int64 folds a single 64-bit integer.
func (h *Hasher) Int64(v int64) *Hasher {
	h.seed = Mix(h.seed, uint64(v))
	return h
}

// Uint64 folds a single unsigned integer.
func (h *Hasher) Uint64(v uint64) *Hasher {
	h.seed = Mix(h.seed, v)
	return h
}

// Bool folds a bool as 0 or 1.
func (h *Hasher) Bool(v bool) *Hasher {
	h.seed = Mix(h.seed, hashBool(v))
	return h
}

// Float64 folds a float by its bit pattern.
func (h *Hasher) Float64(v float64) *Hasher {
	h.seed = Mix(h.seed, hashFloat(v))
	return h
}

// Str folds the xxhash of s.
func (h *Hasher) Str(s string) *Hasher {
	h.seed = Mix(h.seed, xxhash.Sum64String(s))
	return h
}

// Ints folds a sequence of ints as one value.
func (h *Hasher) Ints(vs []int) *Hasher {
	h.seed = Mix(h.seed, foldInts(vs))
	return h
}

// Int64s folds a sequence of 64-bit ints as one value.
func (h *Hasher) Int64s(vs []int64) *Hasher {
	h.seed = Mix(h.seed, foldInts(vs))
	return h
}

// DataType folds a data type tag.
func (h *Hasher) DataType(dt DataType) *Hasher {
	h.seed = Mix(h.seed, dt.Hash64())
	return h
}

// Value folds an arbitrary value with the same rules as Combine. It returns
// an error instead of h, so it ends a chain; use Values to keep chaining.
// On error h is left unchanged.
func (h *Hasher) Value(v any) error {
	_, err := h.Values(v)
	return err
}

// Values folds each value in order with the same rules as Combine and
// returns h for chaining. On error h is left unchanged.
//
//	h, err := new(fingerprint.Hasher).Int64s(dims).Values(pad, mode)
func (h *Hasher) Values(values ...any) (*Hasher, error) {
	seed, err := Combine(h.seed, values...)
	if err != nil {
		return h, err
	}
	h.seed = seed
	return h, nil
}

// Sum returns the fingerprint accumulated so far.
func (h *Hasher) Sum() Fingerprint {
	return Fingerprint(h.seed)
}

// Reset clears the accumulator.
func (h *Hasher) Reset() {
	h.seed = 0
}
