// Package fingerprint turns operator configurations into 64-bit cache keys.
//
// Keys are built by folding an ordered tuple of values into a single
// accumulator with a golden-ratio mixing step. The result is deterministic
// and order-sensitive: the same values in the same order always produce the
// same Fingerprint, and reordering fields changes it. It is a
// non-cryptographic hash; collisions are possible and are not detected.
//
// Each algorithm family owns one key function with a fixed argument order
// (see ConvKey, MatmulKey, TransposeKey). Callers must keep that order stable.
package fingerprint
