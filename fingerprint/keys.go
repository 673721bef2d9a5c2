package fingerprint

// ConvKey is the key function of the convolution families.
// Field order: input dims, weight dims, strides, paddings, dilations, dtype.
func ConvKey(xDims, wDims []int64, strides, paddings, dilations []int, dtype DataType) Fingerprint {
	var h Hasher
	return h.Int64s(xDims).
		Int64s(wDims).
		Ints(strides).
		Ints(paddings).
		Ints(dilations).
		DataType(dtype).
		Sum()
}

// TransposeKey is the key function of the transpose family.
// Field order: input dims, permutation, dtype.
func TransposeKey(dims []int64, perm []int, dtype DataType) Fingerprint {
	var h Hasher
	return h.Int64s(dims).Ints(perm).DataType(dtype).Sum()
}

// MatmulKey is the key function of the matmul family.
// Field order: x dims, y dims, transpose-x, transpose-y, dtype.
func MatmulKey(xDims, yDims []int64, transX, transY bool, dtype DataType) Fingerprint {
	var h Hasher
	return h.Int64s(xDims).
		Int64s(yDims).
		Bool(transX).
		Bool(transY).
		DataType(dtype).
		Sum()
}
