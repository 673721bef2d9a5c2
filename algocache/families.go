package algocache

// Algorithm family names. Each family has one key function in the
// fingerprint package and one cache in a Registry.
const (
	FamilyConvForward        = "conv_forward"         // fingerprint.ConvKey
	FamilyConvBackwardData   = "conv_backward_data"   // fingerprint.ConvKey
	FamilyConvBackwardFilter = "conv_backward_filter" // fingerprint.ConvKey
	FamilyTranspose          = "transpose"            // fingerprint.TransposeKey
	FamilyMatmul             = "matmul"               // fingerprint.MatmulKey
)

// Families lists the built-in family names.
var Families = []string{
	FamilyConvForward,
	FamilyConvBackwardData,
	FamilyConvBackwardFilter,
	FamilyTranspose,
	FamilyMatmul,
}
