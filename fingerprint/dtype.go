package fingerprint

import (
	"fmt"
	"strings"
)

// DataType is the element type tag of an operator's tensors.
type DataType uint8

const (
	Undefined DataType = iota
	Bool
	Uint8
	Int8
	Int16
	Int32
	Int64
	Float16
	BFloat16
	Float32
	Float64
	Complex64
	Complex128
)

var dataTypeNames = [...]string{
	Undefined:  "undefined",
	Bool:       "bool",
	Uint8:      "uint8",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Float16:    "float16",
	BFloat16:   "bfloat16",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
}

// String returns the lower-case name of the data type.
func (d DataType) String() string {
	if int(d) < len(dataTypeNames) {
		return dataTypeNames[d]
	}
	return fmt.Sprintf("datatype(%d)", uint8(d))
}

// Hash64 returns the numeric tag.
func (d DataType) Hash64() uint64 { return uint64(d) }

// ParseDataType parses a data type name, case-insensitively.
func ParseDataType(s string) (DataType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range dataTypeNames {
		if n == name {
			return DataType(i), nil
		}
	}
	return Undefined, fmt.Errorf("fingerprint: unknown data type %q", s)
}
