package model

// ByteOrder is the schema-wide wire byte order.
type ByteOrder string

const (
	LittleEndian ByteOrder = "littleEndian"
	BigEndian    ByteOrder = "bigEndian"
)

// PrimitiveType is one of SBE's eleven primitive encodings.
type PrimitiveType string

const (
	Uint8  PrimitiveType = "uint8"
	Int8   PrimitiveType = "int8"
	Uint16 PrimitiveType = "uint16"
	Int16  PrimitiveType = "int16"
	Uint32 PrimitiveType = "uint32"
	Int32  PrimitiveType = "int32"
	Uint64 PrimitiveType = "uint64"
	Int64  PrimitiveType = "int64"
	Char   PrimitiveType = "char"
	Float  PrimitiveType = "float"
	Double PrimitiveType = "double"
)

// Presence is per-field optionality. Type and Ref treat the zero value
// Presence("") as Required in Equal, IsOptional and Signature.
type Presence string

const (
	Constant Presence = "constant"
	Required Presence = "required"
	Optional Presence = "optional"
)

// IsOptional reports whether p marks a field as optional for bag-
// comparison purposes. Constant and Required are both non-optional.
func (p Presence) IsOptional() bool {
	return p == Optional
}

// CharacterEncoding is the text encoding of a character-array Type.
type CharacterEncoding string

const (
	ASCII CharacterEncoding = "ASCII"
	UTF8  CharacterEncoding = "UTF-8"
)
