package ion

import "fmt"

// A Type is the Ion type of a decoded value.
type Type uint8

const (
	// NoType is the zero Type, reported before a Cursor's first Next call.
	NoType Type = iota

	// NullType is the type of the untyped Ion null value.
	NullType

	// BoolType is the type of an Ion boolean, true or false.
	BoolType

	// IntType is the type of a signed Ion integer of arbitrary size.
	IntType

	// FloatType is the type of an IEEE-754 binary32 or binary64 Ion float.
	FloatType

	// DecimalType is the type of an arbitrary-precision Ion decimal.
	DecimalType

	// TimestampType is the type of an Ion timestamp.
	TimestampType

	// SymbolType is the type of an Ion symbol, stored as a symbol-table id.
	SymbolType

	// StringType is the type of a Unicode string.
	StringType

	// ClobType is the type of a character large object.
	ClobType

	// BlobType is the type of a binary large object.
	BlobType

	// ListType is the type of an ordered, heterogeneous sequence of values.
	ListType

	// SexpType is the type of an s-expression: a ListType with lisp-like text syntax.
	SexpType

	// StructType is the type of a sequence of field-name/value pairs.
	StructType
)

// String implements fmt.Stringer for Type.
func (t Type) String() string {
	switch t {
	case NoType:
		return "<no type>"
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case DecimalType:
		return "decimal"
	case TimestampType:
		return "timestamp"
	case SymbolType:
		return "symbol"
	case StringType:
		return "string"
	case ClobType:
		return "clob"
	case BlobType:
		return "blob"
	case ListType:
		return "list"
	case SexpType:
		return "sexp"
	case StructType:
		return "struct"
	default:
		return fmt.Sprintf("<unknown type %v>", uint8(t))
	}
}

// isContainer reports whether values of this type can be stepped into.
func (t Type) isContainer() bool {
	return t == ListType || t == SexpType || t == StructType
}

// IntSize classifies how large an IntType value turned out to be, so callers
// can pick read_i64 vs the big.Int path without trying both.
type IntSize uint8

const (
	// NullInt is the size reported for a null.int.
	NullInt IntSize = iota
	// Int32 fits losslessly in an int32.
	Int32
	// Int64 fits losslessly in an int64.
	Int64
	// BigInt requires arbitrary precision.
	BigInt
)

// String implements fmt.Stringer for IntSize.
func (i IntSize) String() string {
	switch i {
	case NullInt:
		return "null.int"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case BigInt:
		return "big.Int"
	default:
		return fmt.Sprintf("<unknown size %v>", uint8(i))
	}
}
