package ion

// Type codes, the high nibble of a value's header byte.
const (
	tcNull       = 0x0
	tcBool       = 0x1
	tcPosInt     = 0x2
	tcNegInt     = 0x3
	tcFloat      = 0x4
	tcDecimal    = 0x5
	tcTimestamp  = 0x6
	tcSymbol     = 0x7
	tcString     = 0x8
	tcClob       = 0x9
	tcBlob       = 0xA
	tcList       = 0xB
	tcSexp       = 0xC
	tcStruct     = 0xD
	tcAnnotation = 0xE
	tcReserved   = 0xF
)

// header is a precomputed decode of one of the 256 possible header
// bytes. The table is built once at package init
// and shared by every Cursor, exactly as the design note allows.
type header struct {
	typ        Type
	typeCode   byte
	lengthCode byte
	valid      bool
	// negative is true only for NegativeInteger (type code 3): Int bodies
	// need a sign, which the header alone (not the type) carries.
	negative bool
}

var headerTable [256]header

func init() {
	for b := 0; b < 256; b++ {
		headerTable[b] = decodeHeaderByte(byte(b))
	}
}

func decodeHeaderByte(b byte) header {
	typeCode := b >> 4
	lengthCode := b & 0x0F

	h := header{typeCode: typeCode, lengthCode: lengthCode}

	switch typeCode {
	case tcNull:
		// Length code 0x0F is null.null; every other length code is NOP
		// padding of that many bytes (0-13 literal, 14 VarUInt-length),
		// never surfaced as a Value — the cursor skips it and continues.
		h.typ = NullType
		h.valid = true
	case tcBool:
		h.typ = BoolType
		// 0x0E (VarUInt length) makes no sense for a 0-or-1-bit value;
		// only 0 (false), 1 (true), and 15 (null) are valid.
		h.valid = lengthCode == 0x00 || lengthCode == 0x01 || lengthCode == 0x0F
	case tcPosInt:
		h.typ = IntType
		h.valid = true
	case tcNegInt:
		h.typ = IntType
		h.negative = true
		h.valid = true
	case tcFloat:
		h.typ = FloatType
		h.valid = lengthCode == 0x00 || lengthCode == 0x04 || lengthCode == 0x08 || lengthCode == 0x0F
	case tcDecimal:
		h.typ = DecimalType
		h.valid = true
	case tcTimestamp:
		h.typ = TimestampType
		h.valid = true
	case tcSymbol:
		h.typ = SymbolType
		h.valid = true
	case tcString:
		h.typ = StringType
		h.valid = true
	case tcClob:
		h.typ = ClobType
		h.valid = true
	case tcBlob:
		h.typ = BlobType
		h.valid = true
	case tcList:
		h.typ = ListType
		h.valid = true
	case tcSexp:
		h.typ = SexpType
		h.valid = true
	case tcStruct:
		h.typ = StructType
		// Length code 1 is the length-sorted-struct marker; it and 14 both
		// mean "VarUInt length follows".
		h.valid = true
	case tcAnnotation:
		h.typ = NoType
		// Length code 0 is special-cased by the cursor as an embedded IVM
		// continuation, not a real annotation wrapper; both are "valid"
		// bytes, just handled differently by Cursor.Next.
		h.valid = true
	default: // tcReserved
		h.valid = false
	}

	return h
}
