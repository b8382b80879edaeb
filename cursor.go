package ion

import (
	"encoding/binary"
	"errors"
	"math"
	"math/big"
	"unicode/utf8"
)

// StreamItem is the unit produced by a Cursor step.
type StreamItem uint8

const (
	// NoItem means Next found nothing more at the current depth; the
	// caller must StepOut to continue, or has reached end of stream.
	NoItem StreamItem = iota
	// VersionMarker is a (possibly mid-stream) Ion Version Marker.
	VersionMarker
	// ValueItem is an ordinary value: scalar, container-start, or null.
	ValueItem
	// SymbolTableImportItem is a struct annotated with system symbol 3
	// ($ion_symbol_table), surfaced distinctly so a Reader can absorb it.
	SymbolTableImportItem
)

// CursorValue describes the value a Cursor is currently positioned on.
type CursorValue struct {
	typ          Type
	header       header
	isNull       bool
	boolValue    bool
	length       uint64
	lastByte     uint64
	indexAtDepth uint64
	fieldID      int64
	hasFieldID   bool
	annotations  []int64
}

// Type returns the Ion type of the current value.
func (v *CursorValue) Type() Type { return v.typ }

// IsNull reports whether the current value is a typed null.
func (v *CursorValue) IsNull() bool { return v.isNull }

// IndexAtDepth reports how many siblings (including this one) have been
// visited at the current depth.
func (v *CursorValue) IndexAtDepth() uint64 { return v.indexAtDepth }

// FieldID reports the current value's struct field id, if any.
func (v *CursorValue) FieldID() (int64, bool) { return v.fieldID, v.hasFieldID }

// AnnotationIDs returns the current value's annotation symbol ids, in
// encoding order.
func (v *CursorValue) AnnotationIDs() []int64 { return v.annotations }

// parentFrame is one entry of a Cursor's explicit parent stack. Keeping
// the stack as data, rather than recursing, makes skip-over and step-out
// constant-stack and lets Checkpoint snapshot it wholesale.
type parentFrame struct {
	typ               Type
	lastByte          uint64
	savedIndexAtDepth uint64
}

// CursorState is a full, plain-data snapshot of a Cursor, valid as a
// checkpoint: a deep copy captures the entire state.
type CursorState struct {
	versionMajor, versionMinor int
	bytesRead                  uint64
	indexAtDepth               uint64
	cur                        CursorValue
	stack                      []parentFrame
}

// Cursor is a low-level, pull-based state machine over a binary Ion byte
// source.
type Cursor struct {
	src     ByteSource
	scratch []byte

	versionMajor, versionMinor int
	bytesRead                  uint64
	indexAtDepth               uint64

	stack []parentFrame
	cur   CursorValue

	bodyConsumed bool
}

// NewCursor constructs a Cursor over src, consuming and validating the
// leading Ion Version Marker.
func NewCursor(src ByteSource) (*Cursor, error) {
	c := &Cursor{src: src, versionMajor: 1, versionMinor: 0}

	var buf [4]byte
	if err := src.ReadExact(buf[:]); err != nil {
		return nil, err
	}
	c.bytesRead = 4
	if buf != ivm {
		return nil, &UnsupportedVersionError{Major: int(buf[1]), Minor: int(buf[2]), Offset: 4}
	}
	return c, nil
}

// Depth returns the current parent-stack depth.
func (c *Cursor) Depth() int { return len(c.stack) }

// BytesRead returns the total number of bytes consumed from the source so
// far, usable by callers layered on top of the cursor (e.g. a Reader) for
// error offsets.
func (c *Cursor) BytesRead() uint64 { return c.bytesRead }

// InStruct reports whether the cursor is currently stepped into a struct.
func (c *Cursor) InStruct() bool {
	return len(c.stack) > 0 && c.stack[len(c.stack)-1].typ == StructType
}

// IonType returns the type of the current value, or NoType before the
// first Next call.
func (c *Cursor) IonType() Type { return c.cur.typ }

// IsNull reports whether the current value is a typed null.
func (c *Cursor) IsNull() bool { return c.cur.isNull }

// AnnotationIDs returns the current value's annotation symbol ids.
func (c *Cursor) AnnotationIDs() []int64 { return c.cur.annotations }

// FieldID returns the current value's struct field id, if any.
func (c *Cursor) FieldID() (int64, bool) { return c.cur.fieldID, c.cur.hasFieldID }

// Value returns a snapshot of the current CursorValue.
func (c *Cursor) Value() CursorValue { return c.cur }

// Next advances the cursor to the next stream item. It returns
// (item, true, nil) when positioned on something, or (_, false, nil) at
// the end of the current container/stream.
func (c *Cursor) Next() (StreamItem, bool, error) {
	if err := c.skipRemainder(); err != nil {
		return NoItem, false, err
	}

	c.bodyConsumed = false
	c.cur = CursorValue{}

	for {
		if len(c.stack) > 0 {
			parent := &c.stack[len(c.stack)-1]
			if c.bytesRead >= parent.lastByte {
				return NoItem, false, nil
			}
		} else {
			peek, err := c.src.Peek(1)
			if err != nil {
				return NoItem, false, err
			}
			if len(peek) == 0 {
				return NoItem, false, nil
			}
		}

		if c.InStruct() {
			id, n, err := readVarUint(c.src)
			if err != nil {
				return NoItem, false, err
			}
			c.bytesRead += n
			c.cur.fieldID = int64(id)
			c.cur.hasFieldID = true
		}

		h, err := c.readHeader()
		if err != nil {
			return NoItem, false, err
		}

		if h.typeCode == tcAnnotation {
			if h.lengthCode == 0x00 {
				if len(c.stack) != 0 {
					return NoItem, false, &SyntaxError{Msg: "invalid BVM in a container", Offset: c.bytesRead}
				}
				var rest [3]byte
				if err := c.src.ReadExact(rest[:]); err != nil {
					return NoItem, false, err
				}
				c.bytesRead += 3
				if rest != [3]byte{0x01, 0x00, 0xEA} {
					return NoItem, false, &UnsupportedVersionError{Major: int(rest[0]), Minor: int(rest[1]), Offset: c.bytesRead}
				}
				c.versionMajor, c.versionMinor = 1, 0
				c.indexAtDepth++
				c.cur = CursorValue{indexAtDepth: c.indexAtDepth}
				return VersionMarker, true, nil
			}

			if h.lengthCode == 0x0F {
				return NoItem, false, &InvalidTagByteError{Byte: byte(h.typeCode<<4) | h.lengthCode, Offset: c.bytesRead}
			}

			if _, err := c.readLength(h); err != nil {
				return NoItem, false, err
			}

			annLen, n, err := readVarUint(c.src)
			if err != nil {
				return NoItem, false, err
			}
			c.bytesRead += n
			if annLen == 0 {
				return NoItem, false, &SyntaxError{Msg: "annotation wrapper with no annotations", Offset: c.bytesRead}
			}

			var consumed uint64
			for consumed < annLen {
				id, n, err := readVarUint(c.src)
				if err != nil {
					return NoItem, false, err
				}
				c.bytesRead += n
				consumed += n
				c.cur.annotations = append(c.cur.annotations, int64(id))
			}

			h, err = c.readHeader()
			if err != nil {
				return NoItem, false, err
			}
			if h.typeCode == tcAnnotation {
				return NoItem, false, &SyntaxError{Msg: "annotation wraps another annotation", Offset: c.bytesRead}
			}
		}

		if h.typeCode == tcNull && h.lengthCode != 0x0F {
			// NOP padding: skip it and keep scanning for a real value.
			n, err := c.readLength(h)
			if err != nil {
				return NoItem, false, err
			}
			if err := c.skip(n); err != nil {
				return NoItem, false, err
			}
			c.cur.annotations = nil
			c.cur.hasFieldID = false
			continue
		}

		length, err := c.readLength(h)
		if err != nil {
			return NoItem, false, err
		}

		c.cur.typ = h.typ
		c.cur.header = h
		c.cur.isNull = h.lengthCode == 0x0F
		c.cur.length = length
		c.cur.lastByte = c.bytesRead + length
		if h.typeCode == tcBool {
			c.cur.boolValue = h.lengthCode == 0x01
		}

		c.indexAtDepth++
		c.cur.indexAtDepth = c.indexAtDepth

		if h.typ == StructType && !c.cur.isNull && len(c.cur.annotations) > 0 && c.cur.annotations[0] == 3 {
			return SymbolTableImportItem, true, nil
		}
		return ValueItem, true, nil
	}
}

// StepIn enters the current container. Stepping into a non-container
// or a null container is a contract violation.
func (c *Cursor) StepIn() {
	if !c.cur.typ.isContainer() {
		usage("step_in", "current value is not a container")
	}
	if c.cur.isNull {
		usage("step_in", "current value is a null container")
	}

	c.stack = append(c.stack, parentFrame{
		typ:               c.cur.typ,
		lastByte:          c.cur.lastByte,
		savedIndexAtDepth: c.indexAtDepth,
	})
	c.indexAtDepth = 0
	c.cur = CursorValue{}
}

// StepOut exits the innermost container. Stepping out of the root is a
// contract violation.
func (c *Cursor) StepOut() error {
	if len(c.stack) == 0 {
		usage("step_out", "already at top level")
	}

	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]

	if c.bytesRead < f.lastByte {
		if err := c.skip(f.lastByte - c.bytesRead); err != nil {
			return err
		}
	} else if c.bytesRead > f.lastByte {
		panic("ion: end greater than pos")
	}

	c.indexAtDepth = f.savedIndexAtDepth
	c.cur = CursorValue{typ: f.typ, lastByte: f.lastByte, indexAtDepth: c.indexAtDepth}
	c.bodyConsumed = true
	return nil
}

// Checkpoint takes a full, plain-data snapshot of the cursor's state,
// usable with Restore over a seekable source.
func (c *Cursor) Checkpoint() CursorState {
	stack := make([]parentFrame, len(c.stack))
	copy(stack, c.stack)
	anns := make([]int64, len(c.cur.annotations))
	copy(anns, c.cur.annotations)
	cur := c.cur
	cur.annotations = anns

	return CursorState{
		versionMajor: c.versionMajor,
		versionMinor: c.versionMinor,
		bytesRead:    c.bytesRead,
		indexAtDepth: c.indexAtDepth,
		cur:          cur,
		stack:        stack,
	}
}

// Restore replaces the cursor's state with a previously taken checkpoint
// and seeks the source to the checkpoint's byte offset. The source must
// implement Seeker.
func (c *Cursor) Restore(s CursorState) error {
	sk, ok := c.src.(Seeker)
	if !ok {
		return &IOError{Err: errNotSeekable}
	}
	if err := sk.SeekAbs(s.bytesRead); err != nil {
		return err
	}

	c.versionMajor = s.versionMajor
	c.versionMinor = s.versionMinor
	c.bytesRead = s.bytesRead
	c.indexAtDepth = s.indexAtDepth
	c.stack = make([]parentFrame, len(s.stack))
	copy(c.stack, s.stack)
	c.cur = s.cur
	c.cur.annotations = make([]int64, len(s.cur.annotations))
	copy(c.cur.annotations, s.cur.annotations)
	c.bodyConsumed = false
	return nil
}

var errNotSeekable = errors.New("byte source does not support seeking; cannot restore a checkpoint")

// --- internal helpers -------------------------------------------------

func (c *Cursor) skipRemainder() error {
	if c.cur.lastByte > c.bytesRead {
		return c.skip(c.cur.lastByte - c.bytesRead)
	}
	return nil
}

func (c *Cursor) skip(n uint64) error {
	if n == 0 {
		return nil
	}
	if sk, ok := c.src.(Skipper); ok {
		if err := sk.Skip(n); err != nil {
			return err
		}
		c.bytesRead += n
		return nil
	}
	buf := c.scratchOf(n)
	if err := c.src.ReadExact(buf); err != nil {
		return err
	}
	c.bytesRead += n
	return nil
}

func (c *Cursor) scratchOf(n uint64) []byte {
	if uint64(cap(c.scratch)) < n {
		size := uint64(scratchInitialSize)
		for size < n {
			size *= 2
		}
		c.scratch = make([]byte, size)
	}
	return c.scratch[:n]
}

func (c *Cursor) readHeader() (header, error) {
	var b [1]byte
	if err := c.src.ReadExact(b[:]); err != nil {
		return header{}, err
	}
	c.bytesRead++
	h := headerTable[b[0]]
	if !h.valid {
		return header{}, &InvalidTagByteError{Byte: b[0], Offset: c.bytesRead}
	}
	return h, nil
}

// readLength resolves a header's length-in-bytes per the per-type
// length-code rules, consuming a trailing VarUInt length if the length
// code calls for one.
func (c *Cursor) readLength(h header) (uint64, error) {
	switch h.typeCode {
	case tcBool:
		return 0, nil
	case tcFloat:
		if h.lengthCode == 0x00 || h.lengthCode == 0x0F {
			return 0, nil
		}
		return uint64(h.lengthCode), nil
	case tcStruct:
		switch h.lengthCode {
		case 0x0F:
			return 0, nil
		case 0x01, 0x0E:
			n, sz, err := readVarUint(c.src)
			if err != nil {
				return 0, err
			}
			c.bytesRead += sz
			return n, nil
		default:
			return uint64(h.lengthCode), nil
		}
	default:
		switch h.lengthCode {
		case 0x0F:
			return 0, nil
		case 0x0E:
			n, sz, err := readVarUint(c.src)
			if err != nil {
				return 0, err
			}
			c.bytesRead += sz
			return n, nil
		default:
			return uint64(h.lengthCode), nil
		}
	}
}

func (c *Cursor) assertReadOnce(api string) {
	if c.cur.length != 0 && c.bodyConsumed {
		usage(api, "value already read")
	}
}

// markRead records that the current value's body has been fully consumed
// from the source, advancing bytesRead by its declared length so the next
// Next() doesn't try to skip bytes a typed read already moved past.
func (c *Cursor) markRead() {
	c.bytesRead += c.cur.length
	if c.cur.length != 0 {
		c.bodyConsumed = true
	}
}

// --- typed reads -------------------------------------------------

// ReadNull reports whether the current value is a typed null, and if so,
// its declared type.
func (c *Cursor) ReadNull() (Type, bool) {
	if !c.cur.isNull {
		return NoType, false
	}
	return c.cur.typ, true
}

// ReadBool reads the current value as a bool.
func (c *Cursor) ReadBool() (bool, bool, error) {
	if c.cur.typ != BoolType || c.cur.isNull {
		return false, false, nil
	}
	c.assertReadOnce("read_bool")
	c.markRead()
	return c.cur.boolValue, true, nil
}

func (c *Cursor) readIntMagnitude() (*big.Int, error) {
	if c.cur.length <= 8 {
		v, err := readUint(c.src, c.cur.length)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(v), nil
	}
	return readBigUint(c.src, c.cur.length)
}

// ReadInt64 reads the current value as an int64. Values too large for
// int64 fail with a Decoding error; use ReadBigInt for those.
func (c *Cursor) ReadInt64() (int64, bool, error) {
	if c.cur.typ != IntType || c.cur.isNull {
		return 0, false, nil
	}
	c.assertReadOnce("read_i64")

	mag, err := c.readIntMagnitude()
	if err != nil {
		return 0, false, err
	}
	c.markRead()

	if c.cur.header.negative && mag.Sign() != 0 {
		mag = new(big.Int).Neg(mag)
	}
	if !mag.IsInt64() {
		return 0, false, &SyntaxError{Msg: "integer too large for int64", Offset: c.bytesRead}
	}
	return mag.Int64(), true, nil
}

// IntSize classifies how large the current int value is, without consuming
// it, so a caller can pick ReadInt64 vs ReadBigInt ahead of time.
func (c *Cursor) IntSize() (IntSize, error) {
	if c.cur.typ != IntType {
		return NullInt, &SyntaxError{Msg: "current value is not an int", Offset: c.bytesRead}
	}
	if c.cur.isNull {
		return NullInt, nil
	}

	signed, ok, err := c.peekIntMagnitudeSign()
	if err != nil {
		return NullInt, err
	}
	if !ok {
		// The body isn't fully in the peek buffer; BigInt is always a
		// safe (if sometimes pessimistic) classification, and avoids a
		// physical read here that ReadInt64/ReadBigInt would repeat.
		return BigInt, nil
	}

	if !signed.IsInt64() {
		return BigInt, nil
	}
	v := signed.Int64()
	if v > math.MaxInt32 || v < math.MinInt32 {
		return Int64, nil
	}
	return Int32, nil
}

// peekIntMagnitudeSign reports the current int's signed value without
// consuming it from the source, for IntSize's classification. ok is false
// when the body isn't fully present in the source's peek buffer; the
// caller falls back to a conservative classification rather than forcing a
// physical read that ReadInt64/ReadBigInt would then have to repeat.
func (c *Cursor) peekIntMagnitudeSign() (signed *big.Int, ok bool, err error) {
	n := int(c.cur.length)
	peeked, err := c.src.Peek(n)
	if err != nil {
		return nil, false, err
	}
	if len(peeked) < n {
		return nil, false, nil
	}
	mag := new(big.Int).SetBytes(peeked[:n])
	if c.cur.header.negative && mag.Sign() != 0 {
		mag = new(big.Int).Neg(mag)
	}
	return mag, true, nil
}

// ReadBigInt reads the current value as an arbitrary-precision integer.
func (c *Cursor) ReadBigInt() (*big.Int, bool, error) {
	if c.cur.typ != IntType || c.cur.isNull {
		return nil, false, nil
	}
	c.assertReadOnce("read_big_int")

	mag, err := c.readIntMagnitude()
	if err != nil {
		return nil, false, err
	}
	c.markRead()

	if c.cur.header.negative && mag.Sign() != 0 {
		mag = new(big.Int).Neg(mag)
	}
	return mag, true, nil
}

func (c *Cursor) readFloatBits() (float64, error) {
	switch c.cur.length {
	case 0:
		return 0, nil
	case 4:
		buf := [4]byte{}
		if err := c.src.ReadExact(buf[:]); err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(buf[:]))), nil
	case 8:
		buf := [8]byte{}
		if err := c.src.ReadExact(buf[:]); err != nil {
			return 0, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
	default:
		panic("ion: invalid float length escaped header validation")
	}
}

// ReadFloat64 reads the current value as a float64.
func (c *Cursor) ReadFloat64() (float64, bool, error) {
	if c.cur.typ != FloatType || c.cur.isNull {
		return 0, false, nil
	}
	c.assertReadOnce("read_f64")
	v, err := c.readFloatBits()
	if err != nil {
		return 0, false, err
	}
	c.markRead()
	return v, true, nil
}

// ReadFloat32 reads the current value as a float32. Reading an 8-byte
// Float this way is a documented lossy narrowing.
func (c *Cursor) ReadFloat32() (float32, bool, error) {
	if c.cur.typ != FloatType || c.cur.isNull {
		return 0, false, nil
	}
	c.assertReadOnce("read_f32")
	v, err := c.readFloatBits()
	if err != nil {
		return 0, false, err
	}
	c.markRead()
	return float32(v), true, nil
}

// ReadBigDecimal reads the current value as a Decimal: a VarInt exponent
// followed by an Int coefficient.
func (c *Cursor) ReadBigDecimal() (*Decimal, bool, error) {
	if c.cur.typ != DecimalType || c.cur.isNull {
		return nil, false, nil
	}
	c.assertReadOnce("read_big_decimal")

	if c.cur.length == 0 {
		c.markRead()
		return NewDecimalExp(big.NewInt(0), 0), true, nil
	}

	exp, _, n, err := readVarInt(c.src)
	if err != nil {
		return nil, false, err
	}
	remaining := c.cur.length - n

	coef, negZero, err := readBigInt(c.src, remaining)
	if err != nil {
		return nil, false, err
	}
	c.markRead()

	if negZero {
		return NewDecimalNegZero(int(exp)), true, nil
	}
	return NewDecimalExp(coef, int(exp)), true, nil
}

// readNsecs decodes a timestamp's optional trailing fractional-seconds
// field the same way the bits immediately after `second` are interpreted
// for a Decimal body: VarInt exponent + Int coefficient, here shifted to
// nanoseconds and truncated.
func (c *Cursor) readNsecs(remaining uint64) (int, uint64, error) {
	if remaining == 0 {
		return 0, 0, nil
	}

	exp, _, n, err := readVarInt(c.src)
	if err != nil {
		return 0, n, err
	}
	coef, _, err := readBigInt(c.src, remaining-n)
	if err != nil {
		return 0, remaining, err
	}

	d := NewDecimalExp(coef, int(exp)).ShiftL(9)
	var truncated *big.Int
	if d.Exponent() >= 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Exponent())), nil)
		truncated = new(big.Int).Mul(d.Coefficient(), scale)
	} else {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(-int64(d.Exponent())), nil)
		truncated = new(big.Int).Quo(d.Coefficient(), scale)
	}
	return int(truncated.Int64()), remaining, nil
}

// ReadTimestamp reads the current value as a Timestamp.
func (c *Cursor) ReadTimestamp() (Timestamp, bool, error) {
	if c.cur.typ != TimestampType || c.cur.isNull {
		return Timestamp{}, false, nil
	}
	c.assertReadOnce("read_datetime")

	if c.cur.length == 0 {
		return Timestamp{}, false, &SyntaxError{Msg: "empty timestamp body", Offset: c.bytesRead}
	}

	var consumed uint64

	offMin, offNegZero, n, err := readVarInt(c.src)
	if err != nil {
		return Timestamp{}, false, err
	}
	consumed += n

	tz := TimezoneLocal
	if offMin == 0 {
		if offNegZero {
			tz = TimezoneUnspecified
		} else {
			tz = TimezoneUTC
		}
	}

	year, n, err := readVarUint(c.src)
	if err != nil {
		return Timestamp{}, false, err
	}
	consumed += n
	precision := TimestampPrecisionYear

	month, day, hour, minute, second, nsec := uint64(1), uint64(1), uint64(0), uint64(0), uint64(0), 0

	readField := func() (uint64, bool, error) {
		if consumed >= c.cur.length {
			return 0, false, nil
		}
		v, n, err := readVarUint(c.src)
		if err != nil {
			return 0, false, err
		}
		consumed += n
		return v, true, nil
	}

	if v, ok, err := readField(); err != nil {
		return Timestamp{}, false, err
	} else if ok {
		month = v
		precision = TimestampPrecisionMonth
		if v, ok, err := readField(); err != nil {
			return Timestamp{}, false, err
		} else if ok {
			day = v
			precision = TimestampPrecisionDay
			if v, ok, err := readField(); err != nil {
				return Timestamp{}, false, err
			} else if ok {
				hour = v
				precision = TimestampPrecisionMinute
				if v, ok, err := readField(); err != nil {
					return Timestamp{}, false, err
				} else if !ok {
					return Timestamp{}, false, &SyntaxError{Msg: "hour cannot be present without minute", Offset: c.bytesRead}
				} else {
					minute = v
				}
				if v, ok, err := readField(); err != nil {
					return Timestamp{}, false, err
				} else if ok {
					second = v
					precision = TimestampPrecisionSecond
					if consumed < c.cur.length {
						ns, nn, err := c.readNsecs(c.cur.length - consumed)
						if err != nil {
							return Timestamp{}, false, err
						}
						consumed += nn
						nsec = ns
						precision = TimestampPrecisionNanosecond
					}
				}
			}
		}
	}

	c.markRead()

	ts := NewTimestamp(int(year), int(month), int(day), int(hour), int(minute), int(second), nsec, int(offMin), tz, precision)
	return ts, true, nil
}

// ReadSymbolID reads the current value's symbol id without resolving it
// to text; resolution is the Reader's job.
func (c *Cursor) ReadSymbolID() (int64, bool, error) {
	if c.cur.typ != SymbolType || c.cur.isNull {
		return 0, false, nil
	}
	c.assertReadOnce("read_symbol_id")
	id, err := readUint(c.src, c.cur.length)
	if err != nil {
		return 0, false, err
	}
	c.markRead()
	return int64(id), true, nil
}

// body returns the current value's payload bytes, from the source's peek
// buffer when fully present there (zero-copy) or from the cursor's reusable
// scratch buffer otherwise. The
// returned slice is borrowed either way: it is only valid until the next
// operation on the cursor or its source.
func (c *Cursor) body() ([]byte, error) {
	n := int(c.cur.length)
	if n == 0 {
		return nil, nil
	}

	peeked, err := c.src.Peek(n)
	if err != nil {
		return nil, err
	}
	if len(peeked) >= n {
		out := peeked[:n]
		if err := c.src.Consume(n); err != nil {
			return nil, err
		}
		return out, nil
	}

	buf := c.scratchOf(uint64(n))
	if err := c.src.ReadExact(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads the current value as a UTF-8 string.
func (c *Cursor) ReadString() (string, bool, error) {
	if c.cur.typ != StringType || c.cur.isNull {
		return "", false, nil
	}
	c.assertReadOnce("read_string")
	buf, err := c.body()
	if err != nil {
		return "", false, err
	}
	c.markRead()
	if !isValidUTF8(buf) {
		return "", false, &UnexpectedTokenError{Token: "<invalid utf-8>", Offset: c.bytesRead}
	}
	return string(buf), true, nil
}

// ReadBlobBytes reads the current value's raw bytes (BlobType).
func (c *Cursor) ReadBlobBytes() ([]byte, bool, error) {
	if c.cur.typ != BlobType || c.cur.isNull {
		return nil, false, nil
	}
	c.assertReadOnce("read_blob_bytes")
	buf, err := c.body()
	if err != nil {
		return nil, false, err
	}
	c.markRead()
	return ownedCopy(buf), true, nil
}

// ReadClobBytes reads the current value's raw bytes (ClobType).
func (c *Cursor) ReadClobBytes() ([]byte, bool, error) {
	if c.cur.typ != ClobType || c.cur.isNull {
		return nil, false, nil
	}
	c.assertReadOnce("read_clob_bytes")
	buf, err := c.body()
	if err != nil {
		return nil, false, err
	}
	c.markRead()
	return ownedCopy(buf), true, nil
}

// ownedCopy detaches a borrowed body slice from the peek/scratch buffer it
// aliases, so the caller can hold on to it.
func ownedCopy(buf []byte) []byte {
	if len(buf) == 0 {
		return nil
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}

// StringRefMap invokes fn on the current string's bytes without copying
// them when they're already contiguous in the source's peek buffer.
func (c *Cursor) StringRefMap(fn func([]byte) interface{}) (interface{}, bool, error) {
	if c.cur.typ != StringType || c.cur.isNull {
		return nil, false, nil
	}
	c.assertReadOnce("string_ref_map")
	buf, err := c.body()
	if err != nil {
		return nil, false, err
	}
	c.markRead()
	if !isValidUTF8(buf) {
		return nil, false, &UnexpectedTokenError{Token: "<invalid utf-8>", Offset: c.bytesRead}
	}
	return fn(buf), true, nil
}

// BlobRefMap is StringRefMap's counterpart for BlobType.
func (c *Cursor) BlobRefMap(fn func([]byte) interface{}) (interface{}, bool, error) {
	if c.cur.typ != BlobType || c.cur.isNull {
		return nil, false, nil
	}
	c.assertReadOnce("blob_ref_map")
	buf, err := c.body()
	if err != nil {
		return nil, false, err
	}
	c.markRead()
	return fn(buf), true, nil
}

// ClobRefMap is StringRefMap's counterpart for ClobType.
func (c *Cursor) ClobRefMap(fn func([]byte) interface{}) (interface{}, bool, error) {
	if c.cur.typ != ClobType || c.cur.isNull {
		return nil, false, nil
	}
	c.assertReadOnce("clob_ref_map")
	buf, err := c.body()
	if err != nil {
		return nil, false, err
	}
	c.markRead()
	return fn(buf), true, nil
}

func isValidUTF8(buf []byte) bool {
	return utf8.Valid(buf)
}
