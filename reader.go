package ion

import (
	"bufio"
	"io"
	"math/big"
)

// Reader wraps a Cursor and adds automatic absorption of local symbol
// tables, resolution of symbol ids to text, field-symbol resolution, and
// an optional DOM materializer.
type Reader struct {
	cursor *Cursor
	symtab *SymbolTable
}

// NewReader constructs a Reader over an io.Reader, consuming and
// validating the leading Ion Version Marker.
func NewReader(in io.Reader) (*Reader, error) {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return newReaderOverSource(newReaderSource(br))
}

// NewReaderBytes constructs a Reader over an in-memory buffer, which
// additionally supports fast Skip and Checkpoint/Restore.
func NewReaderBytes(buf []byte) (*Reader, error) {
	return newReaderOverSource(newBytesSource(buf))
}

func newReaderOverSource(src ByteSource) (*Reader, error) {
	c, err := NewCursor(src)
	if err != nil {
		return nil, err
	}
	return &Reader{cursor: c, symtab: NewSymbolTable()}, nil
}

// SymbolTable returns the Reader's current symbol table.
func (r *Reader) SymbolTable() *SymbolTable { return r.symtab }

// Depth returns the current parent-stack depth.
func (r *Reader) Depth() int { return r.cursor.Depth() }

// Type returns the type of the current value, or NoType before the first
// Next call.
func (r *Reader) Type() Type { return r.cursor.IonType() }

// IsNull reports whether the current value is a typed null.
func (r *Reader) IsNull() bool { return r.cursor.IsNull() }

// FieldID returns the current value's raw struct field id, bypassing
// resolution.
func (r *Reader) FieldID() (int64, bool) { return r.cursor.FieldID() }

// FieldToken resolves the current value's struct field id against the
// symbol table, returning a SymbolToken that carries whatever text is
// currently resolvable.
func (r *Reader) FieldToken() (SymbolToken, bool) {
	id, ok := r.cursor.FieldID()
	if !ok {
		return SymbolToken{}, false
	}
	return r.symtab.token(id), true
}

// AnnotationIDs returns the current value's annotation symbol ids,
// bypassing resolution.
func (r *Reader) AnnotationIDs() []int64 { return r.cursor.AnnotationIDs() }

// AnnotationTokens resolves the current value's annotation symbol ids
// against the symbol table.
func (r *Reader) AnnotationTokens() ([]SymbolToken, error) {
	ids := r.cursor.AnnotationIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]SymbolToken, len(ids))
	for i, id := range ids {
		out[i] = r.symtab.token(id)
	}
	return out, nil
}

// ReadSymbolID reads the current value's symbol id without resolving it
// to text.
func (r *Reader) ReadSymbolID() (int64, bool, error) { return r.cursor.ReadSymbolID() }

// ReadSymbol reads the current value's symbol id and resolves it to
// text. An id that the symbol table cannot resolve is a decoding error,
// since the caller explicitly asked for text.
func (r *Reader) ReadSymbol() (SymbolToken, error) {
	id, ok, err := r.cursor.ReadSymbolID()
	if err != nil {
		return SymbolToken{}, err
	}
	if !ok {
		return SymbolToken{}, nil
	}
	text, known := r.symtab.Resolve(id)
	if !known {
		return SymbolToken{}, &SyntaxError{Msg: "unresolvable symbol id", Offset: r.cursor.BytesRead()}
	}
	return newSymbolToken(text, id), nil
}

// IntSize classifies how large the current int value is, so a caller can
// pick ReadInt64 vs ReadBigInt ahead of time.
func (r *Reader) IntSize() (IntSize, error) { return r.cursor.IntSize() }

// The typed accessors below delegate to the underlying cursor; symbol
// resolution is the only read the Reader layers anything on top of.

// ReadNull reports whether the current value is a typed null, and if so,
// its declared type.
func (r *Reader) ReadNull() (Type, bool) { return r.cursor.ReadNull() }

// ReadBool reads the current value as a bool.
func (r *Reader) ReadBool() (bool, bool, error) { return r.cursor.ReadBool() }

// ReadInt64 reads the current value as an int64.
func (r *Reader) ReadInt64() (int64, bool, error) { return r.cursor.ReadInt64() }

// ReadBigInt reads the current value as an arbitrary-precision integer.
func (r *Reader) ReadBigInt() (*big.Int, bool, error) { return r.cursor.ReadBigInt() }

// ReadFloat32 reads the current value as a float32.
func (r *Reader) ReadFloat32() (float32, bool, error) { return r.cursor.ReadFloat32() }

// ReadFloat64 reads the current value as a float64.
func (r *Reader) ReadFloat64() (float64, bool, error) { return r.cursor.ReadFloat64() }

// ReadBigDecimal reads the current value as a Decimal.
func (r *Reader) ReadBigDecimal() (*Decimal, bool, error) { return r.cursor.ReadBigDecimal() }

// ReadTimestamp reads the current value as a Timestamp.
func (r *Reader) ReadTimestamp() (Timestamp, bool, error) { return r.cursor.ReadTimestamp() }

// ReadString reads the current value as a UTF-8 string.
func (r *Reader) ReadString() (string, bool, error) { return r.cursor.ReadString() }

// ReadBlobBytes reads the current value's raw bytes (BlobType).
func (r *Reader) ReadBlobBytes() ([]byte, bool, error) { return r.cursor.ReadBlobBytes() }

// ReadClobBytes reads the current value's raw bytes (ClobType).
func (r *Reader) ReadClobBytes() ([]byte, bool, error) { return r.cursor.ReadClobBytes() }

// StringRefMap invokes fn on the current string's bytes without copying
// them when they're already contiguous in the source's peek buffer.
func (r *Reader) StringRefMap(fn func([]byte) interface{}) (interface{}, bool, error) {
	return r.cursor.StringRefMap(fn)
}

// BlobRefMap is StringRefMap's counterpart for BlobType.
func (r *Reader) BlobRefMap(fn func([]byte) interface{}) (interface{}, bool, error) {
	return r.cursor.BlobRefMap(fn)
}

// ClobRefMap is StringRefMap's counterpart for ClobType.
func (r *Reader) ClobRefMap(fn func([]byte) interface{}) (interface{}, bool, error) {
	return r.cursor.ClobRefMap(fn)
}

// StepIn enters the current container.
func (r *Reader) StepIn() error {
	r.cursor.StepIn()
	return nil
}

// StepOut exits the innermost container.
func (r *Reader) StepOut() error { return r.cursor.StepOut() }

// Checkpoint takes a full snapshot of the Reader's state: the Cursor's
// position plus the symbol table as it stood at that position.
func (r *Reader) Checkpoint() ReaderState {
	return ReaderState{cursor: r.cursor.Checkpoint(), symtab: r.symtab.clone()}
}

// Restore replaces the Reader's state with a previously taken checkpoint.
func (r *Reader) Restore(s ReaderState) error {
	if err := r.cursor.Restore(s.cursor); err != nil {
		return err
	}
	r.symtab = s.symtab.clone()
	return nil
}

// ReaderState is a full, plain-data snapshot of a Reader, usable as a
// checkpoint over a seekable source.
type ReaderState struct {
	cursor CursorState
	symtab *SymbolTable
}

// Next advances the Reader to the next stream item, transparently
// absorbing any local symbol table it encounters along the way. The
// caller never observes a SymbolTableImportItem; only VersionMarker and
// ValueItem are ever returned.
func (r *Reader) Next() (StreamItem, bool, error) {
	for {
		item, ok, err := r.cursor.Next()
		if err != nil {
			return NoItem, false, err
		}
		if !ok {
			return NoItem, false, nil
		}

		switch item {
		case VersionMarker:
			// The cursor resets its own version pair; resetting the
			// symbol table is purely the Reader's concern.
			r.symtab.Reset()
			return VersionMarker, true, nil
		case SymbolTableImportItem:
			if err := r.absorbSymbolTable(); err != nil {
				return NoItem, false, err
			}
			continue
		default:
			return ValueItem, true, nil
		}
	}
}

// absorbSymbolTable processes the struct the cursor is positioned on as a
// local symbol table: it steps in, dispatches each field by id, and steps
// back out, leaving the cursor positioned after the struct. The new
// symbols are buffered and only installed once the struct closes, because
// field order is not guaranteed: a `symbols` field may precede the
// `imports` field that decides whether the prior table survives. A table
// whose `imports` field is the `$ion_symbol_table` self-append marker
// extends the current table; any other table replaces it, resetting down
// to the system symbols first.
func (r *Reader) absorbSymbolTable() error {
	r.cursor.StepIn()

	var syms []*string
	appending := false

	for {
		item, ok, err := r.cursor.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if item != ValueItem {
			continue
		}

		fieldID, hasField := r.cursor.FieldID()
		if !hasField {
			continue
		}

		switch fieldID {
		case fieldIDImports:
			appending, err = r.readImportsField()
			if err != nil {
				return err
			}
		case fieldIDSymbols:
			syms, err = r.readSymbolsField()
			if err != nil {
				return err
			}
		default:
			// Other fields: skip.
		}
	}

	if err := r.cursor.StepOut(); err != nil {
		return err
	}

	if !appending {
		r.symtab.Reset()
	}
	for _, s := range syms {
		r.symtab.Intern(s)
	}
	return nil
}

// readImportsField handles the `imports` field of a local symbol table
// struct, reporting whether it is the `$ion_symbol_table` self-append
// marker. Any other shape (a list of shared imports, or something else
// entirely) is permitted and ignored; shared-table imports aren't
// supported, and a table that doesn't self-append replaces the current
// one.
func (r *Reader) readImportsField() (bool, error) {
	if r.cursor.IonType() == SymbolType && !r.cursor.IsNull() {
		id, _, err := r.cursor.ReadSymbolID()
		if err != nil {
			return false, err
		}
		return id == 3, nil
	}
	// List of shared imports, or any other shape: ignored.
	return false, nil
}

// readSymbolsField collects the `symbols` field of a local symbol table
// struct: each String child contributes its text, and every non-string or
// null child contributes a null-text placeholder.
func (r *Reader) readSymbolsField() ([]*string, error) {
	if r.cursor.IonType() != ListType || r.cursor.IsNull() {
		return nil, nil
	}

	var syms []*string
	r.cursor.StepIn()
	for {
		item, ok, err := r.cursor.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if item != ValueItem {
			syms = append(syms, nil)
			continue
		}

		if r.cursor.IonType() == StringType && !r.cursor.IsNull() {
			s, _, err := r.cursor.ReadString()
			if err != nil {
				return nil, err
			}
			syms = append(syms, &s)
		} else {
			syms = append(syms, nil)
		}
	}
	if err := r.cursor.StepOut(); err != nil {
		return nil, err
	}
	return syms, nil
}
