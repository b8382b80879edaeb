package ion

import "math/big"

// Value is a materialized DOM node: an envelope carrying the field
// symbol (inside a struct), the ordered annotation symbols, and the
// variant itself. Exactly one of the typed fields below is meaningful,
// selected by Type; containers additionally populate Items.
type Value struct {
	Type        Type
	IsNull      bool
	Field       *SymbolToken
	Annotations []SymbolToken

	Bool      bool
	Int       *big.Int
	Float     float64
	Decimal   *Decimal
	Timestamp Timestamp
	Symbol    SymbolToken
	String    string
	Bytes     []byte // Blob or Clob
	Items     []Value
}

// Len returns the number of children of a container Value. It is 0 for
// scalars and for null containers.
func (v *Value) Len() int {
	return len(v.Items)
}

// ionDOMValue materializes the value the Reader is currently positioned
// on. It dispatches on type and, for non-null
// containers, steps in and recursively materializes every child before
// stepping back out.
func (r *Reader) ionDOMValue() (Value, error) {
	v := Value{
		Type:   r.Type(),
		IsNull: r.IsNull(),
	}

	if f, ok := r.FieldToken(); ok {
		v.Field = &f
	}
	anns, err := r.AnnotationTokens()
	if err != nil {
		return Value{}, err
	}
	v.Annotations = anns

	if v.IsNull {
		return v, nil
	}

	switch v.Type {
	case BoolType:
		b, _, err := r.ReadBool()
		if err != nil {
			return Value{}, err
		}
		v.Bool = b
	case IntType:
		n, _, err := r.ReadBigInt()
		if err != nil {
			return Value{}, err
		}
		v.Int = n
	case FloatType:
		f, _, err := r.ReadFloat64()
		if err != nil {
			return Value{}, err
		}
		v.Float = f
	case DecimalType:
		d, _, err := r.ReadBigDecimal()
		if err != nil {
			return Value{}, err
		}
		v.Decimal = d
	case TimestampType:
		ts, _, err := r.ReadTimestamp()
		if err != nil {
			return Value{}, err
		}
		v.Timestamp = ts
	case SymbolType:
		tok, err := r.ReadSymbol()
		if err != nil {
			return Value{}, err
		}
		v.Symbol = tok
	case StringType:
		s, _, err := r.ReadString()
		if err != nil {
			return Value{}, err
		}
		v.String = s
	case BlobType:
		b, _, err := r.ReadBlobBytes()
		if err != nil {
			return Value{}, err
		}
		v.Bytes = b
	case ClobType:
		b, _, err := r.ReadClobBytes()
		if err != nil {
			return Value{}, err
		}
		v.Bytes = b
	case ListType, SexpType, StructType:
		if err := r.StepIn(); err != nil {
			return Value{}, err
		}
		for {
			_, ok, err := r.Next()
			if err != nil {
				return Value{}, err
			}
			if !ok {
				break
			}
			child, err := r.ionDOMValue()
			if err != nil {
				return Value{}, err
			}
			v.Items = append(v.Items, child)
		}
		if err := r.StepOut(); err != nil {
			return Value{}, err
		}
	}

	return v, nil
}

// DOMValue materializes the value the Reader is currently positioned on
// into a DOM Value. The Reader must be positioned
// on a value, i.e. the most recent call to Next must have returned true.
func (r *Reader) DOMValue() (Value, error) {
	return r.ionDOMValue()
}

// NextDOMValue advances the Reader and materializes the next top-level
// value. It is the lazy, single-step form: each
// call reads exactly one more top-level value from the stream, returning
// ok=false at end of stream. Calling it again after ok=false continues to
// return ok=false rather than restarting.
func (r *Reader) NextDOMValue() (Value, bool, error) {
	for {
		item, ok, err := r.Next()
		if err != nil || !ok {
			return Value{}, false, err
		}
		if item == VersionMarker {
			// A (possibly mid-stream) IVM carries no value of its own.
			continue
		}
		v, err := r.ionDOMValue()
		if err != nil {
			return Value{}, false, err
		}
		return v, true, nil
	}
}

// DOMValues drains NextDOMValue to completion, materializing every
// remaining top-level value in the stream in order. Like NextDOMValue,
// it is single-pass and
// non-restartable; calling it a second time returns an empty slice.
func (r *Reader) DOMValues() ([]Value, error) {
	var out []Value
	for {
		v, ok, err := r.NextDOMValue()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
