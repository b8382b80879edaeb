package ion

// UnknownSID is the symbol id reported when a token's id is unknown (only
// its text is known).
const UnknownSID = -1

// SymbolToken pairs a symbol's resolved text (if any) with the numeric id
// it was encoded with. Text is nil when the id could not be resolved
// against the current SymbolTable.
type SymbolToken struct {
	Text *string
	SID  int64
}

// Equal reports whether two tokens refer to the same symbol: by text if
// both have text, by id if neither does. A token with text never equals
// one without.
func (s SymbolToken) Equal(o SymbolToken) bool {
	if s.Text != nil && o.Text != nil {
		return *s.Text == *o.Text
	}
	if s.Text == nil && o.Text == nil {
		return s.SID == o.SID
	}
	return false
}

func newSymbolToken(text *string, sid int64) SymbolToken {
	return SymbolToken{Text: text, SID: sid}
}
