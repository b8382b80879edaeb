package ion

// systemSymbols are the nine Ion 1.0 system symbols, preloaded at indices
// 1..9 of every fresh SymbolTable.
var systemSymbols = [9]string{
	"$ion",
	"$ion_1_0",
	"$ion_symbol_table",
	"name",
	"version",
	"imports",
	"symbols",
	"max_id",
	"$ion_shared_symbol_table",
}

// Field ids of the well-known fields of a local symbol table struct,
// assigned by their position among the system symbols above.
const (
	fieldIDImports = 6
	fieldIDSymbols = 7
)

// SymbolTable is a mutable, 1-based index of optional text entries.
// Index 0 always denotes "unknown text". A fresh table is preloaded with
// the nine Ion 1.0 system symbols at indices 1..9; Intern appends beyond
// that.
type SymbolTable struct {
	texts []*string // texts[0] is always nil; texts[id] is entry id.
}

// NewSymbolTable returns a table preloaded with just the system symbols.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{texts: make([]*string, 1, 16)}
	for i := range systemSymbols {
		s := systemSymbols[i]
		t.texts = append(t.texts, &s)
	}
	return t
}

// Reset restores the table to just the system symbols, discarding any
// locally interned symbols. Called when the reader observes a new IVM
// mid-stream.
func (t *SymbolTable) Reset() {
	*t = *NewSymbolTable()
}

// Len returns the number of entries in the table, including index 0 and
// the system symbols.
func (t *SymbolTable) Len() int {
	return len(t.texts)
}

// Intern appends a new entry and returns its 1-based id. text may be nil,
// which interns a null-text placeholder.
func (t *SymbolTable) Intern(text *string) int64 {
	t.texts = append(t.texts, text)
	return int64(len(t.texts) - 1)
}

// Resolve looks up an id, returning its text and whether the id is known
// at all. An id of 0 is always "known but textless"; an id beyond the
// table's current length is unknown.
func (t *SymbolTable) Resolve(id int64) (text *string, known bool) {
	if id == 0 {
		return nil, true
	}
	if id < 0 || int(id) >= len(t.texts) {
		return nil, false
	}
	return t.texts[id], true
}

// Each calls fn for every entry in the table in id order, starting at
// id 1. text is nil for entries whose text is unknown.
func (t *SymbolTable) Each(fn func(id int64, text *string)) {
	for id := 1; id < len(t.texts); id++ {
		fn(int64(id), t.texts[id])
	}
}

// clone returns a deep copy of the table, usable as part of a Reader
// checkpoint.
func (t *SymbolTable) clone() *SymbolTable {
	texts := make([]*string, len(t.texts))
	copy(texts, t.texts)
	return &SymbolTable{texts: texts}
}

// token builds a SymbolToken for id, carrying whatever text (if any) is
// currently resolvable. Used internally by Reader for annotations and
// field names, where an unresolvable id is tolerated until the caller
// actually asks for text (read_symbol).
func (t *SymbolTable) token(id int64) SymbolToken {
	text, _ := t.Resolve(id)
	return newSymbolToken(text, id)
}
