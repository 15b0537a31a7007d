package dom

// NameRef is an index into a document's symbol table. Node payloads embed
// the reference rather than the name itself. NameRefNone marks a name that
// has not been interned.
type NameRef = int32

const NameRefNone NameRef = -1

// SymbolTable interns the qualified names of one document. References are
// dense and stable: a name keeps its reference for the life of the document
// and the table only ever grows.
//
// The table is append only during ingest and read only afterwards. The
// single-writer-per-document rule makes that safe without locking; the
// ingest path owns the document write lock while it interns.
type SymbolTable struct {
	names []QName
	refs  map[QName]NameRef
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{refs: make(map[QName]NameRef)}
}

// Intern returns the reference for the name, assigning the next free one if
// the name has not been seen before. The full triple including the prefix
// is interned, so a stored element round-trips its prefix.
func (st *SymbolTable) Intern(name QName) NameRef {
	if ref, ok := st.refs[name]; ok {
		return ref
	}
	ref := NameRef(len(st.names))
	st.names = append(st.names, name)
	st.refs[name] = ref
	return ref
}

// Lookup resolves a reference read from a node payload. The second return
// is false for NameRefNone and for references past the end of the table.
func (st *SymbolTable) Lookup(ref NameRef) (QName, bool) {
	if ref < 0 || int(ref) >= len(st.names) {
		return QName{}, false
	}
	return st.names[ref], true
}

// Len returns the number of interned names.
func (st *SymbolTable) Len() int { return len(st.names) }

// Names returns the interned names in reference order. It is the persisted
// form of the table; RestoreSymbolTable rebuilds from it.
func (st *SymbolTable) Names() []QName {
	return append([]QName(nil), st.names...)
}

// RestoreSymbolTable rebuilds a table from its persisted name list. The
// reference of each name is its position in the list.
func RestoreSymbolTable(names []QName) *SymbolTable {
	st := NewSymbolTable()
	for _, name := range names {
		st.Intern(name)
	}
	return st
}
