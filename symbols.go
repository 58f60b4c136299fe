package boolector

// symbolTable maps user-assigned symbol names to the node currently
// carrying that name (spec.md §4.7: vars, ufs and lambda parameters may
// carry an optional symbol, and a symbol must name at most one live node
// at a time). Grounded on the same name->owner bookkeeping
// robinvdvleuten-beancount's Interner and chazu-maggie's SymbolTable use
// for interning, adapted here to track node ownership rather than string
// identity -- a Context is single-threaded (spec.md §5), so unlike
// chazu-maggie's SymbolTable this carries no mutex.
type symbolTable struct {
	byName map[string]*Node
}

func newSymbolTable() *symbolTable {
	return &symbolTable{byName: make(map[string]*Node)}
}

// bind assigns name to n. Rebinding an already-used name is a contract
// violation and panics.
func (st *symbolTable) bind(name string, n *Node) {
	assertf(name != "", "symboltable: cannot bind empty symbol")
	_, exists := st.byName[name]
	assertf(!exists, "symboltable: symbol %q already in use", name)
	st.byName[name] = n
	n.symbol = name
}

func (st *symbolTable) lookup(name string) (*Node, bool) {
	n, ok := st.byName[name]
	return n, ok
}

func (st *symbolTable) remove(name string) {
	delete(st.byName, name)
}
