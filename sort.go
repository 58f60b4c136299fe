package boolector

import "fmt"

// SortKind distinguishes the handful of sort shapes the core understands.
// The sort table itself is an external collaborator in the original design
// (see SPEC_FULL.md); this is a minimal implementation of it since nothing
// else in the retrieval pack provides one.
type SortKind uint8

const (
	sortInvalid SortKind = iota
	sortBitVec
	sortFun
	sortTuple
)

// SortID is an opaque handle into a Context's sort table.
type SortID uint32

// invalidSort is never a valid handle; zero value of SortID.
const invalidSort SortID = 0

type sortRecord struct {
	kind SortKind

	width uint // bit-vector width

	domain   SortID // fun: argument tuple sort
	codomain SortID // fun: result sort
	isArray  bool   // fun: true if constructed via ArraySort

	elems []SortID // tuple: element sorts, arity capped by callers at 3-wide spines
}

// sortTable interns sort descriptions the way a symbol interner does,
// grounded on other_examples/robinvdvleuten-beancount__interner.go: a
// fingerprint map keyed by the record's shape, answering whether an
// equivalent sort already exists before allocating a new id.
type sortTable struct {
	records []sortRecord // index 0 unused (invalidSort)
	byKey   map[string]SortID
}

func newSortTable() *sortTable {
	return &sortTable{
		records: make([]sortRecord, 1, 64),
		byKey:   make(map[string]SortID, 64),
	}
}

func (t *sortTable) intern(key string, rec sortRecord) SortID {
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := SortID(len(t.records))
	t.records = append(t.records, rec)
	t.byKey[key] = id
	return id
}

// BitVecSort returns the sort id of a bit-vector of the given width.
func (t *sortTable) BitVecSort(width uint) SortID {
	assertf(width > 0, "sort: bit-vector width must be positive")
	return t.intern(fmt.Sprintf("bv:%d", width), sortRecord{kind: sortBitVec, width: width})
}

// TupleSort returns the sort id of an argument tuple over elems.
func (t *sortTable) TupleSort(elems ...SortID) SortID {
	key := "tuple:"
	for _, e := range elems {
		key += fmt.Sprintf("%d,", e)
	}
	rec := sortRecord{kind: sortTuple, elems: append([]SortID(nil), elems...)}
	return t.intern(key, rec)
}

// FunSort returns the sort id of a function from domain to codomain.
func (t *sortTable) FunSort(domain, codomain SortID) SortID {
	return t.intern(fmt.Sprintf("fun:%d->%d", domain, codomain), sortRecord{
		kind: sortFun, domain: domain, codomain: codomain,
	})
}

// ArraySort returns the sort id of an array from index to elem, a function
// sort with the is_array flag set (spec.md §9's open question: arrays and
// uninterpreted functions share a representation, distinguished by a flag).
func (t *sortTable) ArraySort(index, elem SortID) SortID {
	domain := t.TupleSort(index)
	key := fmt.Sprintf("array:%d->%d", index, elem)
	return t.intern(key, sortRecord{kind: sortFun, domain: domain, codomain: elem, isArray: true})
}

func (t *sortTable) rec(id SortID) *sortRecord {
	assertf(id > 0 && int(id) < len(t.records), "sort: invalid sort id %d", id)
	return &t.records[id]
}

// Width returns the bit-width of a bit-vector sort.
func (t *sortTable) Width(id SortID) uint {
	r := t.rec(id)
	assertf(r.kind == sortBitVec, "sort: Width called on non-bitvector sort")
	return r.width
}

// IsBitVec returns true if id is a bit-vector sort.
func (t *sortTable) IsBitVec(id SortID) bool { return t.rec(id).kind == sortBitVec }

// IsFun returns true if id is a function (or array) sort.
func (t *sortTable) IsFun(id SortID) bool { return t.rec(id).kind == sortFun }

// IsArray returns true if id is a function sort constructed via ArraySort.
func (t *sortTable) IsArray(id SortID) bool {
	r := t.rec(id)
	return r.kind == sortFun && r.isArray
}

// Domain returns the argument tuple sort of a function sort.
func (t *sortTable) Domain(id SortID) SortID {
	r := t.rec(id)
	assertf(r.kind == sortFun, "sort: Domain called on non-function sort")
	return r.domain
}

// Codomain returns the result sort of a function sort.
func (t *sortTable) Codomain(id SortID) SortID {
	r := t.rec(id)
	assertf(r.kind == sortFun, "sort: Codomain called on non-function sort")
	return r.codomain
}

// TupleArity returns the number of elements in a tuple sort.
func (t *sortTable) TupleArity(id SortID) int {
	r := t.rec(id)
	assertf(r.kind == sortTuple, "sort: TupleArity called on non-tuple sort")
	return len(r.elems)
}

// TupleElem returns the i-th element sort of a tuple sort.
func (t *sortTable) TupleElem(id SortID, i int) SortID {
	r := t.rec(id)
	assertf(r.kind == sortTuple, "sort: TupleElem called on non-tuple sort")
	assertf(i >= 0 && i < len(r.elems), "sort: tuple index out of range")
	return r.elems[i]
}

func (t *sortTable) String(id SortID) string {
	r := t.rec(id)
	switch r.kind {
	case sortBitVec:
		return fmt.Sprintf("bv%d", r.width)
	case sortFun:
		if r.isArray {
			return fmt.Sprintf("array(%s -> %s)", t.String(r.domain), t.String(r.codomain))
		}
		return fmt.Sprintf("fun(%s -> %s)", t.String(r.domain), t.String(r.codomain))
	case sortTuple:
		s := "("
		for i, e := range r.elems {
			if i > 0 {
				s += ", "
			}
			s += t.String(e)
		}
		return s + ")"
	default:
		return "<invalid sort>"
	}
}
