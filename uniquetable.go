package boolector

// Large odd constants used to fold child ids into a fingerprint (spec.md
// §4.1: "generic binary/ternary: Σᵢ pᵢ · child_id_i").
const (
	primeP0 uint32 = 2908886429
	primeP1 uint32 = 2073724421
	primeP2 uint32 = 1366525621
)

const uniqueTableMinSize = 8
const uniqueTableMaxLog2 = 30

// uniqueTable is an open-addressing-by-chain hash table keyed by structural
// fingerprint (spec.md §4.1). It is a plain array of chains -- power-of-two
// sized, doubled when the load factor reaches 1, capped so pathological
// growth terminates the process via resourceExhausted rather than paging
// forever.
type uniqueTable struct {
	buckets     []*Node
	numElements int
}

func newUniqueTable() *uniqueTable {
	return &uniqueTable{buckets: make([]*Node, uniqueTableMinSize)}
}

func childKey(e Edge) uint32 {
	k := e.Node.id * 2
	if e.Inverted {
		k++
	}
	return k
}

// computeFingerprint hashes a candidate node's shape. Lambda nodes are
// excluded -- their alpha-invariant hash is computed in lambda.go and
// cached on the node at creation, since it requires a deep body walk
// (spec.md §4.1, §9).
func computeFingerprint(kind Kind, e [3]Edge, arity uint8, payload interface{}) uint32 {
	switch kind {
	case KindConst:
		return payload.(constPayload).bits.Hash()
	case KindSlice:
		info := payload.(sliceInfo)
		return primeP0*childKey(e[0]) + primeP1*uint32(info.upper) + primeP2*uint32(info.lower)
	default:
		h := uint32(kind)*0x9e3779b1 + 1
		primes := [3]uint32{primeP0, primeP1, primeP2}
		for i := 0; i < int(arity); i++ {
			h += primes[i] * childKey(e[i])
		}
		return h
	}
}

func nodeMatchesPrimitive(n *Node, kind Kind, sort SortID, e [3]Edge, arity uint8, payload interface{}) bool {
	if n.kind != kind || n.sort != sort || n.arity != arity {
		return false
	}
	for i := 0; i < int(arity); i++ {
		if n.e[i] != e[i] {
			return false
		}
	}
	switch kind {
	case KindConst:
		return n.payload.(constPayload).bits.Equal(payload.(constPayload).bits)
	case KindSlice:
		return n.payload.(sliceInfo) == payload.(sliceInfo)
	default:
		return true
	}
}

// find returns the existing node matching the candidate shape, or nil plus
// the fingerprint the caller should stamp on a freshly allocated node.
func (ut *uniqueTable) find(kind Kind, sort SortID, e [3]Edge, arity uint8, payload interface{}) (*Node, uint32) {
	h := computeFingerprint(kind, e, arity, payload)
	idx := h & uint32(len(ut.buckets)-1)
	for n := ut.buckets[idx]; n != nil; n = n.nextInChain {
		if n.fingerprint == h && nodeMatchesPrimitive(n, kind, sort, e, arity, payload) {
			return n, h
		}
	}
	return nil, h
}

// insert installs a freshly allocated node (n.fingerprint already set by
// the caller, from find's second return value).
func (ut *uniqueTable) insert(n *Node) {
	if ut.numElements >= len(ut.buckets) {
		if log2Ceil(len(ut.buckets)) >= uniqueTableMaxLog2 {
			resourceExhausted("unique table at maximum size")
		}
		ut.grow()
	}
	idx := n.fingerprint & uint32(len(ut.buckets)-1)
	n.nextInChain = ut.buckets[idx]
	ut.buckets[idx] = n
	n.unique = true
	ut.numElements++
}

// remove detaches n from its chain (spec.md §4.8's proxy conversion, and
// ordinary deallocation both call this).
func (ut *uniqueTable) remove(n *Node) {
	if !n.unique {
		return
	}
	idx := n.fingerprint & uint32(len(ut.buckets)-1)
	cur := ut.buckets[idx]
	if cur == n {
		ut.buckets[idx] = n.nextInChain
	} else {
		for cur != nil && cur.nextInChain != n {
			cur = cur.nextInChain
		}
		assertf(cur != nil, "uniquetable: node %d not found in its chain", n.id)
		cur.nextInChain = n.nextInChain
	}
	n.nextInChain = nil
	n.unique = false
	ut.numElements--
}

// findLambda scans the chain at hash h for a node accepted by match,
// bypassing the generic child-id comparison in nodeMatchesPrimitive since
// lambda identity is alpha-equivalence, not child equality (spec.md §4.1,
// §4.5).
func (ut *uniqueTable) findLambda(h uint32, match func(*Node) bool) *Node {
	idx := h & uint32(len(ut.buckets)-1)
	for n := ut.buckets[idx]; n != nil; n = n.nextInChain {
		if n.kind == KindLambda && n.fingerprint == h && match(n) {
			return n
		}
	}
	return nil
}

func (ut *uniqueTable) grow() {
	newSize := len(ut.buckets) * 2
	newBuckets := make([]*Node, newSize)
	for _, head := range ut.buckets {
		for n := head; n != nil; {
			next := n.nextInChain
			idx := n.fingerprint & uint32(newSize-1)
			n.nextInChain = newBuckets[idx]
			newBuckets[idx] = n
			n = next
		}
	}
	ut.buckets = newBuckets
}

// uniqueTableStats is a snapshot of the table's size and load, used only by
// Context.DebugDump.
type uniqueTableStats struct {
	Buckets     int
	NumElements int
}

func (ut *uniqueTable) stats() uniqueTableStats {
	return uniqueTableStats{Buckets: len(ut.buckets), NumElements: ut.numElements}
}

func log2Ceil(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}
