package boolector

import "github.com/benbjohnson/immutable"

// Edge is a handle: a reference to a Node plus the inversion bit carried on
// that edge (spec.md §3, §9). The public constructor API and every child
// slot pass Edge values; packing the bit into a pointer is the C
// implementation's performance tactic, not a semantic one (spec.md §9), so
// here it is a plain two-field struct.
type Edge struct {
	Node     *Node
	Inverted bool
}

// Real returns the canonical (non-inverted) node a handle refers to.
func Real(h Edge) *Node { return h.Node }

// IsInverted returns the inversion bit of a handle.
func IsInverted(h Edge) bool { return h.Inverted }

// Not returns the logical complement of h. Because inversion lives on the
// edge, this never allocates a node (spec.md §3).
func Not(h Edge) Edge { return Edge{Node: h.Node, Inverted: !h.Inverted} }

// parentRef is the tagged-pointer-style sum type spec.md §9 recommends for
// a parent-list entry: which parent, and which of its (up to three) child
// slots points back at the node owning this entry. The zero value (nil
// parent) represents "no entry."
type parentRef struct {
	node *Node
	slot uint8
}

func (p parentRef) empty() bool { return p.node == nil }

// constPayload is a Const node's value.
type constPayload struct {
	bits *BitVec
}

// sliceInfo is a Slice node's bit range, upper inclusive.
type sliceInfo struct {
	upper uint
	lower uint
}

// lambdaPayload carries a binder's body, its alpha-invariant structural
// hash (cached at creation per spec.md §9, since recomputing it walks the
// whole body), and its static rho: a persistent arg-tuple -> value cache
// seeded by write-as-lambda encodings (spec.md §4.7, §9's "static rho").
// The persistent map is the teacher's immutable.SortedMap usage
// (ExecutionState.heap), repurposed here so that cloning a lambda's rho
// during beta reduction never mutates an instance another holder shares.
type lambdaPayload struct {
	body       Edge
	alphaHash  uint32
	freeParams map[*Node]struct{} // parameters, other than the bound one, reachable in body
	rho        *immutable.SortedMap
}

// paramPayload carries a parameter's back-pointer to its binding lambda
// (spec.md §3 invariant 7) and, during a bounded beta reduction, the value
// it is temporarily assigned (spec.md §9's "assign before, release after"
// stack discipline).
type paramPayload struct {
	binding  *Node
	assigned *Node
}

// ufPayload carries an uninterpreted function's rho cache, same shape and
// purpose as a lambda's static rho.
type ufPayload struct {
	rho *immutable.SortedMap
}

// Node is a variable-layout DAG node (spec.md §3). All fields are kept on
// one struct for simplicity; kind-specific extras live in payload.
type Node struct {
	id    uint32
	kind  Kind
	sort  SortID
	arity uint8

	e [3]Edge // child edges, arity-many populated

	// Parent bookkeeping: this node is a child; these anchor the doubly
	// linked list of its parents (spec.md §4.3).
	firstParent parentRef
	lastParent  parentRef
	parentCount uint32

	// This node acting as a parent: per-slot links into each child's
	// parent list.
	prevParent [3]parentRef
	nextParent [3]parentRef

	refs    uint32
	extRefs uint32

	unique        bool
	erased        bool
	disconnected  bool
	parameterized bool
	lambdaBelow   bool
	applyBelow    bool
	isArray       bool

	// simplified is the forward pointer to a canonical replacement
	// (spec.md §3, "Simplified chain"). Once set it is never cleared;
	// every query chases it to a fixed point before reading any other
	// field (spec.md invariant 6).
	simplified *Edge

	symbol string

	// nextInChain links unique-table hash buckets (spec.md §4.1).
	nextInChain *Node
	fingerprint uint32 // cached hash of this node's (kind, sort, children, payload)

	payload interface{}
}

// ID returns the node's positive, monotonically assigned id. Zero is
// reserved for "invalid" (spec.md §3).
func (n *Node) ID() uint32 { return n.id }

// Kind returns the node's kind, chasing the simplified chain first so a
// proxy is never observed (spec.md invariant 6).
func (n *Node) Kind() Kind { return resolveNode(n).kind }

// Sort returns the node's sort id.
func (n *Node) Sort() SortID { return resolveNode(n).sort }

// Arity returns the node's child count.
func (n *Node) Arity() uint8 { return resolveNode(n).arity }

// Child returns the i-th child edge.
func (n *Node) Child(i int) Edge {
	r := resolveNode(n)
	assertf(i >= 0 && i < int(r.arity), "node: child index out of range")
	return r.e[i]
}

// Refs returns the internal reference count.
func (n *Node) Refs() uint32 { return n.refs }

// ExtRefs returns the external (client-held) reference count.
func (n *Node) ExtRefs() uint32 { return n.extRefs }

// ParentCount returns the number of live parents referencing n as a child.
func (n *Node) ParentCount() uint32 { return n.parentCount }

// Symbol returns the node's name, if any.
func (n *Node) Symbol() string { return n.symbol }

// ConstValue returns the value of a Const node. Panics (via assertf) if n is
// not a Const once resolved.
func (n *Node) ConstValue() *BitVec {
	r := resolveNode(n)
	assertf(r.kind == KindConst, "node: ConstValue called on a non-const node")
	return r.payload.(constPayload).bits
}

// SliceRange returns the inclusive (upper, lower) bit range of a Slice node.
func (n *Node) SliceRange() (upper, lower uint) {
	r := resolveNode(n)
	assertf(r.kind == KindSlice, "node: SliceRange called on a non-slice node")
	info := r.payload.(sliceInfo)
	return info.upper, info.lower
}

// IsProxy reports whether n has been converted to a proxy (spec.md §4.8).
// Unlike Kind, Sort, Arity and Child this does NOT chase the chain -- it
// exists precisely to let internals detect a proxy before chasing it.
func (n *Node) IsProxy() bool { return n.kind == KindProxy }

// resolveNode walks the simplified chain to its fixed point. Proxies are
// never returned by a constructor (invariant 6), but a long-lived handle
// captured before a rewrite must still resolve correctly.
func resolveNode(n *Node) *Node {
	for n.simplified != nil {
		n = n.simplified.Node
	}
	return n
}

// Resolve walks h's node through any proxy chain, composing the inversion
// bits accumulated along the way.
func Resolve(h Edge) Edge {
	n, inv := h.Node, h.Inverted
	for n.simplified != nil {
		if n.simplified.Inverted {
			inv = !inv
		}
		n = n.simplified.Node
	}
	return Edge{Node: n, Inverted: inv}
}
