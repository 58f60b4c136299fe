package boolector

// connectChild links parent's slot-th child edge to child's parent list
// (spec.md §4.3). Most kinds prepend so the newest consumer is found
// first; Apply parents append, so a traversal reaches the function before
// its argument tuple (spec.md §4.3, grounded on
// original_source/src/btorexp.c's connect_child_exp special-casing
// BTOR_APPLY_NODE).
func connectChild(parent *Node, slot uint8, e Edge) {
	parent.e[slot] = e
	child := e.Node
	child.parentCount++
	retain(child)

	if parent.kind == KindApply {
		appendParent(child, parent, slot)
	} else {
		prependParent(child, parent, slot)
	}
}

func prependParent(child *Node, parent *Node, slot uint8) {
	ref := parentRef{node: parent, slot: slot}

	if child.firstParent.empty() {
		// Empty list.
		child.firstParent = ref
		child.lastParent = ref
		parent.prevParent[slot] = parentRef{}
		parent.nextParent[slot] = parentRef{}
		return
	}

	old := child.firstParent
	parent.nextParent[slot] = old
	parent.prevParent[slot] = parentRef{}
	setPrev(old, ref)
	child.firstParent = ref
}

func appendParent(child *Node, parent *Node, slot uint8) {
	ref := parentRef{node: parent, slot: slot}

	if child.lastParent.empty() {
		child.firstParent = ref
		child.lastParent = ref
		parent.prevParent[slot] = parentRef{}
		parent.nextParent[slot] = parentRef{}
		return
	}

	old := child.lastParent
	parent.prevParent[slot] = old
	parent.nextParent[slot] = parentRef{}
	setNext(old, ref)
	child.lastParent = ref
}

// disconnectChild removes parent's slot-th child edge from that child's
// parent list, handling the four splice cases: empty (unreachable, caller
// guarantees parent is in the list), head, tail, interior (spec.md §4.3).
func disconnectChild(parent *Node, slot uint8) {
	e := parent.e[slot]
	child := e.Node
	assertf(child.parentCount > 0, "parentlist: disconnect on child with no parents")
	child.parentCount--

	self := parentRef{node: parent, slot: slot}
	prev := parent.prevParent[slot]
	next := parent.nextParent[slot]

	switch {
	case child.firstParent == self && child.lastParent == self:
		// Only parent in the list.
		child.firstParent = parentRef{}
		child.lastParent = parentRef{}
	case child.firstParent == self:
		child.firstParent = next
		setPrev(next, parentRef{})
	case child.lastParent == self:
		child.lastParent = prev
		setNext(prev, parentRef{})
	default:
		setNext(prev, next)
		setPrev(next, prev)
	}

	parent.prevParent[slot] = parentRef{}
	parent.nextParent[slot] = parentRef{}
	parent.e[slot] = Edge{}
}

func setPrev(ref, v parentRef) {
	if ref.empty() {
		return
	}
	ref.node.prevParent[ref.slot] = v
}

func setNext(ref, v parentRef) {
	if ref.empty() {
		return
	}
	ref.node.nextParent[ref.slot] = v
}

// Parents calls fn for every live parent referencing n as a child, in
// list order (spec.md's "downstream passes can traverse a term's
// consumers in O(1)" per hop).
func (n *Node) Parents(fn func(parent *Node, slot uint8)) {
	for ref := n.firstParent; !ref.empty(); {
		next := ref.node.nextParent[ref.slot]
		fn(ref.node, ref.slot)
		ref = next
	}
}
