package boolector

import "math"

// retain bumps a node's internal refcount. Called whenever an edge is
// wired into a new parent's child slot (connectChild) -- that edge is an
// independent hold distinct from whatever reference the caller who built
// it still owns (spec.md §4.4's "copy: increment refs").
func retain(n *Node) {
	assertf(n.refs < math.MaxUint32, "node %d: reference counter overflow", n.id)
	n.refs++
}

// retainExt bumps both the internal and external refcount together: used
// for every handle a constructor hands back to its caller, whether freshly
// allocated or found by a unique-table hit (spec.md §4.2: "create-on-lookup
// with ref-bump on hit").
func retainExt(n *Node) {
	assertf(n.refs < math.MaxUint32, "node %d: reference counter overflow", n.id)
	assertf(n.extRefs < math.MaxUint32, "node %d: external reference counter overflow", n.id)
	n.refs++
	n.extRefs++
}

// Copy increments h's reference count and returns h unchanged -- the
// Context-level analogue of retainExt, for a client that wants to hold two
// independent references to one handle.
func (ctx *Context) Copy(h Edge) Edge {
	retainExt(h.Node)
	return h
}

// releaseNode drops one internal reference. When it reaches zero the node
// enters the iterative releaser (spec.md §4.4): the releaser never
// recurses directly into releaseNode, so term chains of arbitrary depth
// cannot blow the call stack.
func releaseNode(ctx *Context, n *Node) {
	assertf(n.refs > 0, "node %d: reference counter underflow", n.id)
	n.refs--
	if n.refs == 0 {
		ctx.cascadeRelease(n)
	}
}

// Release drops one external reference to h and, transitively, one
// internal reference. Releasing a handle the caller does not hold (extRefs
// already zero) is a contract violation.
func (ctx *Context) Release(h Edge) {
	n := h.Node
	assertf(n.extRefs > 0, "node %d: released with no outstanding external reference", n.id)
	n.extRefs--
	releaseNode(ctx, n)
}

// cascadeRelease walks an explicit worklist -- never the call stack -- to
// tear down n and every descendant whose last reference n's death drops in
// turn (spec.md §4.4, §5, §9).
func (ctx *Context) cascadeRelease(root *Node) {
	ctx.cascadeReleaseWorklist([]*Node{root})
}

// cascadeReleaseWorklist drains a worklist of nodes already known to have
// zero references, deallocating each and queuing whatever that drop frees
// in turn. Used directly by ConvertToProxy, which seeds the worklist with
// nodes freed by a proxy's dropped static-rho holds.
func (ctx *Context) cascadeReleaseWorklist(worklist []*Node) {
	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		ctx.deallocateOne(n, &worklist)
	}
}

// deallocateOne reclaims a single node whose refcount has just reached
// zero: it leaves the unique table, drops its local payload, drops its
// side-table entries, disconnects (and transitively queues) its children,
// and is finally marked invalid and removed from the id table.
func (ctx *Context) deallocateOne(n *Node, worklist *[]*Node) {
	assertf(n.refs == 0, "deallocateOne: node %d still referenced", n.id)

	ctx.ut.remove(n)
	if n.kind == KindLambda {
		if lp, ok := n.payload.(lambdaPayload); ok {
			releaseStaticRho(ctx, lp, worklist)
		}
	}
	ctx.removeFromSideMaps(n)

	arity := n.arity
	for i := uint8(0); i < arity; i++ {
		child := n.e[i].Node
		disconnectChild(n, i)
		dropRef(child, worklist)
	}

	if n.simplified != nil {
		c := n.simplified.Node
		n.simplified = nil
		dropRef(c, worklist)
	}

	if n.symbol != "" {
		ctx.symbols.remove(n.symbol)
		n.symbol = ""
	}

	n.payload = nil
	n.erased = true
	n.disconnected = true
	n.kind = KindInvalid

	if int(n.id) < len(ctx.ids) {
		ctx.ids[n.id] = nil
	}
}

// dropRef decrements child's refcount by one (representing the parent
// edge that just went away) and queues it for the same treatment if that
// was its last reference.
func dropRef(child *Node, worklist *[]*Node) {
	assertf(child.refs > 0, "node %d: reference counter underflow during cascade", child.id)
	child.refs--
	if child.refs == 0 {
		*worklist = append(*worklist, child)
	}
}

func (ctx *Context) removeFromSideMaps(n *Node) {
	switch n.kind {
	case KindLambda:
		delete(ctx.lambdas, n.id)
		if p, ok := n.payload.(lambdaPayload); ok && p.body.Node != nil {
			if param := n.e[0].Node; param != nil {
				if pp, ok := param.payload.(paramPayload); ok && pp.binding == n {
					pp.binding = nil
					param.payload = pp
				}
			}
		}
	case KindUf:
		delete(ctx.ufs, n.id)
	case KindVar:
		delete(ctx.vars, n.id)
	case KindFunEq:
		delete(ctx.funEqs, n.id)
	}
}
