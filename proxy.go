package boolector

// ConvertToProxy supersedes old in place: old's id stays valid and every
// handle still pointing at it keeps working, but every query transparently
// resolves through to replacement from now on (spec.md §4.8, invariants
// 6-7). Grounded on original_source/src/btorexp.c's btor_set_to_proxy_exp,
// which detaches a node from the unique table and its children, frees its
// kind-specific payload, and leaves behind a forwarding pointer (there
// called e[0]) rather than deleting the node outright.
//
// old must not already be a proxy and must not be replacement itself.
// ConvertToProxy takes ownership of one reference to replacement (the
// proxy's forwarding edge); callers that also want to keep their own
// handle to replacement should Copy it first.
func (ctx *Context) ConvertToProxy(old *Node, replacement Edge) {
	assertf(!old.IsProxy(), "convertToProxy: node %d is already a proxy", old.id)
	assertf(old != replacement.Node, "convertToProxy: node %d cannot proxy to itself", old.id)

	ctx.ut.remove(old)

	if old.kind == KindLambda {
		if lp, ok := old.payload.(lambdaPayload); ok {
			var worklist []*Node
			releaseStaticRho(ctx, lp, &worklist)
			ctx.cascadeReleaseWorklist(worklist)
		}
	}

	for i := uint8(0); i < old.arity; i++ {
		child := old.e[i].Node
		disconnectChild(old, i)
		releaseNode(ctx, child)
	}
	old.arity = 0

	ctx.removeFromSideMaps(old)
	old.payload = nil
	old.kind = KindProxy
	old.simplified = &Edge{Node: replacement.Node, Inverted: replacement.Inverted}

	// The forwarding edge is a structural hold like a child edge, not a
	// client-facing handle: downgrade the external reference this function
	// took ownership of into the internal-only one deallocateOne's dropRef
	// expects to find and release when the proxy itself is torn down.
	assertf(replacement.Node.extRefs > 0, "convertToProxy: replacement has no external reference to take ownership of")
	replacement.Node.extRefs--
}
