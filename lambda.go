package boolector

// Alpha-equivalence-aware hashing and comparison for binder nodes
// (spec.md §4.1's lambda hashing rule, §4.5). Grounded on
// original_source/src/btorexp.c's compute_hash_exp special case for
// BTOR_LAMBDA_NODE and its find_lambda_exp/compare_lambda_exp pair; expressed
// here as a substitution-map structural walk rather than the C code's
// pointer-juggling, since Go has no analogue of temporarily aliasing a node's
// id to perform the comparison in place.

// alphaHashWalk folds a subterm of a lambda body into a single hash that is
// invariant to renaming of the lambda's own bound parameter (spec.md §4.1):
//   - the bound parameter itself contributes a fixed marker, not its id;
//   - any other parameter contributes only its kind, and is recorded in free;
//   - a nested lambda contributes its own cached alpha hash plus its kind and
//     its bound parameter's kind, without re-walking its body;
//   - a node with no parameter anywhere beneath it contributes its id, since
//     two such nodes can only be alpha-equivalent by being identical;
//   - any other parameterized node contributes its kind plus its children's
//     folded hashes.
func alphaHashWalk(n *Node, bound *Node, memo map[*Node]uint32, free map[*Node]struct{}) uint32 {
	n = resolveNode(n)
	if hv, ok := memo[n]; ok {
		return hv
	}

	var hv uint32
	switch {
	case n == bound:
		hv = 0x9e3779b1
	case n.kind == KindParam:
		free[n] = struct{}{}
		hv = uint32(n.kind)*2654435761 + 7
	case n.kind == KindLambda:
		lp := n.payload.(lambdaPayload)
		for fp := range lp.freeParams {
			if fp != bound {
				free[fp] = struct{}{}
			}
		}
		paramKind := n.e[0].Node.kind
		hv = lp.alphaHash*31 + uint32(n.kind)*17 + uint32(paramKind)
	case !n.parameterized:
		hv = n.id*2654435761 + 0x1000193
	default:
		hv = uint32(n.kind) * 97
		for i := uint8(0); i < n.arity; i++ {
			c := n.e[i]
			ch := alphaHashWalk(c.Node, bound, memo, free)
			if c.Inverted {
				ch = ^ch
			}
			hv = hv*33 + ch
		}
	}

	memo[n] = hv
	return hv
}

// computeAlphaHash returns body's alpha-invariant hash under bound, plus the
// set of parameters other than bound that occur free in it (spec.md §9's
// "free parameters" bookkeeping, stored on lambdaPayload).
func computeAlphaHash(body Edge, bound *Node) (uint32, map[*Node]struct{}) {
	memo := make(map[*Node]uint32)
	free := make(map[*Node]struct{})
	h := alphaHashWalk(body.Node, bound, memo, free)
	if body.Inverted {
		h = ^h
	}
	return h, free
}

// lambdaBodiesEqual walks two bodies in lockstep under a substitution mapping
// a-side bound parameters to their b-side counterparts, extending the map one
// binder at a time through curried lambda chains (spec.md §4.5). Shared
// substructure (an==bn, no substitution needed) short-circuits to true.
func lambdaBodiesEqual(a, b Edge, sub map[*Node]*Node) bool {
	a, b = Resolve(a), Resolve(b)
	if a.Inverted != b.Inverted {
		return false
	}
	an, bn := a.Node, b.Node

	if mapped, ok := sub[an]; ok {
		return mapped == bn
	}
	if an == bn {
		return true
	}
	if an.kind != bn.kind || an.sort != bn.sort {
		return false
	}

	switch an.kind {
	case KindVar, KindUf, KindParam:
		// These kinds are deliberately not hash-consed (constructors_primitive.go),
		// so distinct calls produce distinct live nodes of the same kind and
		// sort. An unmapped one only matches an identical node, handled above;
		// falling through to the arity loop below would wrongly return true
		// for any two such nodes here since they all have arity 0.
		return false
	case KindConst:
		return an.payload.(constPayload).bits.Equal(bn.payload.(constPayload).bits)
	case KindSlice:
		if an.payload.(sliceInfo) != bn.payload.(sliceInfo) {
			return false
		}
		return lambdaBodiesEqual(an.e[0], bn.e[0], sub)
	case KindLambda:
		extended := make(map[*Node]*Node, len(sub)+1)
		for k, v := range sub {
			extended[k] = v
		}
		extended[an.e[0].Node] = bn.e[0].Node
		return lambdaBodiesEqual(an.e[1], bn.e[1], extended)
	default:
		if an.arity != bn.arity {
			return false
		}
		for i := uint8(0); i < an.arity; i++ {
			if !lambdaBodiesEqual(an.e[i], bn.e[i], sub) {
				return false
			}
		}
		return true
	}
}

// rhoEntry is one static-rho cache row: the argument-tuple node the row is
// keyed by (kept alive internally so its id stays meaningful as a key -- an
// unreferenced Args node would otherwise be deallocated and a later
// structurally identical tuple would hash-cons to a fresh id that misses
// the cache entirely) and the value it maps to.
type rhoEntry struct {
	args  *Node
	value Edge
}

// seedStaticRho records that lam, applied to args, is known to equal v --
// the static-rho cache spec.md §4.7's write-as-lambda encoding seeds so a
// later Apply on that exact index can be resolved without walking the
// lambda's cond chain. Both args and v are retained internally (mirrors
// connectChild -- not a client-facing handle); the caller keeps whatever
// external ownership of args it already had.
func (ctx *Context) seedStaticRho(lam *Node, args, v Edge) {
	lp := lam.payload.(lambdaPayload)
	retain(args.Node)
	retain(v.Node)
	lp.rho = lp.rho.Set(uint64(args.Node.id), rhoEntry{args: args.Node, value: v})
	lam.payload = lp
}

// lookupStaticRho returns the cached value for args' id, if any.
func lookupStaticRho(lam *Node, argsID uint32) (Edge, bool) {
	lp := lam.payload.(lambdaPayload)
	v, ok := lp.rho.Get(uint64(argsID))
	if !ok {
		return Edge{}, false
	}
	return v.(rhoEntry).value, true
}

// releaseStaticRho drops the references held by every cached row in a
// lambda's rho -- both the keying argument tuple and the cached value --
// called during deallocation (spec.md §4.4's "free local payload ...
// function-rho cache").
func releaseStaticRho(ctx *Context, lp lambdaPayload, worklist *[]*Node) {
	itr := lp.rho.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return
		}
		e := v.(rhoEntry)
		dropRef(e.args, worklist)
		dropRef(e.value.Node, worklist)
	}
}

// compareLambda reports whether an existing lambda node is alpha-equivalent
// to a candidate (param, body) pair: it extends the substitution with the
// two lambdas' own binders and walks their bodies in lockstep.
func compareLambda(existing *Node, param *Node, body Edge) bool {
	if existing.e[0].Node.sort != param.sort {
		return false
	}
	sub := map[*Node]*Node{param: existing.e[0].Node}
	return lambdaBodiesEqual(body, existing.e[1], sub)
}
