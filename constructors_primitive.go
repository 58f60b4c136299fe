package boolector

// The primitive kernel: exactly the operator set spec.md §4.7 names as
// non-derived. Every other public operator (constructors_derived.go) is a
// fixed expansion over these, grounded on the teacher's NewBinaryExpr
// dispatch and its newAddExpr/newAndExpr/... constant-folding helpers
// (_examples/benbjohnson-glee/expr.go), generalized from the teacher's
// uint64-capped values to the arbitrary-width BitVec here and from its
// symbolic-execution semantics to hash-consed DAG construction.

// installPrimitive probes the unique table for (kind, sort, children,
// payload); on hit it bumps refcounts and returns the existing node, on
// miss it allocates, wires children via connectChild, and inserts
// (spec.md §4.1, §4.2).
func (ctx *Context) installPrimitive(kind Kind, sort SortID, children [3]Edge, arity uint8, payload interface{}) Edge {
	found, fp := ctx.ut.find(kind, sort, children, arity, payload)
	if found != nil {
		retainExt(found)
		return Edge{Node: found}
	}

	n := ctx.allocNode(kind, sort, arity)
	n.fingerprint = fp
	n.payload = payload
	for i := uint8(0); i < arity; i++ {
		c := children[i].Node
		if c.parameterized {
			n.parameterized = true
		}
		if c.lambdaBelow {
			n.lambdaBelow = true
		}
		if c.applyBelow {
			n.applyBelow = true
		}
		connectChild(n, i, children[i])
	}
	if kind == KindApply {
		n.applyBelow = true
	}
	ctx.ut.insert(n)
	retainExt(n)
	return Edge{Node: n}
}

// sortCommutative swaps a and b into ascending-id order when Options.SortExp
// is enabled (spec.md invariant 3).
func (ctx *Context) sortCommutative(a, b Edge) (Edge, Edge) {
	if !ctx.Opts.SortExp {
		return a, b
	}
	if a.Node.id > b.Node.id {
		return b, a
	}
	return a, b
}

func assertSameSort(a, b *Node, op string) {
	assertf(a.Sort() == b.Sort(), "%s: sort mismatch", op)
}

// binaryPrimitive resolves both operands, applies commutative sorting and
// bv-eq inversion cancellation, consults the rewriter, and otherwise falls
// through to the unique table (spec.md §4.6).
func (ctx *Context) binaryPrimitive(kind Kind, a, b Edge, resultSort SortID) Edge {
	a, b = Resolve(a), Resolve(b)
	if kind.IsCommutative() {
		a, b = ctx.sortCommutative(a, b)
	}
	if kind == KindBvEq && a.Inverted && b.Inverted {
		a.Inverted, b.Inverted = false, false
	}
	if rep, ok := ctx.rewriteBinary(kind, a, b); ok {
		return rep
	}
	return ctx.installPrimitive(kind, resultSort, [3]Edge{a, b}, 2, nil)
}

// --- constants -------------------------------------------------------------

// Const interns a bit-vector constant (spec.md invariant 10): when the
// value's low bit is set, the table is probed with its complement instead
// and the inversion bit is reapplied on return, halving the constant cache.
func (ctx *Context) Const(bits *BitVec) Edge {
	sort := ctx.Sorts.BitVecSort(bits.Width())
	if bits.Bit(0) {
		e := ctx.installPrimitive(KindConst, sort, [3]Edge{}, 0, constPayload{bits: bits.Complement()})
		return Edge{Node: e.Node, Inverted: true}
	}
	return ctx.installPrimitive(KindConst, sort, [3]Edge{}, 0, constPayload{bits: bits.Copy()})
}

func (ctx *Context) Zero(sort SortID) Edge {
	return ctx.Const(NewBitVec(ctx.Sorts.Width(sort)))
}

func (ctx *Context) One(sort SortID) Edge {
	return ctx.Const(NewBitVecFromUint64(1, ctx.Sorts.Width(sort)))
}

func (ctx *Context) Ones(sort SortID) Edge {
	w := ctx.Sorts.Width(sort)
	bv := NewBitVec(w)
	for i := uint(0); i < w; i++ {
		bv.SetBit(i, true)
	}
	return ctx.Const(bv)
}

func (ctx *Context) IntConst(v int64, sort SortID) Edge {
	return ctx.Const(NewBitVecFromInt64(v, ctx.Sorts.Width(sort)))
}

func (ctx *Context) UnsignedConst(v uint64, sort SortID) Edge {
	return ctx.Const(NewBitVecFromUint64(v, ctx.Sorts.Width(sort)))
}

func (ctx *Context) boolSort() SortID { return ctx.Sorts.BitVecSort(1) }

func (ctx *Context) True() Edge  { return ctx.One(ctx.boolSort()) }
func (ctx *Context) False() Edge { return ctx.Zero(ctx.boolSort()) }

// --- symbols -----------------------------------------------------------

func (ctx *Context) bindSymbol(n *Node, name string) {
	if name != "" {
		ctx.symbols.bind(name, n)
	}
}

// Var allocates a fresh bit-vector variable. Variables are never
// hash-consed: two separate calls with the same sort are distinct
// unknowns, not the same term (spec.md §4.2's kind-specific index for
// variables, §2 component 8).
func (ctx *Context) Var(sort SortID, name string) Edge {
	n := ctx.allocNode(KindVar, sort, 0)
	retainExt(n)
	ctx.vars[n.id] = n
	ctx.bindSymbol(n, name)
	return Edge{Node: n}
}

// Param allocates a fresh lambda parameter, unbound until a Lambda call
// claims it (spec.md invariant 7).
func (ctx *Context) Param(sort SortID, name string) Edge {
	n := ctx.allocNode(KindParam, sort, 0)
	n.parameterized = true
	n.payload = paramPayload{}
	retainExt(n)
	ctx.bindSymbol(n, name)
	return Edge{Node: n}
}

// Uf allocates a fresh uninterpreted function over a function sort.
func (ctx *Context) Uf(sort SortID, name string) Edge {
	assertf(ctx.Sorts.IsFun(sort), "uf: sort must be a function sort")
	n := ctx.allocNode(KindUf, sort, 0)
	n.payload = ufPayload{rho: emptyRho()}
	retainExt(n)
	ctx.ufs[n.id] = n
	ctx.bindSymbol(n, name)
	return Edge{Node: n}
}

// Array allocates a fresh array: an uninterpreted function from index to
// element sort with is_array set (spec.md §9's open question -- arrays and
// ufs share a representation, distinguished by a flag).
func (ctx *Context) Array(indexSort, elemSort SortID, name string) Edge {
	sort := ctx.Sorts.ArraySort(indexSort, elemSort)
	n := ctx.allocNode(KindUf, sort, 0)
	n.isArray = true
	n.payload = ufPayload{rho: emptyRho()}
	retainExt(n)
	ctx.ufs[n.id] = n
	ctx.bindSymbol(n, name)
	return Edge{Node: n}
}

// --- bitwise / arithmetic primitives ------------------------------------

func (ctx *Context) And(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "and")
	return ctx.binaryPrimitive(KindAnd, a, b, ra.Sort())
}

// Eq dispatches to BvEq or FunEq depending on the operand sort (spec.md
// §9's open question, resolved here by inspecting the sort at the call
// site rather than hard-coding one theory).
func (ctx *Context) Eq(a, b Edge) Edge {
	ra := Resolve(a).Node
	if ctx.Sorts.IsFun(ra.Sort()) {
		return ctx.FunEq(a, b)
	}
	return ctx.BvEq(a, b)
}

func (ctx *Context) BvEq(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "eq")
	assertf(!ctx.Sorts.IsFun(ra.Sort()), "eq: operands are function/array sorted, use FunEq")
	return ctx.binaryPrimitive(KindBvEq, a, b, ctx.boolSort())
}

func (ctx *Context) FunEq(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "feq")
	assertf(ctx.Sorts.IsFun(ra.Sort()), "feq: operands must be function/array sorted")
	result := ctx.binaryPrimitive(KindFunEq, a, b, ctx.boolSort())
	if Resolve(result).Node.kind == KindFunEq {
		ctx.funEqs[Resolve(result).Node.id] = Resolve(result).Node
	}
	return result
}

func (ctx *Context) Add(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "add")
	return ctx.binaryPrimitive(KindAdd, a, b, ra.Sort())
}

func (ctx *Context) Mul(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "mul")
	return ctx.binaryPrimitive(KindMul, a, b, ra.Sort())
}

func (ctx *Context) Ult(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "ult")
	return ctx.binaryPrimitive(KindUlt, a, b, ctx.boolSort())
}

// assertShiftSort enforces spec.md §6: the shift amount's width must equal
// log2 of the shiftee's width, which must itself be a power of two greater
// than one.
func assertShiftSort(ctx *Context, val, amount *Node, op string) {
	w := ctx.Sorts.Width(val.Sort())
	assertf(w > 1 && w&(w-1) == 0, "%s: shiftee width must be a power of two greater than one", op)
	lg := log2Ceil(int(w))
	assertf(ctx.Sorts.Width(amount.Sort()) == uint(lg), "%s: shift amount width must equal log2(shiftee width)", op)
}

func (ctx *Context) Sll(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertShiftSort(ctx, ra, rb, "sll")
	return ctx.binaryPrimitive(KindSll, a, b, ra.Sort())
}

func (ctx *Context) Srl(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertShiftSort(ctx, ra, rb, "srl")
	return ctx.binaryPrimitive(KindSrl, a, b, ra.Sort())
}

func (ctx *Context) Udiv(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "udiv")
	return ctx.binaryPrimitive(KindUdiv, a, b, ra.Sort())
}

func (ctx *Context) Urem(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	assertSameSort(ra, rb, "urem")
	return ctx.binaryPrimitive(KindUrem, a, b, ra.Sort())
}

func (ctx *Context) Concat(a, b Edge) Edge {
	ra, rb := Resolve(a).Node, Resolve(b).Node
	w := ctx.Sorts.Width(ra.Sort()) + ctx.Sorts.Width(rb.Sort())
	assertf(w > ctx.Sorts.Width(ra.Sort()), "concat: combined width overflowed")
	sort := ctx.Sorts.BitVecSort(w)
	return ctx.binaryPrimitive(KindConcat, a, b, sort)
}

// Slice extracts bits [lower, upper] (inclusive) of e.
func (ctx *Context) Slice(e Edge, upper, lower uint) Edge {
	re := Resolve(e)
	w := ctx.Sorts.Width(re.Node.Sort())
	assertf(upper >= lower && upper < w, "slice: bad bit range")

	if rep, ok := ctx.rewriteSlice(re, upper, lower); ok {
		return rep
	}

	sort := ctx.Sorts.BitVecSort(upper - lower + 1)
	return ctx.installPrimitive(KindSlice, sort, [3]Edge{re}, 1, sliceInfo{upper: upper, lower: lower})
}

// --- argument tuples and application ------------------------------------

// Args builds a spine of argument-tuple nodes of maximum arity three,
// chaining the last slot to the previous spine node when more than three
// elements are given (spec.md §6).
func (ctx *Context) Args(elems ...Edge) Edge {
	assertf(len(elems) > 0, "args: at least one element required")
	resolved := make([]Edge, len(elems))
	for i, e := range elems {
		resolved[i] = Resolve(e)
	}
	return ctx.buildArgsSpine(resolved)
}

// buildArgsSpine recursively groups elems into arity-<=3 Args nodes,
// chaining the last slot of an over-long list to a nested spine node
// covering the remainder (spec.md §6).
func (ctx *Context) buildArgsSpine(elems []Edge) Edge {
	n := len(elems)
	if n <= 3 {
		var children [3]Edge
		sorts := make([]SortID, n)
		for i, e := range elems {
			children[i] = e
			sorts[i] = e.Node.Sort()
		}
		sort := ctx.Sorts.TupleSort(sorts...)
		return ctx.installPrimitive(KindArgs, sort, children, uint8(n), nil)
	}

	rest := ctx.buildArgsSpine(elems[2:])
	children := [3]Edge{elems[0], elems[1], rest}
	sort := ctx.Sorts.TupleSort(elems[0].Node.Sort(), elems[1].Node.Sort(), Resolve(rest).Node.Sort())
	result := ctx.installPrimitive(KindArgs, sort, children, 3, nil)
	ctx.Release(rest)
	return result
}

// Apply applies fn to an argument tuple args, requiring fn's domain sort to
// equal the tuple's sort (spec.md §6). When fn resolves to a lambda, its
// static rho is consulted first (spec.md §4.7, §9): a hit returns the cached
// value in O(1) without walking the lambda's body at all, the fast path a
// write-as-lambda array encoding exists for. On a miss, beta reduction
// substitutes args directly into the body instead of building an apply node.
func (ctx *Context) Apply(fn, args Edge) Edge {
	rfn, rargs := Resolve(fn), Resolve(args)
	assertf(ctx.Sorts.IsFun(rfn.Node.Sort()), "apply: callee must be function/array sorted")
	assertf(ctx.Sorts.Domain(rfn.Node.Sort()) == rargs.Node.Sort(), "apply: argument tuple sort mismatch")

	if rfn.Node.kind == KindLambda {
		if v, ok := lookupStaticRho(rfn.Node, rargs.Node.id); ok {
			return ctx.Copy(v)
		}
		return ctx.betaApply(rfn, rargs)
	}

	sort := ctx.Sorts.Codomain(rfn.Node.Sort())
	return ctx.installPrimitive(KindApply, sort, [3]Edge{rfn, rargs}, 2, nil)
}

// ApplyExps builds an argument tuple from args and applies fn to it in one
// call (spec.md §6, grounded on original_source/src/btorexp.c's
// btor_apply_exps, which the original uses internally for array reads --
// constructors_derived.go's Read follows the same pattern instead of
// inlining Args/Apply).
func (ctx *Context) ApplyExps(args []Edge, fn Edge) Edge {
	a := ctx.Args(args...)
	r := ctx.Apply(fn, a)
	ctx.Release(a)
	return r
}

// betaApply substitutes the single argument in args (a lambda's domain is a
// one-element tuple) for fn's bound parameter throughout its body and
// returns the reduced result, using the single-threaded assign/release
// stack discipline spec.md §9 describes: the parameter is given a temporary
// value, the body is rebuilt under that assignment, and the assignment is
// cleared again before returning.
func (ctx *Context) betaApply(fn, args Edge) Edge {
	lp := fn.Node.payload.(lambdaPayload)
	param := fn.Node.e[0].Node
	pp := param.payload.(paramPayload)
	pp.assigned = args.Node
	param.payload = pp

	result := ctx.substituteParam(lp.body, param, args.Node.e[0])

	pp.assigned = nil
	param.payload = pp
	return result
}

// substituteParam rebuilds e with every occurrence of param replaced by
// replacement, calling back into the ordinary constructors so the result is
// itself fully hash-consed (spec.md §4.6's re-entrancy requirement).
func (ctx *Context) substituteParam(e Edge, param *Node, replacement Edge) Edge {
	re := Resolve(e)
	n := re.Node

	if n == param {
		out := ctx.Copy(replacement)
		if re.Inverted {
			out = Not(out)
		}
		return out
	}
	if !n.parameterized {
		return ctx.Copy(re)
	}

	switch n.kind {
	case KindParam:
		// A parameter other than the one being substituted stays as it is.
		return ctx.Copy(re)
	case KindLambda:
		// A nested binder over a different parameter: substitute only in its
		// body and bind the result to a fresh parameter of the same sort,
		// since the original parameter is already bound by n.
		inner := n.e[0].Node
		fresh := ctx.Param(inner.sort, "")
		renamed := ctx.substituteParam(n.e[1], inner, fresh)
		newBody := ctx.substituteParam(renamed, param, replacement)
		out := ctx.Lambda(fresh, newBody)
		ctx.Release(fresh)
		ctx.Release(renamed)
		ctx.Release(newBody)
		if re.Inverted {
			out = Not(out)
		}
		return out
	case KindSlice:
		info := n.payload.(sliceInfo)
		child := ctx.substituteParam(n.e[0], param, replacement)
		out := ctx.Slice(child, info.upper, info.lower)
		ctx.Release(child)
		if re.Inverted {
			out = Not(out)
		}
		return out
	default:
		children := make([]Edge, n.arity)
		for i := uint8(0); i < n.arity; i++ {
			children[i] = ctx.substituteParam(n.e[i], param, replacement)
		}
		out := ctx.rebuild(n.kind, children)
		for _, c := range children {
			ctx.Release(c)
		}
		if re.Inverted {
			out = Not(out)
		}
		return out
	}
}

// rebuild re-invokes the public constructor matching kind -- used by
// substituteParam, which only ever encounters primitive-kernel shapes since
// derived operators have already been expanded by the time a body is built.
func (ctx *Context) rebuild(kind Kind, children []Edge) Edge {
	switch kind {
	case KindAnd:
		return ctx.And(children[0], children[1])
	case KindBvEq:
		return ctx.BvEq(children[0], children[1])
	case KindFunEq:
		return ctx.FunEq(children[0], children[1])
	case KindAdd:
		return ctx.Add(children[0], children[1])
	case KindMul:
		return ctx.Mul(children[0], children[1])
	case KindUlt:
		return ctx.Ult(children[0], children[1])
	case KindSll:
		return ctx.Sll(children[0], children[1])
	case KindSrl:
		return ctx.Srl(children[0], children[1])
	case KindUdiv:
		return ctx.Udiv(children[0], children[1])
	case KindUrem:
		return ctx.Urem(children[0], children[1])
	case KindConcat:
		return ctx.Concat(children[0], children[1])
	case KindApply:
		return ctx.Apply(children[0], children[1])
	case KindArgs:
		return ctx.Args(children...)
	case KindCond:
		return ctx.Cond(children[0], children[1], children[2])
	case KindUpdate:
		return ctx.Update(children[0], children[1], children[2])
	default:
		assertf(false, "rebuild: unexpected kind %s under a binder", kind)
		return Edge{}
	}
}

// --- lambda --------------------------------------------------------------

// Lambda binds param in body (spec.md §4.5). Equivalence is alpha-invariant:
// a structurally equal binder under a renamed parameter is found rather
// than duplicated.
func (ctx *Context) Lambda(param, body Edge) Edge {
	rparam, rbody := Resolve(param), Resolve(body)
	assertf(rparam.Node.kind == KindParam, "lambda: first argument must be a parameter")
	assertf(!rparam.Inverted, "lambda: parameter cannot be inverted")

	hash, free := computeAlphaHash(rbody, rparam.Node)

	if existing := ctx.ut.findLambda(hash, func(n *Node) bool {
		return compareLambda(n, rparam.Node, rbody)
	}); existing != nil {
		retainExt(existing)
		return Edge{Node: existing}
	}

	sort := ctx.Sorts.FunSort(ctx.Sorts.TupleSort(rparam.Node.Sort()), rbody.Node.Sort())
	n := ctx.allocNode(KindLambda, sort, 2)
	n.fingerprint = hash
	n.parameterized = len(free) > 0
	n.lambdaBelow = true
	n.payload = lambdaPayload{body: rbody, alphaHash: hash, freeParams: free, rho: emptyRho()}
	connectChild(n, 0, rparam)
	connectChild(n, 1, rbody)
	ctx.ut.insert(n)
	retainExt(n)

	pp := rparam.Node.payload.(paramPayload)
	assertf(pp.binding == nil, "lambda: parameter already bound by another lambda")
	pp.binding = n
	rparam.Node.payload = pp

	ctx.lambdas[n.id] = n
	return Edge{Node: n}
}

// Fun curries params into a chain of nested Lambda bindings around body,
// folding right-to-left so params[0] becomes the outermost binder (spec.md
// §6, grounded on original_source/src/btorexp.c's btor_fun_exp).
func (ctx *Context) Fun(params []Edge, body Edge) Edge {
	assertf(len(params) > 0, "fun: at least one parameter required")
	cur := body
	for i := len(params) - 1; i >= 0; i-- {
		next := ctx.Lambda(params[i], cur)
		if i != len(params)-1 {
			ctx.Release(cur)
		}
		cur = next
	}
	return cur
}

// --- conditional, update ---------------------------------------------------

func (ctx *Context) Cond(c, t, e Edge) Edge {
	rc, rt, re := Resolve(c), Resolve(t), Resolve(e)
	assertf(ctx.Sorts.Width(rc.Node.Sort()) == 1, "cond: condition must be 1-bit")
	assertSameSort(rt.Node, re.Node, "cond")

	if rep, ok := ctx.rewriteTernary(KindCond, rc, rt, re); ok {
		return rep
	}
	return ctx.installPrimitive(KindCond, rt.Node.Sort(), [3]Edge{rc, rt, re}, 3, nil)
}

// Update installs a primitive array/function update node: fun updated at
// args to v (spec.md §4.7's write expansion, non-lambda branch).
func (ctx *Context) Update(fn, args, v Edge) Edge {
	rfn, rargs, rv := Resolve(fn), Resolve(args), Resolve(v)
	assertf(ctx.Sorts.IsFun(rfn.Node.Sort()), "update: first argument must be function/array sorted")
	assertf(ctx.Sorts.Domain(rfn.Node.Sort()) == rargs.Node.Sort(), "update: argument tuple sort mismatch")
	assertf(ctx.Sorts.Codomain(rfn.Node.Sort()) == rv.Node.Sort(), "update: value sort mismatch")

	if rep, ok := ctx.rewriteTernary(KindUpdate, rfn, rargs, rv); ok {
		return rep
	}
	return ctx.installPrimitive(KindUpdate, rfn.Node.Sort(), [3]Edge{rfn, rargs, rv}, 3, nil)
}
