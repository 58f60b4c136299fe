package boolector

// Rewriter is the narrow callback interface the rule book (an external
// subsystem, spec.md §1) is invoked through. Each method receives an
// operator and its already-canonicalized operands and may return a
// semantically equal, structurally different replacement built by calling
// back into the same public constructors -- the core must therefore treat
// re-entrant construction during a rewrite as ordinary (spec.md §4.6).
//
// A rewrite is consulted before the primitive kernel allocates or probes
// the unique table for that operator, the same ordering
// original_source/src/btorexp.c uses (its rewrite_binary_exp /
// rewrite_ternary_exp run ahead of the *_exp_node constructors), so a
// simplification never leaves behind an unused raw node to reclaim.
type Rewriter interface {
	RewriteUnarySlice(ctx *Context, e Edge, upper, lower uint) (Edge, bool)
	RewriteBinary(ctx *Context, kind Kind, a, b Edge) (Edge, bool)
	RewriteTernary(ctx *Context, kind Kind, a, b, c Edge) (Edge, bool)
}

// NoopRewriter never simplifies; installed by default. With
// Options.RewriteLevel 0 no rewriter is consulted at all.
type NoopRewriter struct{}

func (NoopRewriter) RewriteUnarySlice(*Context, Edge, uint, uint) (Edge, bool) { return Edge{}, false }
func (NoopRewriter) RewriteBinary(*Context, Kind, Edge, Edge) (Edge, bool)     { return Edge{}, false }
func (NoopRewriter) RewriteTernary(*Context, Kind, Edge, Edge, Edge) (Edge, bool) {
	return Edge{}, false
}

// rewriteBinary consults the rewriter if enabled; ok is false if rewriting
// is disabled or declines to change anything.
func (ctx *Context) rewriteBinary(kind Kind, a, b Edge) (Edge, bool) {
	if ctx.Opts.RewriteLevel <= 0 {
		return Edge{}, false
	}
	return ctx.rewriter.RewriteBinary(ctx, kind, a, b)
}

func (ctx *Context) rewriteTernary(kind Kind, a, b, c Edge) (Edge, bool) {
	if ctx.Opts.RewriteLevel <= 0 {
		return Edge{}, false
	}
	return ctx.rewriter.RewriteTernary(ctx, kind, a, b, c)
}

func (ctx *Context) rewriteSlice(e Edge, upper, lower uint) (Edge, bool) {
	if ctx.Opts.RewriteLevel <= 0 {
		return Edge{}, false
	}
	return ctx.rewriter.RewriteUnarySlice(ctx, e, upper, lower)
}

// BasicRewriter implements the handful of identities spec.md §8 calls out
// by name (and(x,x)=x, cond with equal arms, double negation cancelling
// via the edge's own inversion bit rather than a rewrite at all). It is a
// deliberately small stand-in for the full external rule book, which is
// out of scope (spec.md §1).
type BasicRewriter struct{}

func (BasicRewriter) RewriteUnarySlice(ctx *Context, e Edge, upper, lower uint) (Edge, bool) {
	r := Resolve(e)
	if upper-lower+1 == ctx.Sorts.Width(r.Node.Sort()) {
		return ctx.Copy(r), true
	}
	return Edge{}, false
}

func (BasicRewriter) RewriteBinary(ctx *Context, kind Kind, a, b Edge) (Edge, bool) {
	a, b = Resolve(a), Resolve(b)
	switch kind {
	case KindAnd:
		if a == b {
			return ctx.Copy(a), true
		}
	case KindBvEq:
		if a == b {
			return ctx.Const(NewBitVecFromUint64(1, 1)), true
		}
	}
	return Edge{}, false
}

func (BasicRewriter) RewriteTernary(ctx *Context, kind Kind, a, b, c Edge) (Edge, bool) {
	if kind == KindCond {
		bb, cc := Resolve(b), Resolve(c)
		if bb == cc {
			return ctx.Copy(bb), true
		}
	}
	return Edge{}, false
}
