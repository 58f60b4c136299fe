package boolector_test

import (
	"testing"

	"github.com/ndrewh/boolector"
)

func TestNotFlipsInversionWithoutAllocating(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	v := ctx.Var(ctx.Sorts.BitVecSort(8), "v")
	defer ctx.Release(v)

	// Not aliases the same node and does not bump any refcount -- it must
	// never be released independently of the handle it was derived from.
	nv := boolector.Not(v)

	if nv.Node != v.Node {
		t.Fatalf("Not must return the same node with the inversion bit flipped")
	}
	if !boolector.IsInverted(nv) {
		t.Fatalf("expected Not(v) to be inverted")
	}
	if boolector.IsInverted(v) {
		t.Fatalf("Not must not mutate its argument")
	}

	nnv := boolector.Not(nv)
	if boolector.IsInverted(nnv) {
		t.Fatalf("double negation must cancel the inversion bit")
	}
}

func TestResolveChasesSimplifiedChain(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(4)
	a := ctx.Var(sort, "a")
	b := ctx.Var(sort, "b")
	defer ctx.Release(a)
	defer ctx.Release(b)

	handle := ctx.Copy(a)
	ctx.ConvertToProxy(a.Node, ctx.Not(b))

	resolved := boolector.Resolve(handle)
	if resolved.Node != b.Node {
		t.Fatalf("resolve should chase through the proxy to b's node")
	}
	if !resolved.Inverted {
		t.Fatalf("resolve should carry the proxy's inversion bit")
	}
	ctx.Release(handle)
}
