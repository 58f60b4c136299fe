package boolector_test

import (
	"testing"

	"github.com/ndrewh/boolector"
)

func TestReleaseCascadesThroughDeepChain(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(16)
	cur := ctx.Var(sort, "x")
	one := ctx.One(sort)
	defer ctx.Release(one)

	const depth = 5000
	for i := 0; i < depth; i++ {
		next := ctx.Add(cur, one)
		ctx.Release(cur)
		cur = next
	}

	// The chain is depth additions deep; releasing the final handle must
	// walk it with an explicit worklist rather than recursing, or this test
	// would overflow the goroutine stack.
	ctx.Release(cur)
}

func TestCopyAndReleaseBalanceExternalRefs(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	v := ctx.Var(ctx.Sorts.BitVecSort(4), "v")
	if v.Node.ExtRefs() != 1 {
		t.Fatalf("fresh variable should have exactly one external reference, got %d", v.Node.ExtRefs())
	}

	dup := ctx.Copy(v)
	if v.Node.ExtRefs() != 2 {
		t.Fatalf("Copy should bump the external reference count, got %d", v.Node.ExtRefs())
	}

	ctx.Release(dup)
	if v.Node.ExtRefs() != 1 {
		t.Fatalf("releasing the copy should restore the original count, got %d", v.Node.ExtRefs())
	}
	ctx.Release(v)
}

func TestReleasingUnownedHandlePanics(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	v := ctx.Var(ctx.Sorts.BitVecSort(4), "v")
	ctx.Release(v)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic releasing an already-fully-released handle")
		}
	}()
	ctx.Release(v)
}

func TestCloseDetectsLeakedExternalReference(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	ctx.Var(ctx.Sorts.BitVecSort(4), "leaked") // intentionally never released

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Close to panic on an unreleased external reference")
		}
	}()
	ctx.Close()
}
