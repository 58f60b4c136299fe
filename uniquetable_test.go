package boolector_test

import (
	"testing"

	"github.com/ndrewh/boolector"
)

func TestHashConsingDedupesStructurallyEqualNodes(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(8)
	a := ctx.Var(sort, "a")
	b := ctx.Var(sort, "b")
	defer ctx.Release(a)
	defer ctx.Release(b)

	sum1 := ctx.Add(a, b)
	sum2 := ctx.Add(a, b)
	defer ctx.Release(sum1)
	defer ctx.Release(sum2)

	if sum1.Node != sum2.Node {
		t.Fatalf("two structurally identical Add nodes must hash-cons to the same node")
	}
	if sum1.Node.ExtRefs() != 2 {
		t.Fatalf("expected two external references after two constructions, got %d", sum1.Node.ExtRefs())
	}
}

func TestHashConsingDistinguishesBySort(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	c8 := ctx.Zero(ctx.Sorts.BitVecSort(8))
	c16 := ctx.Zero(ctx.Sorts.BitVecSort(16))
	defer ctx.Release(c8)
	defer ctx.Release(c16)

	if c8.Node == c16.Node {
		t.Fatalf("zero constants of different widths must not be the same node")
	}
}

func TestConstCacheGrowsUnderLoad(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	const n = 200
	sort := ctx.Sorts.BitVecSort(32)
	handles := make([]boolector.Edge, n)
	for i := 0; i < n; i++ {
		handles[i] = ctx.UnsignedConst(uint64(i), sort)
	}

	for i := 0; i < n; i++ {
		again := ctx.UnsignedConst(uint64(i), sort)
		if again.Node != handles[i].Node {
			t.Fatalf("constant %d did not hash-cons to its earlier node after table growth", i)
		}
		ctx.Release(again)
	}

	for _, h := range handles {
		ctx.Release(h)
	}
}
