package boolector_test

import (
	"testing"

	"github.com/ndrewh/boolector"
)

func mustPanic(t *testing.T, msg string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", msg)
		}
	}()
	f()
}

func TestCommutativeSortCanonicalizesChildOrder(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{SortExp: true})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(8)
	a := ctx.Var(sort, "a")
	b := ctx.Var(sort, "b")
	defer ctx.Release(a)
	defer ctx.Release(b)

	ab := ctx.And(a, b)
	ba := ctx.And(b, a)
	defer ctx.Release(ab)
	defer ctx.Release(ba)

	if ab.Node != ba.Node {
		t.Fatalf("and(a,b) and and(b,a) must canonicalize to the same node when SortExp is enabled")
	}
}

func TestBvEqCancelsSharedInversion(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(8)
	a := ctx.Var(sort, "a")
	b := ctx.Var(sort, "b")
	defer ctx.Release(a)
	defer ctx.Release(b)

	eqDirect := ctx.BvEq(a, b)
	defer ctx.Release(eqDirect)

	na := ctx.Not(a)
	nb := ctx.Not(b)
	eqInverted := ctx.BvEq(na, nb)
	ctx.Release(na)
	ctx.Release(nb)
	defer ctx.Release(eqInverted)

	if eqDirect.Node != eqInverted.Node {
		t.Fatalf("eq(not a, not b) must cancel to the same node as eq(a, b)")
	}
}

func TestConstComplementNormalization(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(8)
	odd := ctx.UnsignedConst(5, sort) // low bit set -- stored complemented
	even := ctx.UnsignedConst(250, sort) // complement of 5 in 8 bits
	defer ctx.Release(odd)
	defer ctx.Release(even)

	if odd.Node != even.Node {
		t.Fatalf("5 and its complement 250 should share the same underlying node")
	}
	if !boolector.IsInverted(odd) {
		t.Fatalf("the odd-valued handle should carry the inversion bit")
	}
	if boolector.IsInverted(even) {
		t.Fatalf("the even-valued handle should not carry the inversion bit")
	}
}

func TestArgsSpineChainsBeyondArityThree(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(4)
	elems := make([]boolector.Edge, 7)
	for i := range elems {
		elems[i] = ctx.UnsignedConst(uint64(i), sort)
	}
	defer func() {
		for _, e := range elems {
			ctx.Release(e)
		}
	}()

	args := ctx.Args(elems[0], elems[1], elems[2], elems[3], elems[4], elems[5], elems[6])
	defer ctx.Release(args)

	if args.Node.Arity() != 3 {
		t.Fatalf("an over-long args spine's head node must still have arity 3, got %d", args.Node.Arity())
	}
	tail := args.Node.Child(2)
	if tail.Node.Arity() != 3 {
		t.Fatalf("the chained tail node must itself have arity 3, got %d", tail.Node.Arity())
	}
}

func TestSliceRejectsOutOfRangeBounds(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	v := ctx.Var(ctx.Sorts.BitVecSort(8), "v")
	defer ctx.Release(v)

	mustPanic(t, "slice upper beyond width", func() {
		ctx.Slice(v, 8, 0)
	})
}

func TestShiftRequiresLog2Width(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	v := ctx.Var(ctx.Sorts.BitVecSort(8), "v")
	badAmount := ctx.Var(ctx.Sorts.BitVecSort(8), "amount")
	defer ctx.Release(v)
	defer ctx.Release(badAmount)

	mustPanic(t, "shift amount width must be log2(shiftee width)", func() {
		ctx.Sll(v, badAmount)
	})
}

func TestApplyRejectsMismatchedArgumentSort(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	idxSort := ctx.Sorts.BitVecSort(8)
	elemSort := ctx.Sorts.BitVecSort(32)
	arr := ctx.Array(idxSort, elemSort, "arr")
	wrongWidthIdx := ctx.Var(ctx.Sorts.BitVecSort(16), "bad")
	defer ctx.Release(arr)
	defer ctx.Release(wrongWidthIdx)

	args := ctx.Args(wrongWidthIdx)
	mustPanic(t, "apply with wrong argument tuple sort", func() {
		ctx.Apply(arr, args)
	})
	ctx.Release(args)
}

func TestFunCurriesParamsIntoNestedLambdas(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(8)
	p := ctx.Param(sort, "p")
	q := ctx.Param(sort, "q")
	body := ctx.BvEq(p, q)
	defer ctx.Release(p)
	defer ctx.Release(q)
	defer ctx.Release(body)

	fn := ctx.Fun([]boolector.Edge{p, q}, body)
	defer ctx.Release(fn)

	if fn.Node.Kind() != boolector.KindLambda {
		t.Fatalf("Fun must build a lambda, got kind %s", fn.Node.Kind())
	}
	if fn.Node.Child(0).Node != p.Node {
		t.Fatalf("the first parameter must be the outermost binder")
	}

	inner := fn.Node.Child(1)
	if inner.Node.Kind() != boolector.KindLambda {
		t.Fatalf("Fun must nest one lambda per parameter, got kind %s for the inner body", inner.Node.Kind())
	}
	if inner.Node.Child(0).Node != q.Node {
		t.Fatalf("the last parameter must be the innermost binder")
	}
	if inner.Node.Child(1).Node != boolector.Resolve(body).Node {
		t.Fatalf("the innermost body must be the original body")
	}
}

func TestApplyExpsMatchesManualArgsThenApply(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{FunStoreLambdas: true})
	defer ctx.Close()

	idxSort := ctx.Sorts.BitVecSort(8)
	elemSort := ctx.Sorts.BitVecSort(32)
	arr := ctx.Array(idxSort, elemSort, "arr")
	idx := ctx.UnsignedConst(5, idxSort)
	defer ctx.Release(arr)
	defer ctx.Release(idx)

	viaHelper := ctx.ApplyExps([]boolector.Edge{idx}, arr)
	defer ctx.Release(viaHelper)

	args := ctx.Args(idx)
	viaManual := ctx.Apply(arr, args)
	ctx.Release(args)
	defer ctx.Release(viaManual)

	if viaHelper.Node != viaManual.Node {
		t.Fatalf("ApplyExps must match apply(fn, args(...)) built manually")
	}

	read := ctx.Read(arr, idx)
	defer ctx.Release(read)
	if read.Node != viaManual.Node {
		t.Fatalf("Read must agree with ApplyExps/Apply on the same array and index")
	}
}
