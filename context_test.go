package boolector_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ndrewh/boolector"
)

func TestStatsTracksPopulationCounters(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(8)
	v := ctx.Var(sort, "v")
	p := ctx.Param(sort, "p")
	u := ctx.Uf(ctx.Sorts.FunSort(ctx.Sorts.TupleSort(sort), sort), "u")
	defer ctx.Release(v)
	defer ctx.Release(p)
	defer ctx.Release(u)

	body := ctx.BvEq(p, v)
	lam := ctx.Lambda(p, body)
	ctx.Release(body)
	defer ctx.Release(lam)

	got := ctx.Stats()
	want := boolector.Stats{Vars: 1, Lambdas: 1, Ufs: 1}

	if diff := cmp.Diff(want.Vars, got.Vars); diff != "" {
		t.Fatalf("Vars mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Lambdas, got.Lambdas); diff != "" {
		t.Fatalf("Lambdas mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Ufs, got.Ufs); diff != "" {
		t.Fatalf("Ufs mismatch (-want +got):\n%s", diff)
	}
	if got.LiveNodes == 0 {
		t.Fatalf("expected at least one live node")
	}
}

func TestCloseSucceedsWhenEveryHandleIsReleased(t *testing.T) {
	ctx := boolector.NewContext(boolector.DefaultOptions())

	sort := ctx.Sorts.BitVecSort(8)
	a := ctx.Var(sort, "a")
	b := ctx.Var(sort, "b")
	sum := ctx.Add(a, b)
	ctx.Release(sum)
	ctx.Release(a)
	ctx.Release(b)

	ctx.Close() // must not panic
}

func TestDebugDumpIncludesNodeCount(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	v := ctx.Var(ctx.Sorts.BitVecSort(8), "v")
	defer ctx.Release(v)

	out := ctx.DebugDump()
	if out == "" {
		t.Fatalf("expected non-empty debug dump")
	}
	if !strings.Contains(out, "Nodes: (int) 1") {
		t.Fatalf("expected debug dump to report one live node, got:\n%s", out)
	}
}

func TestDumpRendersTermTree(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(8)
	v := ctx.Var(sort, "v")
	one := ctx.One(sort)
	sum := ctx.Add(v, one)
	defer ctx.Release(v)
	defer ctx.Release(one)
	defer ctx.Release(sum)

	out := boolector.Dump(sum)
	if out == "" {
		t.Fatalf("expected non-empty dump")
	}
}
