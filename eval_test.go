package boolector_test

import (
	"math/big"
	"testing"

	"github.com/ndrewh/boolector"
)

// evalConst interprets a DAG built entirely from constant leaves, walking it
// with the same BitVec arithmetic the primitive kernel's unique-table keys
// are built from. It exists only to give the derived-operator macro
// expansions in constructors_derived.go a brute-force oracle: since this
// module has no solver or evaluator of its own (spec.md §1's explicit
// Non-goal), nothing else can check that e.g. Smulo's expansion actually
// computes signed multiplication overflow.
func evalConst(t *testing.T, h boolector.Edge) *big.Int {
	t.Helper()
	r := boolector.Resolve(h)
	n := r.Node

	var v *big.Int
	switch n.Kind() {
	case boolector.KindConst:
		v = n.ConstValue().Big()
	case boolector.KindSlice:
		upper, lower := n.SliceRange()
		full := evalConst(t, n.Child(0))
		var mask big.Int
		mask.Lsh(big.NewInt(1), upper-lower+1)
		mask.Sub(&mask, big.NewInt(1))
		var shifted big.Int
		shifted.Rsh(full, lower)
		shifted.And(&shifted, &mask)
		v = &shifted
	default:
		a := evalConst(t, n.Child(0))
		w := int(n.Arity())
		var b, c *big.Int
		if w > 1 {
			b = evalConst(t, n.Child(1))
		}
		if w > 2 {
			c = evalConst(t, n.Child(2))
		}
		v = evalKind(t, n, a, b, c)
	}
	if r.Inverted {
		mask := onesFor(t, h)
		var comp big.Int
		comp.Xor(v, mask)
		v = &comp
	}
	return v
}

func onesFor(t *testing.T, h boolector.Edge) *big.Int {
	t.Helper()
	r := boolector.Resolve(h)
	w := sortWidth(t, r)
	var ones big.Int
	ones.Lsh(big.NewInt(1), w)
	ones.Sub(&ones, big.NewInt(1))
	return &ones
}

func sortWidth(t *testing.T, h boolector.Edge) uint {
	t.Helper()
	switch h.Node.Kind() {
	case boolector.KindConst:
		return h.Node.ConstValue().Width()
	case boolector.KindSlice:
		upper, lower := h.Node.SliceRange()
		return upper - lower + 1
	case boolector.KindBvEq, boolector.KindUlt:
		return 1
	case boolector.KindConcat:
		return sortWidth(t, h.Node.Child(0)) + sortWidth(t, h.Node.Child(1))
	case boolector.KindCond:
		return sortWidth(t, h.Node.Child(1))
	default:
		// The remaining arithmetic/bitwise kinds this evaluator handles are
		// width-preserving in their first operand.
		return sortWidth(t, h.Node.Child(0))
	}
}

func evalKind(t *testing.T, n *boolector.Node, a, b, c *big.Int) *big.Int {
	t.Helper()
	w := sortWidth(t, n.Child(0))
	mod := new(big.Int).Lsh(big.NewInt(1), w)

	trunc := func(x *big.Int) *big.Int {
		var r big.Int
		r.Mod(x, mod)
		return &r
	}

	switch n.Kind() {
	case boolector.KindAnd:
		var r big.Int
		return r.And(a, b)
	case boolector.KindAdd:
		return trunc(new(big.Int).Add(a, b))
	case boolector.KindMul:
		return trunc(new(big.Int).Mul(a, b))
	case boolector.KindBvEq:
		if a.Cmp(b) == 0 {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	case boolector.KindUlt:
		if a.Cmp(b) < 0 {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	case boolector.KindUdiv:
		if b.Sign() == 0 {
			return new(big.Int).Set(onesForWidth(w))
		}
		return new(big.Int).Div(a, b)
	case boolector.KindUrem:
		if b.Sign() == 0 {
			return new(big.Int).Set(a)
		}
		return new(big.Int).Mod(a, b)
	case boolector.KindSll:
		return trunc(new(big.Int).Lsh(a, uint(b.Uint64())))
	case boolector.KindSrl:
		return new(big.Int).Rsh(a, uint(b.Uint64()))
	case boolector.KindConcat:
		bw := sortWidth(t, n.Child(1))
		var r big.Int
		r.Lsh(a, bw)
		r.Or(&r, b)
		return &r
	case boolector.KindCond:
		if a.Sign() != 0 {
			return b
		}
		return c
	default:
		t.Fatalf("evalConst: unhandled kind %s", n.Kind())
		return nil
	}
}

func onesForWidth(w uint) *big.Int {
	var ones big.Int
	ones.Lsh(big.NewInt(1), w)
	ones.Sub(&ones, big.NewInt(1))
	return &ones
}

func signedOf(v uint64, w uint) int64 {
	bv := boolector.NewBitVecFromUint64(v, w)
	return bv.SignedBig().Int64()
}

func boolOf(t *testing.T, h boolector.Edge) bool {
	t.Helper()
	v := evalConst(t, h)
	return v.Sign() != 0
}

func TestSmuloMatchesBruteForceOracle(t *testing.T) {
	for _, w := range []uint{1, 2, 3, 4, 5} {
		w := w
		t.Run("", func(t *testing.T) {
			ctx := boolector.NewContext(boolector.Options{})
			defer ctx.Close()

			sort := ctx.Sorts.BitVecSort(w)
			limit := uint64(1) << w
			for av := uint64(0); av < limit; av++ {
				for bv := uint64(0); bv < limit; bv++ {
					a := ctx.UnsignedConst(av, sort)
					b := ctx.UnsignedConst(bv, sort)

					result := ctx.Smulo(a, b)

					sa, sb := signedOf(av, w), signedOf(bv, w)
					product := sa * sb
					minV, maxV := int64(-1)<<(w-1), int64(1)<<(w-1)-1
					wantOverflow := product < minV || product > maxV

					gotOverflow := boolOf(t, result)
					if gotOverflow != wantOverflow {
						t.Fatalf("smulo(%d,%d) width %d: want overflow=%v got=%v", av, bv, w, wantOverflow, gotOverflow)
					}

					ctx.Release(result)
					ctx.Release(a)
					ctx.Release(b)
				}
			}
		})
	}
}

func TestUaddoMatchesBruteForceOracle(t *testing.T) {
	for _, w := range []uint{1, 2, 3, 4} {
		w := w
		t.Run("", func(t *testing.T) {
			ctx := boolector.NewContext(boolector.Options{})
			defer ctx.Close()

			sort := ctx.Sorts.BitVecSort(w)
			limit := uint64(1) << w
			for av := uint64(0); av < limit; av++ {
				for bv := uint64(0); bv < limit; bv++ {
					a := ctx.UnsignedConst(av, sort)
					b := ctx.UnsignedConst(bv, sort)

					result := ctx.Uaddo(a, b)
					wantOverflow := av+bv >= limit
					gotOverflow := boolOf(t, result)
					if gotOverflow != wantOverflow {
						t.Fatalf("uaddo(%d,%d) width %d: want overflow=%v got=%v", av, bv, w, wantOverflow, gotOverflow)
					}

					ctx.Release(result)
					ctx.Release(a)
					ctx.Release(b)
				}
			}
		})
	}
}

func TestSdivSremMatchBruteForceOracle(t *testing.T) {
	for _, w := range []uint{3, 4, 5} {
		w := w
		t.Run("", func(t *testing.T) {
			ctx := boolector.NewContext(boolector.Options{})
			defer ctx.Close()

			sort := ctx.Sorts.BitVecSort(w)
			limit := uint64(1) << w
			for av := uint64(0); av < limit; av++ {
				for bv := uint64(1); bv < limit; bv++ { // skip division by zero
					a := ctx.UnsignedConst(av, sort)
					b := ctx.UnsignedConst(bv, sort)

					quot := ctx.Sdiv(a, b)
					rem := ctx.Srem(a, b)

					sa, sb := signedOf(av, w), signedOf(bv, w)
					// The quotient is a w-bit value, so min / -1 wraps back to min.
					wantQuot := signedOf(uint64(sa/sb), w)
					wantRem := sa % sb

					gotQuotSigned := boolector.NewBitVecFromBig(evalConst(t, quot), w).SignedBig().Int64()
					gotRemSigned := boolector.NewBitVecFromBig(evalConst(t, rem), w).SignedBig().Int64()

					if gotQuotSigned != wantQuot {
						t.Fatalf("sdiv(%d,%d) width %d: want %d got %d", av, bv, w, wantQuot, gotQuotSigned)
					}
					if gotRemSigned != wantRem {
						t.Fatalf("srem(%d,%d) width %d: want %d got %d", av, bv, w, wantRem, gotRemSigned)
					}

					ctx.Release(quot)
					ctx.Release(rem)
					ctx.Release(a)
					ctx.Release(b)
				}
			}
		})
	}
}

func TestRolRorAreInverses(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	w := uint(8)
	sort := ctx.Sorts.BitVecSort(w)
	amountSort := ctx.Sorts.BitVecSort(3) // log2(8)

	for av := uint64(0); av < 256; av += 17 {
		for sv := uint64(0); sv < 8; sv++ {
			a := ctx.UnsignedConst(av, sort)
			s := ctx.UnsignedConst(sv, amountSort)

			rolled := ctx.Rol(a, s)
			back := ctx.Ror(rolled, s)

			got := evalConst(t, back)
			if got.Uint64() != av {
				t.Fatalf("ror(rol(%d, %d), %d): want %d got %d", av, sv, sv, av, got.Uint64())
			}

			ctx.Release(rolled)
			ctx.Release(back)
			ctx.Release(a)
			ctx.Release(s)
		}
	}
}

func TestRedorRedandRedxorOnConcreteValues(t *testing.T) {
	ctx := boolector.NewContext(boolector.Options{})
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(4)

	cases := []struct {
		v               uint64
		or, and, xorRes bool
	}{
		{0b0000, false, false, false},
		{0b1111, true, true, false},
		{0b1000, true, false, true},
		{0b1010, true, false, false},
		{0b1110, true, false, true},
	}

	for _, c := range cases {
		v := ctx.UnsignedConst(c.v, sort)

		or := ctx.Redor(v)
		and := ctx.Redand(v)
		xorRes := ctx.Redxor(v)

		if boolOf(t, or) != c.or {
			t.Fatalf("redor(%04b): want %v got %v", c.v, c.or, boolOf(t, or))
		}
		if boolOf(t, and) != c.and {
			t.Fatalf("redand(%04b): want %v got %v", c.v, c.and, boolOf(t, and))
		}
		if boolOf(t, xorRes) != c.xorRes {
			t.Fatalf("redxor(%04b): want %v got %v", c.v, c.xorRes, boolOf(t, xorRes))
		}

		ctx.Release(or)
		ctx.Release(and)
		ctx.Release(xorRes)
		ctx.Release(v)
	}
}
