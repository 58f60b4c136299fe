package boolector

// Kind identifies the shape of a Node. The primitive kernel is exactly the
// set spec.md §4.7 names: every other operator (Or, Xor, Neg, Sub, Rol,
// ...) is a constructor-time macro expansion over these.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindConst
	KindVar
	KindParam
	KindSlice
	KindAnd
	KindBvEq
	KindFunEq
	KindAdd
	KindMul
	KindUlt
	KindSll
	KindSrl
	KindUdiv
	KindUrem
	KindConcat
	KindApply
	KindLambda
	KindCond
	KindArgs
	KindUf
	KindUpdate
	KindProxy
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindConst:   "const",
	KindVar:     "var",
	KindParam:   "param",
	KindSlice:   "slice",
	KindAnd:     "and",
	KindBvEq:    "eq",
	KindFunEq:   "feq",
	KindAdd:     "add",
	KindMul:     "mul",
	KindUlt:     "ult",
	KindSll:     "sll",
	KindSrl:     "srl",
	KindUdiv:    "udiv",
	KindUrem:    "urem",
	KindConcat:  "concat",
	KindApply:   "apply",
	KindLambda:  "lambda",
	KindCond:    "cond",
	KindArgs:    "args",
	KindUf:      "uf",
	KindUpdate:  "update",
	KindProxy:   "proxy",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsCommutative returns true if the kind is subject to the commutative
// child-sort invariant (spec.md §3 invariant 3) when Options.SortExp is on.
func (k Kind) IsCommutative() bool {
	switch k {
	case KindAnd, KindAdd, KindMul, KindBvEq, KindFunEq:
		return true
	default:
		return false
	}
}

// arityOf returns the fixed arity of a primitive kind, or -1 if variable
// (Args nodes chain up to a maximum arity of 3 per spine node, but the
// logical arity of the family is open-ended).
func arityOf(k Kind) int {
	switch k {
	case KindConst, KindVar, KindParam, KindUf:
		return 0
	case KindSlice:
		return 1
	case KindAnd, KindBvEq, KindFunEq, KindAdd, KindMul, KindUlt, KindSll, KindSrl, KindUdiv, KindUrem, KindConcat, KindApply:
		return 2
	case KindCond, KindUpdate:
		return 3
	case KindLambda:
		return 2 // param, body
	case KindArgs:
		return -1
	case KindProxy:
		return 0
	default:
		return -1
	}
}
