package boolector

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Dump renders h as an indented s-expression tree, chasing proxies and
// marking shared substructure by node id rather than re-printing it (a DAG,
// unlike the teacher's tree-shaped symbolic-execution values, can legitimately
// revisit the same node through two different parents).
func Dump(h Edge) string {
	var b strings.Builder
	seen := make(map[uint32]bool)
	dumpEdge(&b, h, 0, seen)
	return b.String()
}

func dumpEdge(b *strings.Builder, h Edge, depth int, seen map[uint32]bool) {
	r := Resolve(h)
	n := r.Node
	indent := strings.Repeat("  ", depth)
	if r.Inverted {
		b.WriteString(indent + "(not\n" + indent + "  ")
		depth++
		indent = strings.Repeat("  ", depth)
	}

	fmt.Fprintf(b, "%s#%d %s", indent, n.id, n.kind)
	switch p := n.payload.(type) {
	case constPayload:
		fmt.Fprintf(b, " %s", p.bits.String())
	case sliceInfo:
		fmt.Fprintf(b, " [%d:%d]", p.upper, p.lower)
	}
	if n.symbol != "" {
		fmt.Fprintf(b, " %q", n.symbol)
	}

	if seen[n.id] {
		b.WriteString(" (seen)\n")
		if r.Inverted {
			b.WriteString(indent + ")\n")
		}
		return
	}
	seen[n.id] = true
	b.WriteString("\n")

	for i := uint8(0); i < n.arity; i++ {
		dumpEdge(b, n.e[i], depth+1, seen)
	}

	if r.Inverted {
		b.WriteString(indent + ")\n")
	}
}

// contextStats is a snapshot of a Context's internal accounting, used only
// for debug output -- it is never consulted by any constructor.
type contextStats struct {
	Nodes       int
	Lambdas     int
	Ufs         int
	Vars        int
	FunEqs      int
	UniqueTable uniqueTableStats
	Options     Options
}

// DebugDump returns a human-readable snapshot of the context's bookkeeping
// state: live node count, side-table sizes, unique-table load, and the
// active option set. Grounded on the teacher's go.mod commitment to
// davecgh/go-spew for structured dumps, here put to use on the accounting
// structures rather than the term graph itself, since spew's generic
// struct-walker does not know to chase proxies or the inversion bit the way
// Dump does.
func (ctx *Context) DebugDump() string {
	stats := contextStats{
		Lambdas:     len(ctx.lambdas),
		Ufs:         len(ctx.ufs),
		Vars:        len(ctx.vars),
		FunEqs:      len(ctx.funEqs),
		UniqueTable: ctx.ut.stats(),
		Options:     ctx.Opts,
	}
	for _, n := range ctx.ids {
		if n != nil && !n.erased {
			stats.Nodes++
		}
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	return cfg.Sdump(stats)
}
