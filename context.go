package boolector

import "github.com/benbjohnson/immutable"

// Stats reports population counters for a Context, used by tests (with
// go-cmp).
type Stats struct {
	LiveNodes   int
	UniqueNodes int
	Lambdas     int
	Ufs         int
	Vars        int
}

// Context is a solver context: it owns its id table, unique table, side
// maps, sort table and options. spec.md §5: a context is single-threaded
// and non-reentrant, but two distinct contexts may run concurrently on
// different goroutines with no synchronization between them.
type Context struct {
	Opts  Options
	Sorts *sortTable

	symbols *symbolTable

	ids    []*Node // index 0 unused (id 0 is reserved for "invalid")
	nextID uint32

	ut *uniqueTable

	lambdas map[uint32]*Node
	ufs     map[uint32]*Node
	funEqs  map[uint32]*Node
	vars    map[uint32]*Node

	rewriter Rewriter

	nextArrayID uint64
}

// NewContext returns a new, empty solver context.
func NewContext(opts Options) *Context {
	return &Context{
		Opts:    opts,
		Sorts:   newSortTable(),
		symbols: newSymbolTable(),
		ids:     make([]*Node, 1, 256),
		nextID:  1,
		ut:      newUniqueTable(),
		lambdas: make(map[uint32]*Node),
		ufs:     make(map[uint32]*Node),
		funEqs:  make(map[uint32]*Node),
		vars:    make(map[uint32]*Node),

		rewriter: NoopRewriter{},
	}
}

// SetRewriter installs the rewriter callout module (spec.md §6). A nil
// rewriter is replaced with NoopRewriter.
func (ctx *Context) SetRewriter(r Rewriter) {
	if r == nil {
		r = NoopRewriter{}
	}
	ctx.rewriter = r
}

// Stats returns a point-in-time snapshot of population counters.
func (ctx *Context) Stats() Stats {
	s := Stats{
		UniqueNodes: ctx.ut.numElements,
		Lambdas:     len(ctx.lambdas),
		Ufs:         len(ctx.ufs),
		Vars:        len(ctx.vars),
	}
	for _, n := range ctx.ids {
		if n != nil {
			s.LiveNodes++
		}
	}
	return s
}

// allocNode reserves the next id, pushes a zero-valued node into the id
// table, and stamps the common fields. Kind-specific constructors fill in
// payload and wire children afterward.
func (ctx *Context) allocNode(kind Kind, sort SortID, arity uint8) *Node {
	id := ctx.nextID
	assertf(id != 0, "context: node id counter overflowed")
	ctx.nextID++

	n := &Node{id: id, kind: kind, sort: sort, arity: arity}
	if int(id) == len(ctx.ids) {
		ctx.ids = append(ctx.ids, n)
	} else {
		assertf(int(id) < len(ctx.ids) && ctx.ids[id] == nil, "context: id table slot %d already occupied", id)
		ctx.ids[id] = n
	}
	return n
}

// NodeByID returns a copied handle to the live node with the given id, or
// the zero Edge if no such node exists (spec.md §6: ids remain valid
// handles across a proxy conversion).
func (ctx *Context) NodeByID(id uint32) (Edge, bool) {
	if id == 0 || int(id) >= len(ctx.ids) || ctx.ids[id] == nil {
		return Edge{}, false
	}
	n := ctx.ids[id]
	retainExt(n)
	return Edge{Node: n}, true
}

// Close tears down the context: audits that every externally held
// reference has been released, then forces every surviving node through
// the releaser so its memory and side-table entries are reclaimed
// (spec.md §5, grounded on original_source/src/btorexp.c's btor_delete
// teardown loop, which walks the id table releasing every remaining
// entry before freeing the context).
func (ctx *Context) Close() {
	var leaked uint32
	for _, n := range ctx.ids {
		if n != nil {
			leaked += n.extRefs
		}
	}

	// Drop the outstanding external references first: a node still held as
	// a child is then reclaimed only when its last parent is, never while a
	// parent edge to it remains.
	for i := range ctx.ids {
		for ctx.ids[i] != nil && ctx.ids[i].extRefs > 0 {
			ctx.Release(Edge{Node: ctx.ids[i]})
		}
	}
	for i := range ctx.ids {
		for ctx.ids[i] != nil {
			releaseNode(ctx, ctx.ids[i])
		}
	}

	assertf(leaked == 0, "context: %d external references leaked at teardown", leaked)
}

func emptyRho() *immutable.SortedMap {
	return immutable.NewSortedMap(&uint64Comparer{})
}

// uint64Comparer orders uint64 keys, the same comparer shape the teacher
// uses for its heap address space (execution_state.go's uint64Comparer),
// reused here to key static-rho and uf-rho caches by argument-tuple id.
type uint64Comparer struct{}

func (c *uint64Comparer) Compare(a, b interface{}) int {
	x, y := a.(uint64), b.(uint64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
