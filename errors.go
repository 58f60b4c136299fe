package boolector

import "fmt"

// assertf panics if condition is false. Every contract violation in the
// core (mismatched widths, releasing a dead handle, counter overflow) is a
// fatal assertion per spec.md §7 — there are no recoverable errors here.
func assertf(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("boolector: "+format, args...))
	}
}

// resourceExhausted is the distinct fatal path for allocator/table-growth
// failure (spec.md §7's "Resource exhaustion"). Go's allocator reports
// exhaustion by panicking on its own (OOM), so this exists to name the
// specific contract (table size cap) the core itself enforces.
func resourceExhausted(format string, args ...interface{}) {
	panic(fmt.Sprintf("boolector: resource exhausted: "+format, args...))
}
