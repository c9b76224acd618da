package graph

import (
	"fmt"
	"strings"
)

// CycleError is returned when the working set contains a cyclic foreign-key
// relationship. No processing order can be established, so the whole run must
// abort before any table is touched.
type CycleError struct {
	Tables []string // tables participating in the cycle, in traversal order
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic foreign-key dependency among tables: %s",
		strings.Join(e.Tables, " -> "))
}

// Traversal states for the depth-first ordering walk.
const (
	stateUnvisited = iota
	stateVisiting
	stateVisited
)

// Order returns the tables in a safe processing order: for every foreign-key
// edge the parent table appears before all of its children.
//
// The walk is a depth-first post-order traversal started from each table in
// input order, implemented with an explicit stack rather than recursion so
// that deep chains cannot exhaust the call stack. A child reached while still
// on the in-progress path signals a cycle.
func (g *Graph) Order(tables []string) ([]string, error) {
	state := make(map[string]int, len(g.Nodes))

	type frame struct {
		table string
		next  int // index of the next child to visit
	}

	// Finishing order appends a table only after all of its children are
	// placed; reversing at the end puts every parent ahead of its children.
	finished := make([]string, 0, len(g.Nodes))

	for _, start := range tables {
		if state[start] != stateUnvisited {
			continue
		}

		stack := []frame{{table: start}}
		state[start] = stateVisiting

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children[top.table]

			if top.next < len(children) {
				child := children[top.next]
				top.next++

				switch state[child] {
				case stateUnvisited:
					state[child] = stateVisiting
					stack = append(stack, frame{table: child})
				case stateVisiting:
					// The cycle runs from the first occurrence of the
					// re-entered table to the top of the stack.
					path := make([]string, 0, len(stack)+1)
					for _, f := range stack {
						if len(path) == 0 && f.table != child {
							continue
						}
						path = append(path, f.table)
					}
					path = append(path, child)
					return nil, &CycleError{Tables: path}
				}
				continue
			}

			state[top.table] = stateVisited
			finished = append(finished, top.table)
			stack = stack[:len(stack)-1]
		}
	}

	order := make([]string, len(finished))
	for i, table := range finished {
		order[len(finished)-1-i] = table
	}
	return order, nil
}
