// Package graph provides foreign-key dependency resolution for dbmover.
package graph

// Edge represents one foreign-key relationship inside the working set.
// ChildTable references ParentTable: the parent must be migrated first.
type Edge struct {
	ChildTable   string
	ParentTable  string
	ChildColumn  string
	ParentColumn string
}

// Graph represents the dependency structure of a working set of tables.
// Every table in the working set has a node, isolated tables included.
type Graph struct {
	Nodes    map[string]bool     // table name -> present in working set
	Children map[string][]string // parent table -> child tables (outgoing edges)
	Parents  map[string][]string // child table -> parent tables (incoming edges)
	Edges    []Edge
}

// NewGraph creates an empty graph containing a node for every table in the
// working set.
func NewGraph(tables []string) *Graph {
	g := &Graph{
		Nodes:    make(map[string]bool, len(tables)),
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
	}
	for _, table := range tables {
		g.Nodes[table] = true
	}
	return g
}

// AddEdge records a parent -> child dependency with its column metadata.
// Duplicate parent/child pairs (composite or multiple foreign keys) keep
// their edge metadata but are collapsed in the adjacency lists.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)

	if !g.hasChild(e.ParentTable, e.ChildTable) {
		g.Children[e.ParentTable] = append(g.Children[e.ParentTable], e.ChildTable)
		g.Parents[e.ChildTable] = append(g.Parents[e.ChildTable], e.ParentTable)
	}
}

func (g *Graph) hasChild(parent, child string) bool {
	for _, c := range g.Children[parent] {
		if c == child {
			return true
		}
	}
	return false
}

// HasNode returns true if the graph contains the given table.
func (g *Graph) HasNode(name string) bool {
	return g.Nodes[name]
}

// GetChildren returns all direct children of a table.
func (g *Graph) GetChildren(parent string) []string {
	return g.Children[parent]
}

// GetParents returns all direct parents of a table.
func (g *Graph) GetParents(child string) []string {
	return g.Parents[child]
}

// NodeCount returns the number of tables in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of distinct parent/child dependencies.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.Children {
		count += len(children)
	}
	return count
}
