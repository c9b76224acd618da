package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphWithEdges(tables []string, edges []Edge) *Graph {
	g := NewGraph(tables)
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

func indexOf(order []string, table string) int {
	for i, t := range order {
		if t == table {
			return i
		}
	}
	return -1
}

func TestOrder_NoEdges_PermutationOfAllTables(t *testing.T) {
	tables := []string{"users", "products", "logs"}
	g := NewGraph(tables)

	order, err := g.Order(tables)

	require.NoError(t, err)
	assert.Len(t, order, 3)
	assert.ElementsMatch(t, tables, order)
}

func TestOrder_Chain_ParentsBeforeChildren(t *testing.T) {
	// orders references users, order_items references orders
	tables := []string{"users", "orders", "order_items"}
	g := graphWithEdges(tables, []Edge{
		{ChildTable: "orders", ParentTable: "users", ChildColumn: "user_id", ParentColumn: "id"},
		{ChildTable: "order_items", ParentTable: "orders", ChildColumn: "order_id", ParentColumn: "id"},
	})

	tests := []struct {
		name  string
		input []string
	}{
		{"Input in dependency order", []string{"users", "orders", "order_items"}},
		{"Input in reverse order", []string{"order_items", "orders", "users"}},
		{"Input shuffled", []string{"orders", "users", "order_items"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := g.Order(tt.input)

			require.NoError(t, err)
			require.Len(t, order, 3)
			assert.Less(t, indexOf(order, "users"), indexOf(order, "orders"))
			assert.Less(t, indexOf(order, "orders"), indexOf(order, "order_items"))
		})
	}
}

func TestOrder_Diamond_ParentsBeforeChildren(t *testing.T) {
	// b and c both reference a; d references b and c
	tables := []string{"a", "b", "c", "d"}
	g := graphWithEdges(tables, []Edge{
		{ChildTable: "b", ParentTable: "a"},
		{ChildTable: "c", ParentTable: "a"},
		{ChildTable: "d", ParentTable: "b"},
		{ChildTable: "d", ParentTable: "c"},
	})

	order, err := g.Order(tables)

	require.NoError(t, err)
	require.Len(t, order, 4)
	assert.Less(t, indexOf(order, "a"), indexOf(order, "b"))
	assert.Less(t, indexOf(order, "a"), indexOf(order, "c"))
	assert.Less(t, indexOf(order, "b"), indexOf(order, "d"))
	assert.Less(t, indexOf(order, "c"), indexOf(order, "d"))
}

func TestOrder_TwoTableCycle_FailsNamingBothTables(t *testing.T) {
	tables := []string{"a", "b"}
	g := graphWithEdges(tables, []Edge{
		{ChildTable: "b", ParentTable: "a"},
		{ChildTable: "a", ParentTable: "b"},
	})

	order, err := g.Order(tables)

	require.Error(t, err)
	assert.Nil(t, order)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Contains(t, cycleErr.Tables, "a")
	assert.Contains(t, cycleErr.Tables, "b")
	assert.Contains(t, err.Error(), "cyclic foreign-key dependency")
}

func TestOrder_CycleBehindChain_Fails(t *testing.T) {
	// a -> b -> c -> b is a cycle reached through a
	tables := []string{"a", "b", "c"}
	g := graphWithEdges(tables, []Edge{
		{ChildTable: "b", ParentTable: "a"},
		{ChildTable: "c", ParentTable: "b"},
		{ChildTable: "b", ParentTable: "c"},
	})

	_, err := g.Order(tables)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Contains(t, cycleErr.Tables, "b")
	assert.Contains(t, cycleErr.Tables, "c")
	assert.NotContains(t, cycleErr.Tables[1:], "a")
}

func TestOrder_DeepChain_NoStackExhaustion(t *testing.T) {
	// 10k-deep parent chain; the explicit stack must handle this.
	const depth = 10000
	tables := make([]string, depth)
	for i := range tables {
		tables[i] = tableName(i)
	}
	g := NewGraph(tables)
	for i := 1; i < depth; i++ {
		g.AddEdge(Edge{ChildTable: tableName(i), ParentTable: tableName(i - 1)})
	}

	order, err := g.Order(tables)

	require.NoError(t, err)
	require.Len(t, order, depth)
	for i := 1; i < depth; i++ {
		assert.Less(t, indexOf(order, tableName(i-1)), indexOf(order, tableName(i)))
	}
}

func tableName(i int) string {
	return "t" + string(rune('a'+i%26)) + "_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
