package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCalls(t *testing.T, g *Graph, edges ...[2]int) {
	t.Helper()
	for _, e := range edges {
		require.NoError(t, g.AddCall(e[0], e[1]))
	}
}

func TestCondense_NoEdges(t *testing.T) {
	g := New(3)
	c := g.Condense()

	require.Len(t, c.Clusters, 3)
	for i, cl := range c.Clusters {
		assert.Len(t, cl.Members, 1)
		assert.Empty(t, cl.Callees)
		assert.Equal(t, i, c.ClusterOf[cl.Members[0]])
	}
}

func TestCondense_Chain(t *testing.T) {
	g := New(3)
	mustCalls(t, g, [2]int{0, 1}, [2]int{1, 2})

	c := g.Condense()
	require.Len(t, c.Clusters, 3)

	// Deepest callee first.
	assert.Equal(t, []int{2}, c.Clusters[0].Members)
	assert.Equal(t, []int{1}, c.Clusters[1].Members)
	assert.Equal(t, []int{0}, c.Clusters[2].Members)

	assert.Empty(t, c.Clusters[0].Callees)
	assert.Equal(t, []int{0}, c.Clusters[1].Callees)
	assert.Equal(t, []int{1}, c.Clusters[2].Callees)
}

func TestCondense_CycleCollapses(t *testing.T) {
	g := New(3)
	mustCalls(t, g, [2]int{0, 1}, [2]int{1, 0}, [2]int{1, 2})

	c := g.Condense()
	require.Len(t, c.Clusters, 2)

	assert.Equal(t, []int{2}, c.Clusters[0].Members)
	assert.ElementsMatch(t, []int{0, 1}, c.Clusters[1].Members)
	assert.Equal(t, []int{0}, c.Clusters[1].Callees)
	assert.Equal(t, c.ClusterOf[0], c.ClusterOf[1])
}

func TestCondense_SelfCallDisappears(t *testing.T) {
	g := New(1)
	mustCalls(t, g, [2]int{0, 0})

	c := g.Condense()
	require.Len(t, c.Clusters, 1)
	assert.Equal(t, []int{0}, c.Clusters[0].Members)
	assert.Empty(t, c.Clusters[0].Callees)
}

func TestCondense_BridgedCycles(t *testing.T) {
	// Two mutual-recursion pairs, one calling the other.
	g := New(4)
	mustCalls(t, g,
		[2]int{0, 1}, [2]int{1, 0},
		[2]int{2, 3}, [2]int{3, 2},
		[2]int{1, 2},
	)

	c := g.Condense()
	require.Len(t, c.Clusters, 2)

	assert.ElementsMatch(t, []int{2, 3}, c.Clusters[0].Members)
	assert.ElementsMatch(t, []int{0, 1}, c.Clusters[1].Members)
	assert.Equal(t, []int{0}, c.Clusters[1].Callees)
	assert.Less(t, c.ClusterOf[2], c.ClusterOf[0])
}

func TestCondense_BottomUpOrder(t *testing.T) {
	// A tangle of cycles and cross edges. Whatever the component
	// layout, callee edges must always point at earlier clusters.
	g := New(8)
	mustCalls(t, g,
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0},
		[2]int{3, 4}, [2]int{4, 5}, [2]int{5, 3},
		[2]int{1, 4},
		[2]int{6, 0}, [2]int{6, 3},
		[2]int{7, 7},
	)

	c := g.Condense()

	total := 0
	for ci, cl := range c.Clusters {
		total += len(cl.Members)
		for _, callee := range cl.Callees {
			assert.Less(t, callee, ci, "cluster %d calls later cluster %d", ci, callee)
		}
		for _, f := range cl.Members {
			assert.Equal(t, ci, c.ClusterOf[f])
		}
	}
	assert.Equal(t, 8, total)
}

func TestCondense_Disconnected(t *testing.T) {
	g := New(4)
	mustCalls(t, g, [2]int{2, 3})

	c := g.Condense()
	require.Len(t, c.Clusters, 4)
	assert.Less(t, c.ClusterOf[3], c.ClusterOf[2])
}

func TestCondense_Empty(t *testing.T) {
	g := New(0)
	c := g.Condense()
	assert.Empty(t, c.Clusters)
	assert.Empty(t, c.ClusterOf)
}

func TestAddCall_UnknownIndex(t *testing.T) {
	g := New(2)

	assert.ErrorIs(t, g.AddCall(0, 2), ErrUnknownFunction)
	assert.ErrorIs(t, g.AddCall(5, 1), ErrUnknownFunction)
	assert.ErrorIs(t, g.AddCall(-1, 0), ErrUnknownFunction)
}

func TestAddCall_DeduplicatesEdges(t *testing.T) {
	g := New(2)
	mustCalls(t, g, [2]int{0, 1}, [2]int{0, 1}, [2]int{0, 1})

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, g.Edges())

	c := g.Condense()
	require.Len(t, c.Clusters, 2)
	assert.Len(t, c.Clusters[1].Callees, 1)
}
