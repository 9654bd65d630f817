// Package callgraph builds a function-level call graph and collapses
// its cycles into a DAG of strongly-connected components.
package callgraph

import (
	"errors"
	"fmt"
)

// ErrUnknownFunction reports a call edge referencing a function index
// outside the graph.
var ErrUnknownFunction = errors.New("unknown function index")

// Graph is a directed call graph over dense function indices 0..n-1.
// Successor lists keep insertion order so traversals are deterministic.
type Graph struct {
	succ [][]int
	has  []map[int]bool
}

// New creates a graph over n functions and no edges.
func New(n int) *Graph {
	return &Graph{
		succ: make([][]int, n),
		has:  make([]map[int]bool, n),
	}
}

// Len returns the number of functions in the graph.
func (g *Graph) Len() int { return len(g.succ) }

// Edges returns the number of distinct call edges.
func (g *Graph) Edges() int {
	total := 0
	for _, s := range g.succ {
		total += len(s)
	}
	return total
}

// AddCall records a caller→callee edge. Repeated edges collapse to
// one; self-calls are kept and disappear later in condensation.
func (g *Graph) AddCall(caller, callee int) error {
	if caller < 0 || caller >= len(g.succ) {
		return fmt.Errorf("caller %d: %w", caller, ErrUnknownFunction)
	}
	if callee < 0 || callee >= len(g.succ) {
		return fmt.Errorf("callee %d: %w", callee, ErrUnknownFunction)
	}
	if g.has[caller] == nil {
		g.has[caller] = make(map[int]bool)
	}
	if g.has[caller][callee] {
		return nil
	}
	g.has[caller][callee] = true
	g.succ[caller] = append(g.succ[caller], callee)
	return nil
}

// Cluster is one strongly-connected component.
type Cluster struct {
	// Members holds the component's function indices.
	Members []int

	// Callees holds cluster indices this cluster calls, deduplicated,
	// intra-component edges dropped. All entries are smaller than the
	// cluster's own index.
	Callees []int
}

// Condensation is the cluster DAG. Clusters come in bottom-up order:
// every cluster appears after all clusters it calls, so registering
// them by ascending index satisfies a callees-first construction.
type Condensation struct {
	Clusters  []Cluster
	ClusterOf []int // function index → cluster index
}

// Condense collapses strongly-connected components and returns the
// cluster DAG. Kosaraju's algorithm: a postorder pass, then a sweep of
// the transpose in reverse postorder.
func (g *Graph) Condense() *Condensation {
	n := len(g.succ)

	stack := make([]int, 0, n)
	seen := make([]bool, n)
	var visit func(u int)
	visit = func(u int) {
		seen[u] = true
		for _, v := range g.succ[u] {
			if !seen[v] {
				visit(v)
			}
		}
		stack = append(stack, u)
	}
	for u := 0; u < n; u++ {
		if !seen[u] {
			visit(u)
		}
	}

	pred := make([][]int, n)
	for u := 0; u < n; u++ {
		for _, v := range g.succ[u] {
			pred[v] = append(pred[v], u)
		}
	}

	// Sweep the transpose in reverse postorder. Components fall out
	// top-down (callers first), the opposite of the order we emit.
	assigned := make([]bool, n)
	var members []int
	var collect func(u int)
	collect = func(u int) {
		assigned[u] = true
		members = append(members, u)
		for _, v := range pred[u] {
			if !assigned[v] {
				collect(v)
			}
		}
	}

	var topDown [][]int
	for i := n - 1; i >= 0; i-- {
		u := stack[i]
		if !assigned[u] {
			members = nil
			collect(u)
			topDown = append(topDown, members)
		}
	}

	nc := len(topDown)
	clusters := make([]Cluster, nc)
	clusterOf := make([]int, n)
	for i, mem := range topDown {
		ci := nc - 1 - i
		clusters[ci] = Cluster{Members: mem}
		for _, f := range mem {
			clusterOf[f] = ci
		}
	}

	seenEdge := make(map[[2]int]bool)
	for u := 0; u < n; u++ {
		cu := clusterOf[u]
		for _, v := range g.succ[u] {
			cv := clusterOf[v]
			if cu == cv {
				continue
			}
			key := [2]int{cu, cv}
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			clusters[cu].Callees = append(clusters[cu].Callees, cv)
		}
	}

	return &Condensation{Clusters: clusters, ClusterOf: clusterOf}
}
