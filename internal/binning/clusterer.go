package binning

import (
	"errors"
	"fmt"
)

// ErrUnknownNode reports an edge referencing a cluster id that was
// never added.
var ErrUnknownNode = errors.New("unknown cluster node")

// Clusterer assigns call clusters to bins. Nodes represent
// strongly-connected components of a call graph, so the graph between
// them must be acyclic; collapsing cycles is the caller's job. Packing
// a cluster drags its whole callee closure into the same bin, keeping
// calls within the closure intra-bin.
type Clusterer struct {
	packer    *Packer
	nodes     []node
	pending   int
	oversized []int
}

// node is one cluster in the arena. Edges hold arena indices, and an
// assigned node stays in place as a tombstone, so indices never dangle.
type node struct {
	ownSize   int64
	transSize int64
	callers   []int
	callees   []int
	assigned  bool
}

// NewClusterer creates a clusterer that packs with p. A nil p gets a
// default packer.
func NewClusterer(p *Packer) *Clusterer {
	if p == nil {
		p = NewPacker(0, 0)
	}
	return &Clusterer{packer: p}
}

// AddNode registers a cluster with the given own size and returns its
// id. Ids are dense and sequential from 0.
func (c *Clusterer) AddNode(size int64) int {
	c.nodes = append(c.nodes, node{ownSize: size})
	c.pending++
	return len(c.nodes) - 1
}

// AddEdge records a caller→callee edge between existing nodes. Edges
// must arrive bottom-up: every edge out of the callee is registered
// before any edge pointing at it.
func (c *Clusterer) AddEdge(caller, callee int) error {
	if caller < 0 || caller >= len(c.nodes) {
		return fmt.Errorf("caller %d: %w", caller, ErrUnknownNode)
	}
	if callee < 0 || callee >= len(c.nodes) {
		return fmt.Errorf("callee %d: %w", callee, ErrUnknownNode)
	}
	c.nodes[caller].callees = append(c.nodes[caller].callees, callee)
	c.nodes[callee].callers = append(c.nodes[callee].callers, caller)
	return nil
}

// ComputeAssignments packs every cluster and returns the id→bin map.
// Repeatedly, the largest pending cluster that still fits a bin is
// selected (smallest first when nothing fits anymore), its transitive
// size is packed, and every not-yet-assigned member of its callee
// closure is mapped to the resulting bin. Members assigned by an
// earlier selection keep their bin. Intended to be called once; a
// drained clusterer returns an empty map.
func (c *Clusterer) ComputeAssignments() map[int]int {
	bins := make(map[int]int, c.pending)
	if c.pending == 0 {
		return bins
	}

	c.initTransitiveSizes()

	for c.pending > 0 {
		sel, fits := c.selectNode()
		if !fits {
			c.oversized = append(c.oversized, sel)
		}
		size := c.nodes[sel].transSize

		bin := c.packer.Assign(size)

		c.walk(sel, calleeEdges, func(id int) {
			n := &c.nodes[id]
			if !n.assigned {
				n.assigned = true
				c.pending--
				bins[id] = bin
			}
		})

		// Ancestors no longer carry the assigned closure's weight.
		c.walk(sel, callerEdges, func(id int) {
			n := &c.nodes[id]
			n.transSize -= size
			if n.transSize < n.ownSize {
				n.transSize = n.ownSize
			}
		})
	}
	return bins
}

// Oversized returns the ids of clusters that were selected while their
// transitive size exceeded the bin capacity, in selection order. Such
// clusters force-expand the bin they are packed into.
func (c *Clusterer) Oversized() []int { return c.oversized }

// initTransitiveSizes sets each node's transitive size: its own size
// plus the own sizes of every node reachable over callee edges, each
// counted once regardless of how many paths lead to it.
func (c *Clusterer) initTransitiveSizes() {
	for id := range c.nodes {
		var total int64
		c.walk(id, calleeEdges, func(n int) {
			total += c.nodes[n].ownSize
		})
		c.nodes[id].transSize = total
	}
}

// selectNode picks the pending node with the greatest transitive size
// that fits the bin capacity, lower id on ties. When every pending
// node is oversized it returns the smallest one and fits=false.
func (c *Clusterer) selectNode() (sel int, fits bool) {
	capacity := c.packer.Capacity()
	fit, over := -1, -1
	for id := range c.nodes {
		n := &c.nodes[id]
		if n.assigned {
			continue
		}
		if n.transSize <= capacity {
			if fit < 0 || n.transSize > c.nodes[fit].transSize {
				fit = id
			}
		} else if over < 0 || n.transSize < c.nodes[over].transSize {
			over = id
		}
	}
	if fit >= 0 {
		return fit, true
	}
	return over, false
}

// direction selects which adjacency a walk follows.
type direction int

const (
	calleeEdges direction = iota
	callerEdges
)

// walk visits every node reachable from start along one edge
// direction, start included, breadth-first, each node exactly once.
func (c *Clusterer) walk(start int, dir direction, visit func(id int)) {
	seen := make([]bool, len(c.nodes))
	seen[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visit(id)
		edges := c.nodes[id].callees
		if dir == callerEdges {
			edges = c.nodes[id].callers
		}
		for _, next := range edges {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
}
