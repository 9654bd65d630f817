package binning

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

// buildClusterer adds the sizes as nodes 0..n-1 and wires the edges,
// which must already be in bottom-up order.
func buildClusterer(t *testing.T, sizes []int64, edges [][2]int) *Clusterer {
	t.Helper()
	c := NewClusterer(nil)
	for _, s := range sizes {
		c.AddNode(s)
	}
	for _, e := range edges {
		if err := c.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%d, %d): %v", e[0], e[1], err)
		}
	}
	return c
}

func checkAssignments(t *testing.T, got map[int]int, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d assignments, want %d", len(got), len(want))
	}
	for id, bin := range want {
		if got[id] != bin {
			t.Errorf("cluster %d: got bin %d, want bin %d", id, got[id], bin)
		}
	}
}

func TestClusterer_NoEdges(t *testing.T) {
	c := buildClusterer(t, []int64{2003, 2002, 2001}, nil)
	got := c.ComputeAssignments()
	checkAssignments(t, got, []int{1, 1, 2})
}

func TestClusterer_CallGraphExample(t *testing.T) {
	// Two subtrees under a common root plus one near-bin-sized leaf.
	// Exercises transitive sizing, largest-fits-first selection,
	// closure assignment and caller adjustment together.
	sizes := []int64{600, 800, 3500, 1000, 1000, 1000, 4000, 100}
	edges := [][2]int{
		{2, 7}, {2, 6},
		{1, 5}, {1, 4}, {1, 3},
		{0, 2}, {0, 1},
	}
	c := buildClusterer(t, sizes, edges)
	got := c.ComputeAssignments()
	checkAssignments(t, got, []int{4, 2, 3, 2, 2, 2, 1, 3})

	if over := c.Oversized(); len(over) != 0 {
		t.Errorf("expected no oversized clusters, got %v", over)
	}
}

func TestClusterer_ClosureSharesBin(t *testing.T) {
	sizes := []int64{100, 200, 300}
	edges := [][2]int{{0, 1}, {0, 2}}
	c := buildClusterer(t, sizes, edges)
	got := c.ComputeAssignments()
	checkAssignments(t, got, []int{1, 1, 1})
}

func TestClusterer_SharedCalleeKeepsFirstBin(t *testing.T) {
	// 1 and 2 both call 3. Whichever closure is packed first takes 3
	// with it; the later closure is packed at its stale transitive
	// size but 3 keeps its original bin.
	sizes := []int64{100, 600, 600, 3000}
	edges := [][2]int{{1, 3}, {2, 3}, {0, 1}, {0, 2}}
	c := buildClusterer(t, sizes, edges)
	got := c.ComputeAssignments()
	checkAssignments(t, got, []int{1, 1, 2, 1})
}

func TestClusterer_ForestPacksTreesWhole(t *testing.T) {
	sizes := []int64{
		500, 1000, 1200, // tree rooted at 0, transitive 2700
		400, 900, 1100, // tree rooted at 3, transitive 2400
		300, 600, 700, // tree rooted at 6, transitive 1600
	}
	edges := [][2]int{{0, 1}, {0, 2}, {3, 4}, {3, 5}, {6, 7}, {6, 8}}
	c := buildClusterer(t, sizes, edges)
	got := c.ComputeAssignments()
	checkAssignments(t, got, []int{1, 1, 1, 2, 2, 2, 2, 2, 2})

	// No bin may hold more than its capacity in summed own sizes.
	totals := make(map[int]int64)
	for id, bin := range got {
		totals[bin] += sizes[id]
	}
	for bin, total := range totals {
		if total > DefaultBinCapacity {
			t.Errorf("bin %d holds %d bytes, capacity is %d", bin, total, DefaultBinCapacity)
		}
	}
}

func TestClusterer_OversizedFallback(t *testing.T) {
	// Nothing fits: the smallest oversized cluster goes first, each
	// into its own force-expanded bin.
	c := buildClusterer(t, []int64{4098, 4097}, nil)
	got := c.ComputeAssignments()
	checkAssignments(t, got, []int{2, 1})

	over := c.Oversized()
	if !reflect.DeepEqual(over, []int{1, 0}) {
		t.Errorf("Oversized: got %v, want [1 0]", over)
	}
}

func TestClusterer_OversizedClusterSingleBin(t *testing.T) {
	// A cycle collapsed into one node bigger than a bin is packed
	// whole, not split.
	c := buildClusterer(t, []int64{9000}, nil)
	got := c.ComputeAssignments()
	checkAssignments(t, got, []int{1})
	if over := c.Oversized(); len(over) != 1 || over[0] != 0 {
		t.Errorf("Oversized: got %v, want [0]", over)
	}
}

func TestClusterer_UnknownEdge(t *testing.T) {
	c := NewClusterer(nil)
	c.AddNode(100)

	if err := c.AddEdge(0, 5); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(0, 5): got %v, want ErrUnknownNode", err)
	}
	if err := c.AddEdge(3, 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(3, 0): got %v, want ErrUnknownNode", err)
	}
	if err := c.AddEdge(-1, 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(-1, 0): got %v, want ErrUnknownNode", err)
	}
}

func TestClusterer_Empty(t *testing.T) {
	c := NewClusterer(nil)
	if got := c.ComputeAssignments(); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestClusterer_SecondCallReturnsEmpty(t *testing.T) {
	c := buildClusterer(t, []int64{2003, 2002, 2001}, nil)
	if got := c.ComputeAssignments(); len(got) != 3 {
		t.Fatalf("first call: got %d assignments, want 3", len(got))
	}
	if got := c.ComputeAssignments(); len(got) != 0 {
		t.Errorf("second call: expected empty map, got %v", got)
	}
}

func TestClusterer_RegistrationOrderKeepsPartition(t *testing.T) {
	// Permuting the registration order of independent clusters may
	// renumber bins but must not change which sizes share a bin.
	partition := func(order []int64) [][]int64 {
		c := NewClusterer(nil)
		for _, s := range order {
			c.AddNode(s)
		}
		got := c.ComputeAssignments()
		byBin := make(map[int][]int64)
		for id, bin := range got {
			byBin[bin] = append(byBin[bin], order[id])
		}
		var groups [][]int64
		for _, sizes := range byBin {
			sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
			groups = append(groups, sizes)
		}
		sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
		return groups
	}

	a := partition([]int64{2003, 2002, 2001})
	b := partition([]int64{2001, 2003, 2002})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("partitions differ: %v vs %v", a, b)
	}
}

func TestClusterer_TreeOrderKeepsPartition(t *testing.T) {
	// Two three-node trees, registered in either order. Bin numbers may
	// move, but two sizes share a bin in one order iff they do in the
	// other.
	type tree struct{ root, left, right int64 }
	ta := tree{root: 500, left: 1000, right: 1200}
	tb := tree{root: 400, left: 900, right: 1100}

	build := func(order ...tree) map[int64]int {
		c := NewClusterer(nil)
		for _, tr := range order {
			l := c.AddNode(tr.left)
			r := c.AddNode(tr.right)
			root := c.AddNode(tr.root)
			if err := c.AddEdge(root, l); err != nil {
				t.Fatalf("AddEdge: %v", err)
			}
			if err := c.AddEdge(root, r); err != nil {
				t.Fatalf("AddEdge: %v", err)
			}
		}
		got := c.ComputeAssignments()
		bySize := make(map[int64]int, len(got))
		for _, tr := range order {
			for _, s := range []int64{tr.left, tr.right, tr.root} {
				bySize[s] = got[len(bySize)]
			}
		}
		return bySize
	}

	first := build(ta, tb)
	second := build(tb, ta)

	sizes := []int64{500, 1000, 1200, 400, 900, 1100}
	for _, x := range sizes {
		for _, y := range sizes {
			if (first[x] == first[y]) != (second[x] == second[y]) {
				t.Errorf("sizes %d and %d: shared=%v in one order, %v in the other",
					x, y, first[x] == first[y], second[x] == second[y])
			}
		}
	}
}

func BenchmarkClusterer_LayeredDAG(b *testing.B) {
	const trees = 200

	for i := 0; i < b.N; i++ {
		c := NewClusterer(nil)
		for tr := 0; tr < trees; tr++ {
			root := c.AddNode(int64(300 + (tr*37)%500))
			left := c.AddNode(int64(100 + (tr*53)%900))
			right := c.AddNode(int64(100 + (tr*71)%1100))
			_ = c.AddEdge(root, left)
			_ = c.AddEdge(root, right)
		}
		c.ComputeAssignments()
	}
}
