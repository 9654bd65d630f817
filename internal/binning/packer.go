// Package binning assigns code units to fixed-capacity bins: a greedy
// tight-fit packer and a call-graph-aware clusterer built on top of it.
package binning

import "sort"

const (
	// DefaultBinCapacity is the nominal bin size in bytes. Bins back
	// page-sized code regions downstream, hence the 4 KiB default.
	DefaultBinCapacity = 4096

	// DefaultMinItemSize is the smallest free-space sliver worth
	// tracking. A bin with less usable space left is treated as full.
	DefaultMinItemSize = 2
)

// Packer places item sizes into bins greedily. Each item goes to the
// tracked bin with the least free space that still holds it; when no
// bin qualifies, a fresh bin is opened. An item larger than the
// capacity force-expands its bin rather than being split, and the
// leftover tail beyond the last capacity multiple stays usable.
//
// Bin ids start at 1. Id 0 is reserved for callers to mean "unassigned".
type Packer struct {
	capacity int64
	minItem  int64
	binCount int
	free     []freeSlot
}

// freeSlot records the usable free space left in one tracked bin. The
// slice is kept ascending by space, insertion order among equals, so
// ties go to the bin tracked longest.
type freeSlot struct {
	space int64
	bin   int
}

// NewPacker creates a packer. Non-positive capacity or minItem fall
// back to the defaults.
func NewPacker(capacity, minItem int64) *Packer {
	if capacity <= 0 {
		capacity = DefaultBinCapacity
	}
	if minItem <= 0 {
		minItem = DefaultMinItemSize
	}
	return &Packer{capacity: capacity, minItem: minItem}
}

// Assign places one item of the given size and returns its bin id.
// size must be positive.
func (p *Packer) Assign(size int64) int {
	var bin int
	var space int64

	i := sort.Search(len(p.free), func(i int) bool { return p.free[i].space >= size })
	if i < len(p.free) {
		bin = p.free[i].bin
		space = p.free[i].space - size
		p.free = append(p.free[:i], p.free[i+1:]...)
	} else {
		p.binCount++
		bin = p.binCount
		if rem := size % p.capacity; rem != 0 {
			space = p.capacity - rem
		}
	}

	if space >= p.minItem {
		p.track(freeSlot{space: space, bin: bin})
	}
	return bin
}

// Capacity returns the nominal bin capacity.
func (p *Packer) Capacity() int64 { return p.capacity }

// BinsOpened returns how many bins have been created so far.
func (p *Packer) BinsOpened() int { return p.binCount }

// track inserts a slot after any existing slots with equal space.
func (p *Packer) track(s freeSlot) {
	i := sort.Search(len(p.free), func(i int) bool { return p.free[i].space > s.space })
	p.free = append(p.free, freeSlot{})
	copy(p.free[i+1:], p.free[i:])
	p.free[i] = s
}
