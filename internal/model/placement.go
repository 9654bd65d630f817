package model

import "fmt"

// SectionPrefix starts every emitted section name. A function placed
// in bin 7 lands in ".bin_7".
const SectionPrefix = ".bin_"

// SectionName returns the output section for a bin.
func SectionName(bin int) string {
	return fmt.Sprintf("%s%d", SectionPrefix, bin)
}

// Placement pins one function to a bin.
type Placement struct {
	Function string `json:"function"`
	Size     int64  `json:"size"`

	// Bin 0 is reserved for functions outside the binned layout.
	Bin      int    `json:"bin"`
	Section  string `json:"section,omitempty"`
	Excluded bool   `json:"excluded,omitempty"`
}

// Binned reports whether the function received a real bin.
func (p Placement) Binned() bool {
	return p.Bin > 0
}

// BinUsage describes one opened bin after assignment.
type BinUsage struct {
	Bin       int     `json:"bin"`
	Functions int     `json:"functions"`
	Used      int64   `json:"used_bytes"`
	Pages     int     `json:"pages"`
	Free      int64   `json:"free_bytes"`
	Fill      float64 `json:"fill"` // 0.0 - 1.0

	// Expanded bins hold a cluster larger than one page.
	Expanded bool `json:"expanded,omitempty"`
}
