package model

import "time"

// FragmentationReport aggregates waste across opened bins.
type FragmentationReport struct {
	BinsUsed   int   `json:"bins_used"`
	TotalPages int   `json:"total_pages"`
	UsedBytes  int64 `json:"used_bytes"`

	// Free space left across all reserved pages
	WastedBytes int64 `json:"wasted_bytes"`

	// 1.0 = every reserved page completely full
	AvgFill float64 `json:"avg_fill"`

	// Fraction of bins below half fill
	UnderfilledBinFraction float64 `json:"underfilled_bin_fraction"`

	// Bins forced past one page by an oversized cluster
	ExpandedBins int `json:"expanded_bins"`
}

// Result captures the outcome of a single assignment run.
type Result struct {
	Module      string `json:"module,omitempty"`
	Strategy    string `json:"strategy"`
	BinCapacity int64  `json:"bin_capacity"`

	// Per-function placements, in profile order
	Placements []Placement `json:"placements"`

	// Per-bin usage, ordered by bin id
	Bins []BinUsage `json:"bins"`

	Fragmentation FragmentationReport `json:"fragmentation"`

	FunctionsAssigned int `json:"functions_assigned"`
	FunctionsExcluded int `json:"functions_excluded"`
	OversizedClusters int `json:"oversized_clusters"`

	// Human-readable summary and layout smells
	Summary  string   `json:"summary"`
	Warnings []string `json:"warnings,omitempty"`

	Duration time.Duration `json:"duration"`
}
