package layout

import (
	"fmt"

	"github.com/pagefit/pagefit/internal/model"
)

// Warning thresholds.
const (
	LowFillThreshold  = 0.50
	HighWasteFraction = 0.25
)

// Summarize produces the one-line summary of a finished run.
func Summarize(r *model.Result) string {
	return fmt.Sprintf("%s: %d functions into %d bins, %.0f%% average fill",
		r.Strategy, r.FunctionsAssigned, r.Fragmentation.BinsUsed,
		r.Fragmentation.AvgFill*100)
}

// GenerateWarnings flags layout smells worth a second look.
func GenerateWarnings(r *model.Result) []string {
	var warnings []string

	if r.OversizedClusters > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%d call clusters exceed the bin capacity", r.OversizedClusters))
	}

	if r.Fragmentation.ExpandedBins > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%d bins span more than one page", r.Fragmentation.ExpandedBins))
	}

	if r.Fragmentation.UnderfilledBinFraction > LowFillThreshold {
		warnings = append(warnings,
			fmt.Sprintf("%.0f%% of bins are less than half full",
				r.Fragmentation.UnderfilledBinFraction*100))
	}

	if r.Fragmentation.TotalPages > 0 && r.BinCapacity > 0 {
		reserved := int64(r.Fragmentation.TotalPages) * r.BinCapacity
		wasteFrac := float64(r.Fragmentation.WastedBytes) / float64(reserved)
		if wasteFrac > HighWasteFraction {
			warnings = append(warnings,
				fmt.Sprintf("%.0f%% of reserved page space is unused", wasteFrac*100))
		}
	}

	if r.FunctionsExcluded > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%d functions stay outside the binned layout", r.FunctionsExcluded))
	}

	return warnings
}
