package layout

import (
	"github.com/pagefit/pagefit/internal/model"
)

// AnalyzeBins computes per-bin usage and aggregate fragmentation for a
// set of placements. Bins are numbered contiguously from 1, so the
// largest bin id bounds the slice.
func AnalyzeBins(placements []model.Placement, capacity int64) ([]model.BinUsage, model.FragmentationReport) {
	maxBin := 0
	for _, pl := range placements {
		if pl.Bin > maxBin {
			maxBin = pl.Bin
		}
	}
	if maxBin == 0 || capacity <= 0 {
		return nil, model.FragmentationReport{}
	}

	bins := make([]model.BinUsage, maxBin)
	for i := range bins {
		bins[i].Bin = i + 1
	}
	for _, pl := range placements {
		if !pl.Binned() {
			continue
		}
		b := &bins[pl.Bin-1]
		b.Functions++
		b.Used += pl.Size
	}

	report := model.FragmentationReport{BinsUsed: maxBin}
	var fillSum float64
	var underfilled int
	for i := range bins {
		b := &bins[i]

		// An oversized cluster forces a bin past one page.
		pages := int((b.Used + capacity - 1) / capacity)
		if pages < 1 {
			pages = 1
		}
		b.Pages = pages
		total := int64(pages) * capacity
		b.Free = total - b.Used
		b.Fill = float64(b.Used) / float64(total)
		b.Expanded = pages > 1

		if b.Expanded {
			report.ExpandedBins++
		}
		if b.Fill < LowFillThreshold {
			underfilled++
		}
		report.TotalPages += pages
		report.UsedBytes += b.Used
		report.WastedBytes += b.Free
		fillSum += b.Fill
	}

	report.AvgFill = fillSum / float64(maxBin)
	report.UnderfilledBinFraction = float64(underfilled) / float64(maxBin)

	return bins, report
}
