package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pagefit/pagefit/internal/model"
)

// TableReporter outputs the assignment as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, result *model.Result, meta ReportMeta) error {
	// Header
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "Pagefit Bin Assignment\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Module:      %s\n", meta.Module)
	fmt.Fprintf(r.w, "Source:      %s\n", meta.Source)
	fmt.Fprintf(r.w, "Strategy:    %s\n", meta.Strategy)
	fmt.Fprintf(r.w, "Bin size:    %d bytes\n", meta.BinCapacity)
	fmt.Fprintf(r.w, "Generated:   %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	if len(result.Placements) == 0 {
		fmt.Fprintf(r.w, "No functions to assign.\n")
		return nil
	}

	rows := make([]model.Placement, len(result.Placements))
	copy(rows, result.Placements)
	sortPlacements(rows, meta.SortBy)

	fmt.Fprintf(r.w, "%-40s %10s %6s %-12s\n", "Function", "Size", "Bin", "Section")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 72))
	for _, pl := range rows {
		section := pl.Section
		if pl.Excluded {
			section = "(excluded)"
		}
		name := pl.Function
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		fmt.Fprintf(r.w, "%-40s %10d %6d %-12s\n", name, pl.Size, pl.Bin, section)
	}
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 72))

	// Bin usage
	fmt.Fprintf(r.w, "\n%-6s %10s %10s %7s %6s %6s\n", "Bin", "Used", "Free", "Fill", "Funcs", "Pages")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 55))
	for _, b := range result.Bins {
		marker := ""
		if b.Expanded {
			marker = " (expanded)"
		}
		fmt.Fprintf(r.w, "%-6d %10d %10d %6.1f%% %6d %6d%s\n",
			b.Bin, b.Used, b.Free, b.Fill*100, b.Functions, b.Pages, marker)
	}
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 55))

	// Summary detail
	fmt.Fprintf(r.w, "\nSummary: %s\n", result.Summary)
	fmt.Fprintf(r.w, "  Bins:          %d (%d pages)\n",
		result.Fragmentation.BinsUsed, result.Fragmentation.TotalPages)
	fmt.Fprintf(r.w, "  Code bytes:    %d\n", result.Fragmentation.UsedBytes)
	fmt.Fprintf(r.w, "  Wasted bytes:  %d\n", result.Fragmentation.WastedBytes)
	fmt.Fprintf(r.w, "  Average fill:  %.1f%%\n", result.Fragmentation.AvgFill*100)
	if result.FunctionsExcluded > 0 {
		fmt.Fprintf(r.w, "  Excluded:      %d functions\n", result.FunctionsExcluded)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(r.w, "\n  Warnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(r.w, "    - %s\n", w)
		}
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}

// sortPlacements orders rows for display. Bin order keeps the
// functions of a bin together, alphabetical within a bin.
func sortPlacements(rows []model.Placement, sortBy string) {
	switch sortBy {
	case "name":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Function < rows[j].Function
		})
	case "size":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Size > rows[j].Size
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Bin != rows[j].Bin {
				return rows[i].Bin < rows[j].Bin
			}
			return rows[i].Function < rows[j].Function
		})
	}
}
