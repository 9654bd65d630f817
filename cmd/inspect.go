package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagefit/pagefit/internal/callgraph"
	"github.com/pagefit/pagefit/internal/profile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <profile>",
	Short: "Summarize a profile without assigning bins",
	Long: `Loads a function profile and prints its call-graph shape: how many
functions participate, how calls cluster, and which clusters are too
large for a single bin. Useful for checking a profile before running
'pagefit assign'.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.Int("top", 10, "number of largest functions to list (0 disables)")
	f.String("sort-by", "size", "sort listed functions by: size, name")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(inspectCmd)
}

type profileStats struct {
	Module          string `json:"module,omitempty"`
	Functions       int    `json:"functions"`
	Participating   int    `json:"participating"`
	Excluded        int    `json:"excluded"`
	TotalSize       int64  `json:"total_size"`
	MeanSize        int64  `json:"mean_size"`
	Calls           int    `json:"calls"`
	UniqueCalls     int    `json:"unique_calls"`
	Clusters        int    `json:"clusters"`
	CyclicGroups    int    `json:"cyclic_groups"`
	InCycles        int    `json:"functions_in_cycles"`
	OverCapacity    int    `json:"clusters_over_capacity"`
	PagesLowerBound int    `json:"pages_lower_bound"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	prof, err := profile.Load(args[0])
	if err != nil {
		return err
	}

	stats, err := gatherStats(prof, cfg.Binning.BinCapacity)
	if err != nil {
		return err
	}

	w := os.Stdout
	if outFile, _ := cmd.Flags().GetString("output-file"); outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	// Table output
	fmt.Fprintf(w, "Profile: %s\n", args[0])
	if stats.Module != "" {
		fmt.Fprintf(w, "Module:  %s\n", stats.Module)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Functions:          %d (%d excluded)\n", stats.Functions, stats.Excluded)
	fmt.Fprintf(w, "Participating size: %d bytes (%d mean)\n", stats.TotalSize, stats.MeanSize)
	fmt.Fprintf(w, "Calls:              %d (%d distinct between participants)\n", stats.Calls, stats.UniqueCalls)
	fmt.Fprintf(w, "Call clusters:      %d (%d cyclic, %d functions in cycles)\n",
		stats.Clusters, stats.CyclicGroups, stats.InCycles)
	fmt.Fprintf(w, "Over bin capacity:  %d clusters\n", stats.OverCapacity)
	fmt.Fprintf(w, "Pages, best case:   %d\n", stats.PagesLowerBound)

	top, _ := cmd.Flags().GetInt("top")
	if top > 0 && len(prof.Functions) > 0 {
		sortBy, _ := cmd.Flags().GetString("sort-by")
		printTopFunctions(w, prof, sortBy, top)
	}

	return nil
}

// gatherStats loads the profile's call graph and condenses it the same
// way assignment does, so the reported cluster counts match what
// 'pagefit assign' will see.
func gatherStats(prof *profile.Profile, capacity int64) (profileStats, error) {
	stats := profileStats{
		Module:    prof.Module,
		Functions: len(prof.Functions),
		Calls:     len(prof.Calls),
	}

	dense := make([]int, len(prof.Functions))
	var sizes []int64
	for i, fn := range prof.Functions {
		if fn.Exclude {
			dense[i] = -1
			stats.Excluded++
			continue
		}
		dense[i] = len(sizes)
		sizes = append(sizes, fn.Size)
		stats.TotalSize += fn.Size
	}
	stats.Participating = len(sizes)
	if stats.Participating > 0 {
		stats.MeanSize = stats.TotalSize / int64(stats.Participating)
	}

	idx := prof.Index()
	graph := callgraph.New(len(sizes))
	for _, call := range prof.Calls {
		caller, callee := dense[idx[call.Caller]], dense[idx[call.Callee]]
		if caller < 0 || callee < 0 {
			continue
		}
		if err := graph.AddCall(caller, callee); err != nil {
			return stats, fmt.Errorf("recording call %s -> %s: %w", call.Caller, call.Callee, err)
		}
	}
	stats.UniqueCalls = graph.Edges()

	cond := graph.Condense()
	stats.Clusters = len(cond.Clusters)
	for _, cl := range cond.Clusters {
		var size int64
		for _, f := range cl.Members {
			size += sizes[f]
		}
		if len(cl.Members) > 1 {
			stats.CyclicGroups++
			stats.InCycles += len(cl.Members)
		}
		if size > capacity {
			stats.OverCapacity++
		}
	}

	if capacity > 0 {
		stats.PagesLowerBound = int((stats.TotalSize + capacity - 1) / capacity)
	}

	return stats, nil
}

func printTopFunctions(w io.Writer, prof *profile.Profile, sortBy string, top int) {
	out := make(map[string]int)
	in := make(map[string]int)
	for _, c := range prof.Calls {
		out[c.Caller]++
		in[c.Callee]++
	}

	fns := make([]profile.Function, len(prof.Functions))
	copy(fns, prof.Functions)
	sortFunctions(fns, sortBy)
	if len(fns) > top {
		fns = fns[:top]
	}

	fmt.Fprintf(w, "\nLargest functions:\n")
	fmt.Fprintf(w, "%-40s %10s %9s %9s %s\n", "FUNCTION", "SIZE", "CALLS OUT", "CALLS IN", "FLAGS")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 78))

	for _, fn := range fns {
		flags := ""
		if fn.Exclude {
			flags = "[excluded]"
		}
		fmt.Fprintf(w, "%-40s %10d %9d %9d %s\n",
			truncate(fn.Name, 40), fn.Size, out[fn.Name], in[fn.Name], flags)
	}
}

func sortFunctions(fns []profile.Function, by string) {
	switch by {
	case "name":
		sort.Slice(fns, func(i, j int) bool {
			return fns[i].Name < fns[j].Name
		})
	default: // size
		sort.Slice(fns, func(i, j int) bool {
			return fns[i].Size > fns[j].Size
		})
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
