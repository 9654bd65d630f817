package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pagefit/pagefit/internal/layout"
	"github.com/pagefit/pagefit/internal/metrics"
	"github.com/pagefit/pagefit/internal/profile"
	"github.com/pagefit/pagefit/internal/report"
)

var assignCmd = &cobra.Command{
	Use:   "assign <profile>",
	Short: "Assign profiled functions to fixed-size bins",
	Long: `Reads a function profile (JSON or YAML), groups call-connected
functions and packs them into fixed-size bins.

With the callgraph strategy, functions that call each other are kept in
the same bin whenever their combined size fits, so a typical call chain
stays within a single page.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssign,
}

func init() {
	f := assignCmd.Flags()
	f.String("sort-by", "", "sort placements by: bin, name, size")
	f.String("output-file", "", "write the report to a file instead of stdout")
	f.StringSlice("exclude", nil, "function names to keep out of the binned layout")

	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	prof, err := profile.Load(args[0])
	if err != nil {
		return err
	}

	if names, _ := cmd.Flags().GetStringSlice("exclude"); len(names) > 0 {
		applyExclusions(prof, names)
	}
	if cmd.Flags().Changed("sort-by") {
		cfg.Output.SortBy, _ = cmd.Flags().GetString("sort-by")
	}

	var collector metrics.MetricsCollector = metrics.NewNop()
	var registry *prometheus.Registry
	if cfg.Metrics.TextfilePath != "" {
		registry = prometheus.NewRegistry()
		collector = metrics.NewPrometheusCollector(
			metrics.WithRegisterer(registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)
	}

	pipe := layout.New(cfg, collector, logger)
	if cfg.Output.Format == "json" {
		// Keep stdout parseable
		pipe.Writer = os.Stderr
	}

	result, err := pipe.Run(ctx, prof)
	if err != nil {
		return err
	}

	if registry != nil {
		if err := metrics.WriteTextfile(registry, cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("writing metrics textfile: %w", err)
		}
	}

	w := os.Stdout
	if path, _ := cmd.Flags().GetString("output-file"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	reporter := report.NewReporter(cfg.Output.Format, w)
	meta := report.ReportMeta{
		Module:      result.Module,
		Source:      args[0],
		Strategy:    result.Strategy,
		BinCapacity: result.BinCapacity,
		GeneratedAt: time.Now(),
		SortBy:      cfg.Output.SortBy,
	}
	return reporter.Report(ctx, result, meta)
}

// applyExclusions marks the named functions as excluded in place.
// Names that match nothing are ignored.
func applyExclusions(prof *profile.Profile, names []string) {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		excluded[n] = true
	}
	for i := range prof.Functions {
		if excluded[prof.Functions[i].Name] {
			prof.Functions[i].Exclude = true
		}
	}
}
