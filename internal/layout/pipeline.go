package layout

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pagefit/pagefit/internal/config"
	"github.com/pagefit/pagefit/internal/metrics"
	"github.com/pagefit/pagefit/internal/model"
	"github.com/pagefit/pagefit/internal/profile"
)

// Pipeline coordinates the end-to-end assignment flow.
type Pipeline struct {
	Config  config.Config
	Metrics metrics.MetricsCollector
	Logger  *zap.Logger
	Writer  io.Writer
}

// New creates a pipeline with the given dependencies.
func New(cfg config.Config, collector metrics.MetricsCollector, log *zap.Logger) *Pipeline {
	if collector == nil {
		collector = metrics.NewNop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		Config:  cfg,
		Metrics: collector,
		Logger:  log,
		Writer:  os.Stdout,
	}
}

// Run executes the full pipeline: assign → analyze → summarize.
func (p *Pipeline) Run(ctx context.Context, prof *profile.Profile) (*model.Result, error) {
	if prof == nil {
		return nil, fmt.Errorf("no profile provided")
	}

	cfg := p.Config
	assigner := p.assigner()

	_, _ = fmt.Fprintf(p.Writer, "Assigning %d functions (%s strategy, %d byte bins)...\n",
		prof.Participating(), assigner.Name(), cfg.Binning.BinCapacity)

	start := time.Now()
	raw, err := assigner.Assign(ctx, AssignInput{
		Profile:     prof,
		BinCapacity: cfg.Binning.BinCapacity,
		MinItemSize: cfg.Binning.MinItemSize,
	})
	if err != nil {
		p.Metrics.RecordAssignment(assigner.Name(), "failure", time.Since(start).Seconds())
		return nil, fmt.Errorf("assigning functions: %w", err)
	}
	duration := time.Since(start)

	bins, frag := AnalyzeBins(raw.Placements, cfg.Binning.BinCapacity)

	result := &model.Result{
		Module:            prof.Module,
		Strategy:          assigner.Name(),
		BinCapacity:       cfg.Binning.BinCapacity,
		Placements:        raw.Placements,
		Bins:              bins,
		Fragmentation:     frag,
		OversizedClusters: raw.OversizedClusters,
		Duration:          duration,
	}
	for _, pl := range raw.Placements {
		switch {
		case pl.Excluded:
			result.FunctionsExcluded++
		case pl.Binned():
			result.FunctionsAssigned++
		}
	}
	result.Summary = Summarize(result)
	result.Warnings = GenerateWarnings(result)

	p.record(assigner.Name(), result)

	_, _ = fmt.Fprintf(p.Writer, "Packed %d functions into %d bins (%.0f%% average fill)\n",
		result.FunctionsAssigned, frag.BinsUsed, frag.AvgFill*100)

	p.Logger.Info("assignment complete",
		zap.String("module", result.Module),
		zap.String("strategy", result.Strategy),
		zap.Int("functions", result.FunctionsAssigned),
		zap.Int("bins", frag.BinsUsed),
		zap.Float64("avg_fill", frag.AvgFill),
		zap.Duration("duration", duration))

	return result, nil
}

// assigner picks the strategy implementation for the configured name.
func (p *Pipeline) assigner() Assigner {
	if p.Config.Binning.Strategy == "simple" {
		return NewSimpleAssigner(p.Logger)
	}
	return NewCallGraphAssigner(p.Logger)
}

func (p *Pipeline) record(strategy string, r *model.Result) {
	p.Metrics.RecordAssignment(strategy, "success", r.Duration.Seconds())
	p.Metrics.SetBinsUsed(r.Fragmentation.BinsUsed)
	p.Metrics.SetBytesWasted(r.Fragmentation.WastedBytes)
	p.Metrics.SetFunctionsAssigned(r.FunctionsAssigned)
	p.Metrics.SetOversizedClusters(r.OversizedClusters)
	for _, b := range r.Bins {
		p.Metrics.ObserveBinFill(b.Fill)
	}
}
