package layout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagefit/pagefit/internal/binning"
	"github.com/pagefit/pagefit/internal/callgraph"
	"github.com/pagefit/pagefit/internal/model"
)

// CallGraphAssigner groups call-connected functions so a call chain
// lands in as few bins as possible.
type CallGraphAssigner struct {
	log *zap.Logger
}

// NewCallGraphAssigner creates the call-graph aware strategy.
func NewCallGraphAssigner(log *zap.Logger) *CallGraphAssigner {
	if log == nil {
		log = zap.NewNop()
	}
	return &CallGraphAssigner{log: log}
}

// Name returns the strategy name.
func (a *CallGraphAssigner) Name() string { return "callgraph" }

// Assign places every participating function of the profile.
func (a *CallGraphAssigner) Assign(ctx context.Context, input AssignInput) (*AssignResult, error) {
	prof := input.Profile

	// Dense ids over participating functions. Calls touching an
	// excluded function do not influence clustering.
	dense := make([]int, len(prof.Functions))
	var sizes []int64
	for i, fn := range prof.Functions {
		if fn.Exclude {
			dense[i] = -1
			continue
		}
		dense[i] = len(sizes)
		sizes = append(sizes, fn.Size)
	}

	idx := prof.Index()
	graph := callgraph.New(len(sizes))
	for _, call := range prof.Calls {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		caller := dense[idx[call.Caller]]
		callee := dense[idx[call.Callee]]
		if caller < 0 || callee < 0 {
			continue
		}
		if err := graph.AddCall(caller, callee); err != nil {
			return nil, fmt.Errorf("recording call %s -> %s: %w", call.Caller, call.Callee, err)
		}
	}

	cond := graph.Condense()

	// Clusters come out bottom-up, so every callee is already
	// registered when its caller arrives.
	packer := binning.NewPacker(input.BinCapacity, input.MinItemSize)
	clusterer := binning.NewClusterer(packer)
	clusterSizes := make([]int64, len(cond.Clusters))
	for ci, cluster := range cond.Clusters {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var size int64
		for _, m := range cluster.Members {
			size += sizes[m]
		}
		clusterSizes[ci] = size
		id := clusterer.AddNode(size)
		for _, callee := range cluster.Callees {
			if err := clusterer.AddEdge(id, callee); err != nil {
				return nil, fmt.Errorf("linking cluster %d: %w", ci, err)
			}
		}
	}

	assignments := clusterer.ComputeAssignments()

	placements := make([]model.Placement, len(prof.Functions))
	for i, fn := range prof.Functions {
		if fn.Exclude {
			placements[i] = model.Placement{Function: fn.Name, Size: fn.Size, Excluded: true}
			continue
		}
		bin := assignments[cond.ClusterOf[dense[i]]]
		placements[i] = model.Placement{
			Function: fn.Name,
			Size:     fn.Size,
			Bin:      bin,
			Section:  model.SectionName(bin),
		}
	}

	for ci, cluster := range cond.Clusters {
		a.log.Debug("placed cluster",
			zap.Int("cluster", ci),
			zap.Int("functions", len(cluster.Members)),
			zap.Int64("size", clusterSizes[ci]),
			zap.Int("bin", assignments[ci]))
	}

	return &AssignResult{
		Placements:        placements,
		BinsOpened:        packer.BinsOpened(),
		OversizedClusters: len(clusterer.Oversized()),
	}, nil
}
