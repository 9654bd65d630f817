package layout

import (
	"context"

	"go.uber.org/zap"

	"github.com/pagefit/pagefit/internal/binning"
	"github.com/pagefit/pagefit/internal/model"
)

// SimpleAssigner places functions one at a time in profile order,
// ignoring the call graph.
type SimpleAssigner struct {
	log *zap.Logger
}

// NewSimpleAssigner creates the greedy per-function strategy.
func NewSimpleAssigner(log *zap.Logger) *SimpleAssigner {
	if log == nil {
		log = zap.NewNop()
	}
	return &SimpleAssigner{log: log}
}

// Name returns the strategy name.
func (a *SimpleAssigner) Name() string { return "simple" }

// Assign places every participating function of the profile.
func (a *SimpleAssigner) Assign(ctx context.Context, input AssignInput) (*AssignResult, error) {
	packer := binning.NewPacker(input.BinCapacity, input.MinItemSize)

	placements := make([]model.Placement, len(input.Profile.Functions))
	for i, fn := range input.Profile.Functions {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if fn.Exclude {
			placements[i] = model.Placement{Function: fn.Name, Size: fn.Size, Excluded: true}
			continue
		}

		bin := packer.Assign(fn.Size)
		placements[i] = model.Placement{
			Function: fn.Name,
			Size:     fn.Size,
			Bin:      bin,
			Section:  model.SectionName(bin),
		}
		a.log.Debug("placed function",
			zap.String("function", fn.Name),
			zap.Int64("size", fn.Size),
			zap.Int("bin", bin))
	}

	return &AssignResult{
		Placements: placements,
		BinsOpened: packer.BinsOpened(),
	}, nil
}
