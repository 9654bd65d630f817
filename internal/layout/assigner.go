package layout

import (
	"context"

	"github.com/pagefit/pagefit/internal/model"
	"github.com/pagefit/pagefit/internal/profile"
)

// Assigner defines a strategy for placing functions into bins.
type Assigner interface {
	// Assign places every participating function of the profile.
	Assign(ctx context.Context, input AssignInput) (*AssignResult, error)

	// Name returns the strategy name.
	Name() string
}

// AssignInput is the input to an assignment run.
type AssignInput struct {
	Profile     *profile.Profile
	BinCapacity int64
	MinItemSize int64
}

// AssignResult is the raw output of an assignment run.
type AssignResult struct {
	Placements        []model.Placement
	BinsOpened        int
	OversizedClusters int
}
