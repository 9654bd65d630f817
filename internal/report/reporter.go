package report

import (
	"context"
	"io"
	"time"

	"github.com/pagefit/pagefit/internal/model"
)

// Reporter formats and writes an assignment result to an output
// destination.
type Reporter interface {
	Report(ctx context.Context, result *model.Result, meta ReportMeta) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	Module      string
	Source      string // profile file the run was fed from
	Strategy    string
	BinCapacity int64
	GeneratedAt time.Time
	SortBy      string // "bin", "name" or "size"
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
