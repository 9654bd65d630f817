package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pagefit/pagefit/internal/model"
)

// JSONReporter outputs the assignment as JSON.
type JSONReporter struct {
	w io.Writer
}

type jsonOutput struct {
	Meta   ReportMeta    `json:"meta"`
	Result *model.Result `json:"result"`
}

func (r *JSONReporter) Report(ctx context.Context, result *model.Result, meta ReportMeta) error {
	output := jsonOutput{
		Meta:   meta,
		Result: result,
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
