package batch

import (
	"context"
	"fmt"

	"Jibcrane/internal/calc/crane"

	"github.com/google/uuid"
)

// MaxItems bounds one batch request.
const MaxItems = 200

type Runner interface {
	Run(ctx context.Context, in crane.Input) (uuid.UUID, crane.Result, error)
}

type Input struct {
	Items []crane.Input `json:"items"`
}

// ItemResult carries either a result or the error of one item.
type ItemResult struct {
	Index  int           `json:"index"`
	RunID  string        `json:"run_id,omitempty"`
	Result *crane.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type Result struct {
	Count   int          `json:"count"`
	Failed  int          `json:"failed"`
	Results []ItemResult `json:"results"`
}

// Calculate runs every item in order. A failing item is reported in its
// slot and does not stop the batch; only cancellation does.
func Calculate(ctx context.Context, run Runner, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return Result{}, fmt.Errorf("%d items exceed the limit of %d", len(in.Items), MaxItems)
	}
	out := Result{Results: make([]ItemResult, 0, len(in.Items))}
	for i, item := range in.Items {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		id, res, err := run.Run(ctx, item)
		ir := ItemResult{Index: i}
		if err != nil {
			ir.Error = err.Error()
			out.Failed++
		} else {
			ir.RunID = id.String()
			ir.Result = &res
		}
		out.Results = append(out.Results, ir)
	}
	out.Count = len(out.Results)
	return out, nil
}
