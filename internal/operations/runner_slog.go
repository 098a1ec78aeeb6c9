package operations

import (
	"context"
	"log/slog"
)

// logStepStart logs the start of a Step execution
func (r *Runner) logStepStart(ctx context.Context, step Step, params Params) {
	r.logger.InfoContext(ctx, "step_start",
		slog.String("step", step.ID()),
		slog.String("name", step.Name()),
		slog.Any("params", params))
}

// logStepComplete logs the completion of a Step execution
func (r *Runner) logStepComplete(ctx context.Context, res *Result) {
	r.logger.InfoContext(ctx, "step_complete",
		slog.String("step", res.StepID),
		slog.String("output", res.OutputPath),
		slog.Int("rows", res.Rows),
		slog.Int("columns", res.Columns),
		slog.Duration("duration", res.Duration))
}

// logStepError logs a Step error
func (r *Runner) logStepError(ctx context.Context, stepID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	r.logger.ErrorContext(ctx, "step_error",
		slog.String("step", stepID),
		slog.String("error_type", string(GetErrorType(err))),
		slog.String("error", errorMsg))
}

// logUnmatchedKeys warns about join keys that found no partner
func (r *Runner) logUnmatchedKeys(ctx context.Context, res *Result) {
	if res.UnmatchedLeft == 0 && res.UnmatchedRight == 0 {
		return
	}
	r.logger.WarnContext(ctx, "unmatched_join_keys",
		slog.String("step", res.StepID),
		slog.Int("unmatched_left", res.UnmatchedLeft),
		slog.Int("unmatched_right", res.UnmatchedRight))
}
