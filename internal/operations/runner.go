package operations

import (
	"context"
	"log/slog"
	"time"

	"covercli/internal/config"
	"covercli/internal/infrastructure"
)

// Runner executes selected steps one after another
type Runner struct {
	registry *Registry
	paths    *config.Paths
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewRunner creates a runner. tracer may be nil.
func NewRunner(registry *Registry, paths *config.Paths, tracer *OperationTracer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry: registry,
		paths:    paths,
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "runner"),
	}
}

// Params returns the default params of stepID with overrides applied
func (r *Runner) Params(stepID string, overrides Params) (Params, error) {
	step, err := r.registry.Get(stepID)
	if err != nil {
		return Params{}, err
	}
	return step.DefaultParams(r.paths).Override(overrides), nil
}

// Run executes the requests in order and stops at the first failure. The
// results of the steps that completed are returned along with the error,
// which is always an *OperationError.
func (r *Runner) Run(ctx context.Context, requests ...Request) ([]*Result, error) {
	// resolve every ID before touching any file
	steps := make([]Step, len(requests))
	for i, req := range requests {
		step, err := r.registry.Get(req.StepID)
		if err != nil {
			r.logStepError(ctx, req.StepID, err)
			return nil, err
		}
		steps[i] = step
	}

	results := make([]*Result, 0, len(requests))
	for i, step := range steps {
		res, err := r.runStep(ctx, step, step.DefaultParams(r.paths).Override(requests[i].Params))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step Step, params Params) (*Result, error) {
	ctx, span := r.tracer.TraceStep(ctx, step, params)
	start := time.Now()
	r.logStepStart(ctx, step, params)

	res, err := r.execute(ctx, step, params)
	duration := time.Since(start)
	if res != nil {
		res.Duration = duration
	}

	r.tracer.EndStep(ctx, span, step.ID(), res, duration, err)

	if err != nil {
		r.logStepError(ctx, step.ID(), err)
		return nil, err
	}

	r.logUnmatchedKeys(ctx, res)
	r.logStepComplete(ctx, res)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, step Step, params Params) (*Result, error) {
	if err := step.Validate(params); err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		return nil, NewValidationError(step.ID(), "invalid parameters", err)
	}

	res, err := step.Execute(ctx, params)
	if err != nil {
		return nil, NewExecutionError(step.ID(), err)
	}
	if res.StepID == "" {
		res.StepID = step.ID()
	}
	return res, nil
}
