package core

import (
	"sort"

	apperrors "cinehub/pkg/errors"
	"cinehub/pkg/logger"
	"cinehub/pkg/metrics"
)

type Engine struct {
	flows map[string]Flow
	log   *logger.Logger
}

func NewEngine(log *logger.Logger, flows ...Flow) *Engine {
	m := map[string]Flow{}
	for _, f := range flows {
		m[f.Name()] = f
	}
	return &Engine{flows: m, log: log}
}

// Run executes the steps of flowName in order and stops at the first failure.
// The failing step's error is returned as is so callers keep its status code.
func (e *Engine) Run(flowName string, ctx *FlowContext) error {
	f, exists := e.flows[flowName]
	if !exists {
		return apperrors.NotFoundWithID("Flow", flowName)
	}
	for _, step := range f.Steps() {
		if err := ctx.Ctx.Err(); err != nil {
			e.log.Warn("flow aborted before step",
				"flow", flowName,
				"step", step.Name,
				"error", err,
			)
			return apperrors.Timeout("Request timeout")
		}

		err := step.Execute(ctx)
		metrics.TrackCheckoutStep(flowName, step.Name, err)
		if err != nil {
			e.log.Warn("flow step failed",
				"flow", flowName,
				"step", step.Name,
				"user_id", ctx.UserID,
				"error", err,
			)
			return err
		}
		e.log.Debug("flow step completed", "flow", flowName, "step", step.Name)
	}
	return nil
}

func (e *Engine) Flows() []string {
	names := make([]string, 0, len(e.flows))
	for name := range e.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
