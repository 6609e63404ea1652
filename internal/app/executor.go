package app

import (
	"context"
	"errors"
	"fmt"

	"appmerge/internal/domain"
	appErrors "appmerge/internal/errors"
	"appmerge/internal/logging"
)

// ProgressFunc is called after each applied item.
type ProgressFunc func(current, total int, item domain.PlanItem)

type Executor struct {
	Writer DestinationWriter
	Logger logging.Logger
}

// Execute applies every planned item in order. A plan with conflicts is
// refused as a whole.
func (e *Executor) Execute(ctx context.Context, plan domain.MergePlan, onProgress ProgressFunc) error {
	if e.Writer == nil {
		return errors.New("executor requires a destination writer")
	}
	if plan.Blocked() {
		return appErrors.Wrap(appErrors.Conflict, "merge", plan.Destination,
			fmt.Errorf("%d conflicting items", len(plan.Conflicts)))
	}

	stop := e.Logger.Measure("Executing merge")
	defer stop()

	total := len(plan.Items)
	for i, item := range plan.Items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.Writer.Apply(ctx, item); err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "apply", item.Name, err)
		}
		e.Logger.Verbosef("applied %s %d (%s)", item.Collection, item.ID, item.Name)
		if onProgress != nil {
			onProgress(i+1, total, item)
		}
	}
	return nil
}
