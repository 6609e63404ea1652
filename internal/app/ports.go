package app

import (
	"context"
	"time"

	"appmerge/internal/domain"
)

type CatalogSource interface {
	Load(ctx context.Context, app string) (domain.Catalog, error)
}

// Lock is a time-boxed hold on the source and destination apps.
type Lock struct {
	ID          string
	Source      string
	Destination string
	Until       time.Time
}

type Locker interface {
	Acquire(ctx context.Context, source, destination string) (Lock, error)
	Extend(ctx context.Context, id string) (time.Time, error)
	Release(ctx context.Context, id string) error
}

type DestinationWriter interface {
	Apply(ctx context.Context, item domain.PlanItem) error
}
