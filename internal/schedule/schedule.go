package schedule

import (
	"context"

	"github.com/rickb777/date"
)

// Fetcher abstracts the remote routing API (e.g. OptimoRoute).
type Fetcher interface {
	Name() string
	FetchDay(ctx context.Context, day date.Date) (RawSchedule, error)
}

// Store is the contract the persistent route store must satisfy. DeleteDay
// removes every stop and route row whose identity timestamp falls on the
// given civil date; the insert methods perform one bulk insert each and are
// no-ops for empty batches.
type Store interface {
	DeleteDay(ctx context.Context, day date.Date) error
	InsertRoutes(ctx context.Context, records []RouteRecord) error
	InsertStops(ctx context.Context, records []StopRecord) error
}
