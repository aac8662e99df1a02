package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rickb777/date"
	"github.com/sirupsen/logrus"
)

// DefaultWindowDays is how many consecutive days one sync run covers.
const DefaultWindowDays = 7

// Report is the accumulated, human-readable outcome of a sync run. It is
// meant for people (status mails, job output), not for machine parsing.
type Report struct {
	RunID string
	lines []string
}

func (r *Report) addf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// endDay appends the separator that closes one day's block of messages.
func (r *Report) endDay() {
	r.lines = append(r.lines, "")
}

// Lines returns the report messages in the order they were recorded.
func (r *Report) Lines() []string {
	return r.lines
}

func (r *Report) String() string {
	return strings.Join(r.lines, "\n")
}

// Service re-syncs a rolling window of delivery schedules: for each day it
// deletes that day's rows, fetches the fresh schedule, flattens it and bulk
// inserts routes and stops.
type Service struct {
	fetcher    Fetcher
	store      Store
	loc        *time.Location
	windowDays int
}

// NewService creates a Service syncing windowDays consecutive days (values
// < 1 fall back to DefaultWindowDays), localizing stop times to loc.
func NewService(fetcher Fetcher, store Store, loc *time.Location, windowDays int) *Service {
	if windowDays < 1 {
		windowDays = DefaultWindowDays
	}
	return &Service{
		fetcher:    fetcher,
		store:      store,
		loc:        loc,
		windowDays: windowDays,
	}
}

// SyncWindow processes the window of consecutive days starting at start,
// sequentially and one day at a time. Per day: delete existing rows, fetch +
// transform, insert routes, insert stops. A failed fetch skips that day's
// inserts but never the remaining days; a duplicate-key insert is recorded
// as "already imported" and does not block the sibling insert. Any other
// error, including a delete failure, aborts the run; the report built so
// far is returned alongside the error. Each day's delete+insert sequence is
// not one atomic transaction, so a crash mid-day can leave that day
// partially written until the next run re-syncs it.
func (s *Service) SyncWindow(ctx context.Context, start date.Date) (*Report, error) {
	return s.SyncDays(ctx, start, s.windowDays)
}

// SyncDays is SyncWindow with an explicit window length, for callers that
// need a shorter or longer horizon than the configured one.
func (s *Service) SyncDays(ctx context.Context, start date.Date, days int) (*Report, error) {
	if days < 1 {
		days = s.windowDays
	}

	report := &Report{RunID: uuid.NewString()}
	log := logrus.WithFields(logrus.Fields{
		"run_id": report.RunID,
		"start":  start.String(),
		"days":   days,
	})
	log.Info("starting schedule sync window")

	day := start
	for i := 0; i < days; i++ {
		if err := s.store.DeleteDay(ctx, day); err != nil {
			return report, fmt.Errorf("deleting records for day %s: %w", day, err)
		}
		report.addf("Successfully deleted records for day %s, if any", day)

		var (
			routes  []RouteRecord
			stops   []StopRecord
			fetched bool
		)

		raw, err := s.fetcher.FetchDay(ctx, day)
		switch {
		case err == nil:
			if routes, stops, err = Transform(raw, day, s.loc); err != nil {
				return report, err
			}
			fetched = true
			report.addf("Successfully fetched the delivery schedule for day %s, if any", day)
		case IsFetchError(err):
			log.WithError(err).Errorf("fetching delivery schedule for day %s", day)
			report.addf("There was an exception fetching the delivery schedule for day %s", day)
		default:
			return report, err
		}

		if fetched {
			switch err := s.store.InsertRoutes(ctx, routes); {
			case err == nil:
				report.addf("Successfully inserted routes in the database for day %s, if any", day)
			case errors.Is(err, ErrDuplicateRecord):
				log.WithError(err).Errorf("inserting routes for day %s", day)
				report.addf("Delivery routes for %s have already been imported in the database", day)
			default:
				return report, err
			}

			switch err := s.store.InsertStops(ctx, stops); {
			case err == nil:
				report.addf("Successfully inserted stops in the database for day %s, if any", day)
			case errors.Is(err, ErrDuplicateRecord):
				log.WithError(err).Errorf("inserting stops for day %s", day)
				report.addf("Delivery stops for %s have already been imported in the database", day)
			default:
				return report, err
			}
		}

		report.endDay()
		day = day.Add(1)
	}

	log.Info("schedule sync window completed")
	return report, nil
}
