package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rickb777/date"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/route-schedule-sync/internal/schedule"
)

// Scheduler runs the schedule sync once a day in serve mode.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *schedule.Service
	at        string
}

// New creates a Scheduler that triggers the sync daily at the given "HH:MM"
// UTC time.
func New(service *schedule.Service, at string) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		at:        at,
	}
}

// Start schedules the daily job and starts the underlying scheduler. The
// window always starts at the current day, keeping the seven-day horizon
// rolling.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		logrus.Info("scheduler: running schedule sync job")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		report, err := s.service.SyncWindow(ctx, date.Today())
		if err != nil {
			logrus.WithError(err).Error("scheduler: schedule sync run aborted")
		}
		if report != nil {
			logrus.Infof("scheduler: sync report:\n%s", report)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
