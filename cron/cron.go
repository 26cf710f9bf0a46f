package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/services"
)

const (
	reminderSpec   = "* * * * *"
	reconcileSpec  = "*/10 * * * *"
	reconcileLimit = 100
	jobTimeout     = 5 * time.Minute
)

// BookingJobs is the part of the booking service the scheduler drives.
type BookingJobs interface {
	SendReminders(ctx context.Context) (int, error)
	ReconcileCalendar(ctx context.Context, limit int) (*services.ReconcileResult, error)
}

// Scheduler runs the booking reminders every minute and calendar
// reconciliation every ten minutes.
type Scheduler struct {
	cron *cron.Cron
	jobs BookingJobs
}

func New(jobs BookingJobs) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs: jobs,
	}
	if _, err := s.cron.AddFunc(reminderSpec, s.sendReminders); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(reconcileSpec, s.reconcileCalendar); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logging.Info().Msg("Cron job scheduler started for booking reminders and calendar sync")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	sent, err := s.jobs.SendReminders(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Error sending booking reminders")
		return
	}
	if sent > 0 {
		logging.Info().Int("sent", sent).Msg("Sent booking reminders")
	}
}

func (s *Scheduler) reconcileCalendar() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := s.jobs.ReconcileCalendar(ctx, reconcileLimit)
	if err != nil {
		logging.Error().Err(err).Msg("Calendar reconciliation failed")
		return
	}
	if result.Processed > 0 {
		logging.Info().
			Int("processed", result.Processed).
			Int("synced", result.Synced).
			Int("failed", result.Failed).
			Int("skipped", result.Skipped).
			Msg("Calendar reconciliation pass finished")
	}
}
