// Package scheduler runs the daily accrual job on a cron schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/service/earnings"
)

// Accrual happens once a day at midnight UTC
const accrualSchedule = "0 0 * * *"

// A run that takes longer than this is aborted; unprocessed investments
// stay eligible for the next run
const runTimeout = 10 * time.Minute

type Scheduler struct {
	cron     *cron.Cron
	earnings *earnings.Service
	logger   logger.Logger
}

func New(earningsService *earnings.Service, l logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		earnings: earningsService,
		logger:   l,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(accrualSchedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		summary, err := s.earnings.Run(runCtx)
		if err != nil {
			s.logger.Error("scheduled accrual run failed", "error", err)
			return
		}
		s.logger.Info("scheduled accrual run done",
			"processed", summary.Processed,
			"total", summary.TotalEarnings.StringFixed(2))
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "accrual_schedule", accrualSchedule)

	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
