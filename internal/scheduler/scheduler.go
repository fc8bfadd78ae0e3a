package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

// DigestSender sends one weekly digest batch
type DigestSender interface {
	SendWeeklyEmails(ctx context.Context, opts services.DigestOptions) *services.DigestReport
}

// DigestScheduler runs the weekly digest on a cron schedule with seconds
type DigestScheduler struct {
	cron     *cron.Cron
	sender   DigestSender
	schedule string
	timeout  time.Duration
	jobID    cron.EntryID
}

// NewDigestScheduler creates a scheduler. Format: "0 0 7 * * MON" = 07:00:00 every Monday
func NewDigestScheduler(sender DigestSender, schedule string) *DigestScheduler {
	return &DigestScheduler{
		cron:     cron.New(cron.WithSeconds()),
		sender:   sender,
		schedule: schedule,
		timeout:  10 * time.Minute,
	}
}

// Start registers the digest job and starts the scheduler
func (s *DigestScheduler) Start() error {
	var err error
	s.jobID, err = s.cron.AddFunc(s.schedule, s.Run)
	if err != nil {
		return fmt.Errorf("error scheduling weekly digest %q: %w", s.schedule, err)
	}

	s.cron.Start()
	slog.Info("weekly digest scheduler started", "schedule", s.schedule, "next", s.Next())
	return nil
}

// Stop halts the scheduler and waits for a running digest to finish
func (s *DigestScheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("weekly digest scheduler stopped")
}

// Next reports when the digest runs next. It is zero before Start.
func (s *DigestScheduler) Next() time.Time {
	return s.cron.Entry(s.jobID).Next
}

// Run sends one digest batch
func (s *DigestScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	slog.Info("running scheduled weekly digest")
	report := s.sender.SendWeeklyEmails(ctx, services.DigestOptions{Trigger: constants.DigestTriggerSchedule})
	slog.Info("scheduled weekly digest finished", "sent", report.EmailsSent, "total", len(report.Results))
}
