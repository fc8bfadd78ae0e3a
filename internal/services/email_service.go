package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/sitewalk-tasks/internal/config"
	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/mailer"
	"github.com/yukikurage/sitewalk-tasks/internal/metrics"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
	"github.com/yukikurage/sitewalk-tasks/internal/utils"
	"golang.org/x/sync/errgroup"
)

// ErrHistoryUnavailable is returned when no database is configured for digest history.
var ErrHistoryUnavailable = errors.New("digest history is not available without a database")

const noRecipientsMessage = "No subcontractor email addresses found. Add contractors with email addresses to the Contractors tab or set SUBCONTRACTOR_EMAILS."

// DigestOptions adjusts a single digest batch.
type DigestOptions struct {
	Trigger string

	// SubcontractorEmails replaces the configured fallback mapping.
	SubcontractorEmails map[string]string
	FromEmail           string
	FromName            string
}

// DigestOutcome is the delivery result for one subcontractor.
type DigestOutcome struct {
	Subcontractor string `json:"subcontractor"`
	Success       bool   `json:"success"`
	Skipped       bool   `json:"skipped"`
	TaskCount     int    `json:"taskCount"`
	EmailAddress  string `json:"emailAddress,omitempty"`
	Message       string `json:"message,omitempty"`
}

// DigestReport summarizes a batch.
type DigestReport struct {
	EmailsSent int             `json:"emailsSent"`
	Results    []DigestOutcome `json:"results"`
}

// EmailService sends the weekly digest to every subcontractor
type EmailService struct {
	taskService    *TaskService
	contractorRepo repository.ContractorRepository
	digestRepo     repository.DigestRepository
	mailer         mailer.Mailer
	cfg            config.EmailConfig
	now            func() time.Time
}

// NewEmailService creates a new EmailService. digestRepo may be nil when no
// database is configured.
func NewEmailService(taskService *TaskService, contractorRepo repository.ContractorRepository, digestRepo repository.DigestRepository, m mailer.Mailer, cfg config.EmailConfig) *EmailService {
	return &EmailService{
		taskService:    taskService,
		contractorRepo: contractorRepo,
		digestRepo:     digestRepo,
		mailer:         m,
		cfg:            cfg,
		now:            time.Now,
	}
}

// SendWeeklyEmails sends one digest per subcontractor in parallel. It never
// fails as a whole; every problem is reported in that subcontractor's outcome.
func (s *EmailService) SendWeeklyEmails(ctx context.Context, opts DigestOptions) *DigestReport {
	startedAt := s.now()

	recipients := s.resolveRecipients(ctx, opts)
	if len(recipients) == 0 {
		slog.Warn("weekly digest has no recipients")
		return &DigestReport{Results: []DigestOutcome{{Success: false, Message: noRecipientsMessage}}}
	}

	names := make([]string, 0, len(recipients))
	for name := range recipients {
		names = append(names, name)
	}
	sort.Strings(names)

	sender := s.sender(opts)
	outcomes := make([]DigestOutcome, len(names))
	// Failures are recorded in each outcome, so no goroutine returns an error.
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			outcomes[i] = s.sendOne(ctx, sender, name, recipients[name])
			return nil
		})
	}
	_ = g.Wait()

	report := &DigestReport{Results: outcomes}
	for _, o := range outcomes {
		if o.Success {
			report.EmailsSent++
		}
	}

	slog.Info("weekly digest finished", "trigger", opts.Trigger, "sent", report.EmailsSent, "total", len(outcomes))
	s.record(opts.Trigger, startedAt, report)
	return report
}

// resolveRecipients prefers the Contractors tab and falls back to the
// static mapping when the tab cannot be read or has no addresses.
func (s *EmailService) resolveRecipients(ctx context.Context, opts DigestOptions) map[string]string {
	live, err := s.contractorRepo.Emails(ctx)
	if err != nil {
		slog.Warn("failed to read contractor emails, using configured mapping", "error", err)
	}
	if len(live) > 0 {
		return live
	}

	if len(opts.SubcontractorEmails) > 0 {
		return opts.SubcontractorEmails
	}
	return s.cfg.SubcontractorEmails
}

type senderIdentity struct {
	name  string
	email string
}

func (s *EmailService) sender(opts DigestOptions) senderIdentity {
	from := senderIdentity{name: s.cfg.FromName, email: s.cfg.FromEmail}
	if opts.FromName != "" {
		from.name = opts.FromName
	}
	if opts.FromEmail != "" {
		from.email = opts.FromEmail
	}

	if isServiceIdentity(from.email) && s.cfg.SMTPUser != "" {
		slog.Warn("sender is a service account, using SMTP user instead", "from", from.email, "smtpUser", s.cfg.SMTPUser)
		from.email = s.cfg.SMTPUser
	}
	return from
}

// isServiceIdentity reports whether addr belongs to a Google service
// account, which cannot send mail.
func isServiceIdentity(addr string) bool {
	_, domain, ok := strings.Cut(strings.ToLower(strings.TrimSpace(addr)), "@")
	return ok && (domain == "gserviceaccount.com" || strings.HasSuffix(domain, ".gserviceaccount.com"))
}

func (s *EmailService) sendOne(ctx context.Context, from senderIdentity, name, address string) DigestOutcome {
	outcome := DigestOutcome{Subcontractor: name, EmailAddress: address}

	if strings.TrimSpace(address) == "" {
		outcome.Message = "No email address configured for " + name
		metrics.ObserveDigestEmail("failed")
		return outcome
	}

	tasks, err := s.taskService.GetSubcontractorTaskList(ctx, name)
	if err != nil {
		slog.Error("failed to load subcontractor tasks", "subcontractor", name, "error", err)
		outcome.Message = err.Error()
		metrics.ObserveDigestEmail("failed")
		return outcome
	}
	outcome.TaskCount = len(tasks)

	if s.mailer == nil || !s.cfg.Configured() {
		outcome.Skipped = true
		outcome.Message = "Email configuration not set up. Email skipped."
		metrics.ObserveDigestEmail("skipped")
		return outcome
	}

	content, err := GenerateEmailContent(tasks, name, s.now())
	if err != nil {
		outcome.Message = err.Error()
		metrics.ObserveDigestEmail("failed")
		return outcome
	}

	receipt, err := s.mailer.Send(ctx, mailer.Message{
		FromName:  from.name,
		FromEmail: from.email,
		To:        []string{address},
		Subject:   content.Subject,
		Text:      content.Text,
		HTML:      content.HTML,
	})
	if err != nil {
		slog.Error("failed to send digest", "subcontractor", name, "error", err)
		outcome.Message = err.Error()
		metrics.ObserveDigestEmail("failed")
		return outcome
	}
	if receipt == nil || len(receipt.Accepted) == 0 {
		outcome.Message = mailer.ErrNoRecipientsAccepted.Error()
		metrics.ObserveDigestEmail("failed")
		return outcome
	}

	outcome.Success = true
	outcome.Message = "Email sent"
	metrics.ObserveDigestEmail("sent")
	return outcome
}

func (s *EmailService) record(trigger string, startedAt time.Time, report *DigestReport) {
	if s.digestRepo == nil {
		return
	}
	if trigger == "" {
		trigger = constants.DigestTriggerAPI
	}

	run := &models.DigestRun{
		Trigger:    trigger,
		StartedAt:  startedAt,
		FinishedAt: s.now(),
		EmailsSent: report.EmailsSent,
		Total:      len(report.Results),
	}
	for _, o := range report.Results {
		run.Deliveries = append(run.Deliveries, models.DigestDelivery{
			Subcontractor: o.Subcontractor,
			EmailAddress:  o.EmailAddress,
			TaskCount:     o.TaskCount,
			Success:       o.Success,
			Skipped:       o.Skipped,
			Message:       o.Message,
		})
	}

	if err := s.digestRepo.Create(run); err != nil {
		slog.Error("failed to record digest run", "error", err)
	}
}

// History lists past digest runs, newest first
func (s *EmailService) History(params utils.PaginationParams) ([]models.DigestRun, int64, error) {
	if s.digestRepo == nil {
		return nil, 0, ErrHistoryUnavailable
	}
	return s.digestRepo.List(params)
}
