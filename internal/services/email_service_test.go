package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/sitewalk-tasks/internal/config"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
	"github.com/yukikurage/sitewalk-tasks/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// brokenContractorRepo simulates an unreadable Contractors tab.
type brokenContractorRepo struct {
	repository.ContractorRepository
}

func (brokenContractorRepo) Emails(ctx context.Context) (map[string]string, error) {
	return nil, errors.New("permission denied")
}

type EmailServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	store       *testStore
	taskService *TaskService
	mailer      *fakeMailer
	db          *gorm.DB
	history     repository.DigestRepository
	cfg         config.EmailConfig
}

func (suite *EmailServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newTestStore()
	suite.taskService = NewTaskService(suite.store.taskRepo, nil)
	suite.mailer = &fakeMailer{}

	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	suite.Require().NoError(err)
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(suite.db.AutoMigrate(&models.DigestRun{}, &models.DigestDelivery{}))
	suite.history = repository.NewDigestRepository(suite.db)

	suite.cfg = config.EmailConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUser:     "digest@legendaryhomes.com",
		SMTPPassword: "secret",
		FromEmail:    "tasks@legendaryhomes.com",
		FromName:     "Legendary Homes Task Management",
	}
}

func (suite *EmailServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *EmailServiceTestSuite) newService() *EmailService {
	return NewEmailService(suite.taskService, suite.store.contractorRepo, suite.history, suite.mailer, suite.cfg)
}

func (suite *EmailServiceTestSuite) seed() {
	contractors := NewContractorService(suite.store.contractorRepo)
	_, err := contractors.AddContractor(suite.ctx, AddContractorInput{Name: "Bolt Electric", Email: "bolt@example.com"})
	suite.Require().NoError(err)
	_, err = contractors.AddContractor(suite.ctx, AddContractorInput{Name: "Acme Co", Email: "acme@example.com"})
	suite.Require().NoError(err)
	_, err = contractors.AddContractor(suite.ctx, AddContractorInput{Name: "No Email LLC"})
	suite.Require().NoError(err)

	for _, in := range []CreateTaskInput{
		{Project: "Maple Street", TaskTitle: "Patch drywall", AssignedTo: "Acme Co"},
		{Project: "Oak Avenue", TaskTitle: "Sand seams", AssignedTo: "Acme Co"},
	} {
		_, err := suite.taskService.ProcessTaskInput(suite.ctx, in)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(createClosedTask(suite.ctx, suite.taskService, CreateTaskInput{Project: "Oak Avenue", TaskTitle: "Done", AssignedTo: "Acme Co"}))
}

func (suite *EmailServiceTestSuite) TestSendWeeklyEmails_FromContractorsTab() {
	suite.seed()

	report := suite.newService().SendWeeklyEmails(suite.ctx, DigestOptions{Trigger: "api"})

	suite.Equal(2, report.EmailsSent)
	suite.Require().Len(report.Results, 2)
	suite.Equal("Acme Co", report.Results[0].Subcontractor)
	suite.True(report.Results[0].Success)
	suite.Equal(2, report.Results[0].TaskCount)
	suite.Equal("Bolt Electric", report.Results[1].Subcontractor)
	suite.Equal(0, report.Results[1].TaskCount)

	subjects := map[string]string{}
	for _, msg := range suite.mailer.messages() {
		subjects[msg.To[0]] = msg.Subject
		suite.Equal("tasks@legendaryhomes.com", msg.FromEmail)
	}
	suite.Equal("Weekly Task Summary - Acme Co - 2 Open Tasks", subjects["acme@example.com"])
	suite.Equal("Weekly Task Summary - Bolt Electric - No Open Tasks", subjects["bolt@example.com"])

	runs, total, err := suite.history.List(utils.NewPaginationParams(1, 10))
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("api", runs[0].Trigger)
	suite.Equal(2, runs[0].EmailsSent)
	suite.Len(runs[0].Deliveries, 2)
}

func (suite *EmailServiceTestSuite) TestSendWeeklyEmails_FallsBackToConfiguredMap() {
	suite.cfg.SubcontractorEmails = map[string]string{"Acme Co": "acme@example.com"}
	service := NewEmailService(suite.taskService, brokenContractorRepo{}, nil, suite.mailer, suite.cfg)

	report := service.SendWeeklyEmails(suite.ctx, DigestOptions{})
	suite.Require().Len(report.Results, 1)
	suite.True(report.Results[0].Success)
	suite.Equal("acme@example.com", report.Results[0].EmailAddress)

	report = service.SendWeeklyEmails(suite.ctx, DigestOptions{SubcontractorEmails: map[string]string{"Bolt Electric": "bolt@example.com"}})
	suite.Require().Len(report.Results, 1)
	suite.Equal("Bolt Electric", report.Results[0].Subcontractor)
}

func (suite *EmailServiceTestSuite) TestSendWeeklyEmails_NoRecipients() {
	report := suite.newService().SendWeeklyEmails(suite.ctx, DigestOptions{})

	suite.Equal(0, report.EmailsSent)
	suite.Require().Len(report.Results, 1)
	suite.False(report.Results[0].Success)
	suite.Contains(report.Results[0].Message, "SUBCONTRACTOR_EMAILS")

	_, total, err := suite.history.List(utils.NewPaginationParams(1, 10))
	suite.Require().NoError(err)
	suite.Zero(total)
}

func (suite *EmailServiceTestSuite) TestSendWeeklyEmails_SkippedWithoutSMTP() {
	suite.seed()
	suite.cfg.SMTPPassword = ""

	report := suite.newService().SendWeeklyEmails(suite.ctx, DigestOptions{})

	suite.Equal(0, report.EmailsSent)
	for _, o := range report.Results {
		suite.True(o.Skipped)
		suite.False(o.Success)
	}
	suite.Empty(suite.mailer.messages())
}

func (suite *EmailServiceTestSuite) TestSendWeeklyEmails_ServiceAccountSenderReplaced() {
	suite.seed()

	report := suite.newService().SendWeeklyEmails(suite.ctx, DigestOptions{
		FromEmail: "sheets-bot@site-tasks.iam.gserviceaccount.com",
		FromName:  "Site Tasks",
	})
	suite.Equal(2, report.EmailsSent)

	for _, msg := range suite.mailer.messages() {
		suite.Equal("digest@legendaryhomes.com", msg.FromEmail)
		suite.Equal("Site Tasks", msg.FromName)
	}
}

func (suite *EmailServiceTestSuite) TestSendWeeklyEmails_FailuresAreIsolated() {
	suite.seed()
	suite.mailer.reject = map[string]bool{"bolt@example.com": true}

	report := suite.newService().SendWeeklyEmails(suite.ctx, DigestOptions{})

	suite.Equal(1, report.EmailsSent)
	suite.True(report.Results[0].Success)
	suite.False(report.Results[1].Success)
	suite.NotEmpty(report.Results[1].Message)
}

func (suite *EmailServiceTestSuite) TestSendWeeklyEmails_TransportError() {
	suite.seed()
	suite.mailer.err = errors.New("dial tcp: connection refused")

	report := suite.newService().SendWeeklyEmails(suite.ctx, DigestOptions{})

	suite.Equal(0, report.EmailsSent)
	suite.Len(report.Results, 2)
	suite.Contains(report.Results[0].Message, "connection refused")
}

func (suite *EmailServiceTestSuite) TestHistory_WithoutDatabase() {
	service := NewEmailService(suite.taskService, suite.store.contractorRepo, nil, suite.mailer, suite.cfg)

	_, _, err := service.History(utils.NewPaginationParams(1, 20))
	suite.ErrorIs(err, ErrHistoryUnavailable)
}

func TestEmailServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmailServiceTestSuite))
}

func TestIsServiceIdentity(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"bot@project.iam.gserviceaccount.com", true},
		{"BOT@developer.GSERVICEACCOUNT.com", true},
		{"bot@gserviceaccount.com", true},
		{"tasks@legendaryhomes.com", false},
		{"office@notgserviceaccount.com", false},
		{"gserviceaccount.com", false},
	}
	for _, tt := range tests {
		if got := isServiceIdentity(tt.addr); got != tt.want {
			t.Errorf("isServiceIdentity(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
