package dto

import (
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

// ProjectRequest is the body of POST /api/projects
type ProjectRequest struct {
	ProjectName string `json:"projectName"`
}

// ContractorRequest is the body of POST /api/contractors
type ContractorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Trade string `json:"trade"`
}

// ToInput converts the request to service input
func (r ContractorRequest) ToInput() services.AddContractorInput {
	return services.AddContractorInput{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Trade: r.Trade,
	}
}

// WeeklyEmailRequest is the body of POST /api/emails/weekly
type WeeklyEmailRequest struct {
	Config *WeeklyEmailConfig `json:"config"`
}

// WeeklyEmailConfig overrides digest settings for one batch
type WeeklyEmailConfig struct {
	SubcontractorEmails map[string]string `json:"subcontractorEmails"`
	FromEmail           string            `json:"fromEmail"`
	FromName            string            `json:"fromName"`
}

// ToOptions converts the request to digest options
func (r WeeklyEmailRequest) ToOptions(trigger string) services.DigestOptions {
	opts := services.DigestOptions{Trigger: trigger}
	if r.Config != nil {
		opts.SubcontractorEmails = r.Config.SubcontractorEmails
		opts.FromEmail = r.Config.FromEmail
		opts.FromName = r.Config.FromName
	}
	return opts
}
