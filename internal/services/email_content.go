package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/yukikurage/sitewalk-tasks/internal/models"
)

// EmailContent is a rendered weekly digest.
type EmailContent struct {
	Subject string
	HTML    string
	Text    string
}

type digestView struct {
	Subcontractor string
	Count         int
	GeneratedOn   string
	Tasks         []digestTaskView
	Style         htmltemplate.CSS
}

type digestTaskView struct {
	Index         int
	Title         string
	Project       string
	Area          string
	Details       string
	DueDate       string
	Priority      string
	PriorityClass string
	PhotoNeeded   bool
}

const digestStyle = `body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 800px; margin: 0 auto; padding: 20px; }
.header { background-color: #2c3e50; color: white; padding: 20px; border-radius: 5px 5px 0 0; }
.content { background-color: #f9f9f9; padding: 20px; border: 1px solid #ddd; }
.task-table { width: 100%; background-color: white; border-collapse: collapse; margin-top: 20px; }
.footer { margin-top: 20px; padding: 10px; text-align: center; color: #666; font-size: 12px; }
.priority-badge { display: inline-block; padding: 3px 8px; border-radius: 3px; font-size: 11px; margin-left: 10px; }
.priority-urgent { background-color: #e74c3c; color: white; }
.priority-high { background-color: #e67e22; color: white; }
.priority-medium { background-color: #f39c12; color: white; }
.priority-low { background-color: #95a5a6; color: white; }`

var digestHTML = htmltemplate.Must(htmltemplate.New("digest").Parse(`<!DOCTYPE html>
<html>
<head><style>{{.Style}}</style></head>
<body>
<div class="container">
  <div class="header">
    <h1>Weekly Task Summary</h1>
    <p>{{.Subcontractor}}</p>
  </div>
  <div class="content">
    <p>Hello,</p>
{{- if .Tasks}}
    <p>Here is your weekly summary of open tasks from Legendary Homes:</p>
    <table class="task-table">
{{- range .Tasks}}
      <tr>
        <td style="padding: 10px; border-bottom: 1px solid #ddd;">
          <strong>{{.Index}}. {{.Title}}</strong>
          <span class="priority-badge {{.PriorityClass}}">{{.Priority}}</span>
        </td>
      </tr>
      <tr>
        <td style="padding: 10px 10px 10px 30px; border-bottom: 1px solid #ddd; color: #666;">
          <strong>Project:</strong> {{.Project}}<br>
          <strong>Area:</strong> {{.Area}}<br>
          <strong>Details:</strong> {{.Details}}<br>
          <strong>Due Date:</strong> {{.DueDate}}<br>
          <strong>Photo Needed:</strong> {{if .PhotoNeeded}}&#10003; Yes{{else}}No{{end}}
        </td>
      </tr>
{{- end}}
    </table>
    <p style="margin-top: 20px;"><strong>Total Open Tasks: {{.Count}}</strong></p>
    <p>Please review these tasks and update the status in the Google Sheet as you complete them.</p>
    <p>If you have any questions, please contact us directly.</p>
{{- else}}
    <p>Great news! You have no open tasks this week.</p>
    <p>Thank you for your continued excellent work!</p>
{{- end}}
  </div>
  <div class="footer">
    <p>This is an automated email from Legendary Homes Task Management System.</p>
    <p>Generated on {{.GeneratedOn}}</p>
  </div>
</div>
</body>
</html>
`))

var digestText = template.Must(template.New("digest").Parse(`Weekly Task Summary - {{.Subcontractor}}

{{if .Tasks -}}
You have {{.Count}} open task(s):

{{range .Tasks -}}
{{.Index}}. {{.Title}}
   Project: {{.Project}}
   Area: {{.Area}}
   Details: {{.Details}}
   Priority: {{.Priority}}
   Due Date: {{.DueDate}}
   Photo Needed: {{if .PhotoNeeded}}Yes{{else}}No{{end}}

{{end -}}
{{else -}}
Great news! You have no open tasks this week.

Thank you for your continued excellent work!
{{end}}
Generated on {{.GeneratedOn}}
`))

// GenerateEmailContent renders the weekly digest for one subcontractor
func GenerateEmailContent(tasks []models.Task, subcontractor string, now time.Time) (*EmailContent, error) {
	view := digestView{
		Subcontractor: subcontractor,
		Count:         len(tasks),
		GeneratedOn:   now.Format("Jan 2, 2006"),
		Style:         htmltemplate.CSS(digestStyle),
	}
	for i, t := range tasks {
		priority := t.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		view.Tasks = append(view.Tasks, digestTaskView{
			Index:         i + 1,
			Title:         orDefault(t.TaskTitle, "Task"),
			Project:       orDefault(t.Project, "N/A"),
			Area:          orDefault(t.Area, "N/A"),
			Details:       orDefault(t.TaskDetails, orDefault(t.TaskTitle, "N/A")),
			DueDate:       formatDueDate(t.DueDate),
			Priority:      string(priority),
			PriorityClass: "priority-" + strings.ToLower(string(priority)),
			PhotoNeeded:   t.PhotoNeeded,
		})
	}

	var html bytes.Buffer
	if err := digestHTML.Execute(&html, view); err != nil {
		return nil, fmt.Errorf("failed to render html digest: %w", err)
	}

	var text bytes.Buffer
	if err := digestText.Execute(&text, view); err != nil {
		return nil, fmt.Errorf("failed to render text digest: %w", err)
	}

	return &EmailContent{
		Subject: digestSubject(subcontractor, len(tasks)),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func digestSubject(subcontractor string, count int) string {
	switch count {
	case 0:
		return fmt.Sprintf("Weekly Task Summary - %s - No Open Tasks", subcontractor)
	case 1:
		return fmt.Sprintf("Weekly Task Summary - %s - 1 Open Task", subcontractor)
	}
	return fmt.Sprintf("Weekly Task Summary - %s - %d Open Tasks", subcontractor, count)
}

var dueDateLayouts = []string{time.DateOnly, time.RFC3339, "1/2/2006", "01/02/2006"}

// formatDueDate renders a due date as "Jan 2, 2006". Unparseable values are
// shown as entered.
func formatDueDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Not specified"
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
