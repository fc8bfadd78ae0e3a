package repository

import (
	"strings"

	"github.com/yukikurage/sitewalk-tasks/internal/models"
)

// Task sheet columns, in the fixed order every task tab uses. Rows are read
// by position; the header text is presentation only.
const (
	ColTimestamp = iota
	ColDaysOld
	ColProject
	ColArea
	ColTrade
	ColTaskTitle
	ColTaskDetails
	ColAssignedTo
	ColPriority
	ColDueDate
	ColPhotoNeeded
	ColStatus
	ColPhotoURL
	ColNotes

	TaskColumnCount
)

var TaskHeaders = [TaskColumnCount]string{
	"Timestamp",
	"Days Old",
	"Project",
	"Area",
	"Trade",
	"Task Title",
	"Task Details",
	"Assigned To",
	"Priority",
	"Due Date",
	"Photo Needed",
	"Status",
	"Photo URL",
	"Notes",
}

// Contractors tab columns.
const (
	ColContractorName = iota
	ColContractorEmail
	ColContractorPhone
	ColContractorTrade

	ContractorColumnCount
)

var ContractorHeaders = [ContractorColumnCount]string{"Name", "Email", "Phone", "Trade"}

// daysOldFormula derives the age of a row from its own timestamp, so the
// same text works on any row of any tab.
const daysOldFormula = `=IFERROR(INT(NOW()-DATEVALUE(LEFT(INDIRECT("A"&ROW()),10))),"")`

func taskToRow(t models.Task) []any {
	row := make([]any, TaskColumnCount)
	row[ColTimestamp] = t.TaskID
	row[ColDaysOld] = daysOldFormula
	row[ColProject] = textCell(t.Project)
	row[ColArea] = textCell(t.Area)
	row[ColTrade] = textCell(t.Trade)
	row[ColTaskTitle] = textCell(t.TaskTitle)
	row[ColTaskDetails] = textCell(t.TaskDetails)
	row[ColAssignedTo] = textCell(t.AssignedTo)
	row[ColPriority] = string(t.Priority)
	row[ColDueDate] = textCell(t.DueDate)
	row[ColPhotoNeeded] = yesNo(t.PhotoNeeded)
	row[ColStatus] = string(t.Status)
	row[ColPhotoURL] = textCell(t.PhotoURL)
	row[ColNotes] = textCell(t.Notes)
	return row
}

func rowToTask(row []string) models.Task {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	return models.Task{
		TaskID:      cell(ColTimestamp),
		DaysOld:     cell(ColDaysOld),
		Project:     cell(ColProject),
		Area:        cell(ColArea),
		Trade:       cell(ColTrade),
		TaskTitle:   cell(ColTaskTitle),
		TaskDetails: cell(ColTaskDetails),
		AssignedTo:  cell(ColAssignedTo),
		Priority:    models.TaskPriority(cell(ColPriority)),
		DueDate:     cell(ColDueDate),
		PhotoNeeded: strings.EqualFold(cell(ColPhotoNeeded), "yes"),
		Status:      models.TaskStatus(cell(ColStatus)),
		PhotoURL:    cell(ColPhotoURL),
		Notes:       cell(ColNotes),
	}
}

func contractorToRow(c models.Contractor) []any {
	row := make([]any, ContractorColumnCount)
	row[ColContractorName] = textCell(c.Name)
	row[ColContractorEmail] = textCell(c.Email)
	row[ColContractorPhone] = textCell(c.Phone)
	row[ColContractorTrade] = textCell(c.Trade)
	return row
}

func rowToContractor(row []string) models.Contractor {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	return models.Contractor{
		Name:  cell(ColContractorName),
		Email: cell(ColContractorEmail),
		Phone: cell(ColContractorPhone),
		Trade: cell(ColContractorTrade),
	}
}

func headerRow(headers []string) []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}

// textCell keeps free text from being interpreted as a formula or number
// sign when written with user-entered semantics. A leading apostrophe is
// doubled since the sheet swallows the first one.
func textCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@'", rune(s[0])) {
		return "'" + s
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
