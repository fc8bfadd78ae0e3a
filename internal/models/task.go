package models

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "Open"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusClosed     TaskStatus = "Closed"
)

// TaskStatuses lists the statuses in the order the sheet validation offers them.
var TaskStatuses = []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusClosed}

// ParseTaskStatus maps user input onto a canonical status. The dashboard's
// "completed" and "done" collapse onto Closed.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return TaskStatusOpen, nil
	case "in progress", "in-progress", "inprogress":
		return TaskStatusInProgress, nil
	case "closed", "completed", "done":
		return TaskStatusClosed, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
	PriorityUrgent TaskPriority = "Urgent"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParseTaskPriority normalizes a priority, falling back to Medium for empty
// or unrecognized input.
func ParseTaskPriority(s string) TaskPriority {
	for _, p := range TaskPriorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p
		}
	}
	return PriorityMedium
}

// Task is one row of remediation work. DaysOld is derived by the spreadsheet
// and is never written back.
type Task struct {
	TaskID      string       `json:"taskId"`
	DaysOld     string       `json:"daysOld"`
	Project     string       `json:"project"`
	Area        string       `json:"area"`
	Trade       string       `json:"trade"`
	TaskTitle   string       `json:"taskTitle"`
	TaskDetails string       `json:"taskDetails"`
	AssignedTo  string       `json:"assignedTo"`
	Priority    TaskPriority `json:"priority"`
	DueDate     string       `json:"dueDate"`
	PhotoNeeded bool         `json:"photoNeeded"`
	Status      TaskStatus   `json:"status"`
	PhotoURL    string       `json:"photoUrl"`
	Notes       string       `json:"notes"`
}

// IsClosed reports whether the task reached its terminal status.
func (t Task) IsClosed() bool {
	return t.Status == TaskStatusClosed
}
