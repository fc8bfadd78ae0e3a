package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

// YesNo accepts a JSON boolean or the strings "Yes"/"No" used by the
// walkthrough form.
type YesNo bool

func (y *YesNo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*y = YesNo(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("photoNeeded must be a boolean or \"Yes\"/\"No\"")
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y":
		*y = true
	case "no", "false", "n", "":
		*y = false
	default:
		return fmt.Errorf("photoNeeded must be a boolean or \"Yes\"/\"No\", got %q", s)
	}
	return nil
}

// TaskRequest is the body of POST /api/tasks (alone or in an array)
type TaskRequest struct {
	Project     string `json:"project"`
	Area        string `json:"area"`
	Trade       string `json:"trade"`
	TaskTitle   string `json:"taskTitle"`
	TaskDetails string `json:"taskDetails"`
	AssignedTo  string `json:"assignedTo"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	PhotoNeeded YesNo  `json:"photoNeeded"`
	PhotoURL    string `json:"photoUrl"`
	Notes       string `json:"notes"`
}

// ToInput converts the request to service input
func (r TaskRequest) ToInput() services.CreateTaskInput {
	return services.CreateTaskInput{
		Project:     r.Project,
		Area:        r.Area,
		Trade:       r.Trade,
		TaskTitle:   r.TaskTitle,
		TaskDetails: r.TaskDetails,
		AssignedTo:  r.AssignedTo,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		PhotoNeeded: bool(r.PhotoNeeded),
		PhotoURL:    r.PhotoURL,
		Notes:       r.Notes,
	}
}

// UpdateTaskRequest is the body of PUT /api/tasks
type UpdateTaskRequest struct {
	TaskID      string  `json:"taskId"`
	Area        *string `json:"area"`
	Trade       *string `json:"trade"`
	TaskTitle   *string `json:"taskTitle"`
	TaskDetails *string `json:"taskDetails"`
	AssignedTo  *string `json:"assignedTo"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	PhotoNeeded *YesNo  `json:"photoNeeded"`
	Status      *string `json:"status"`
	PhotoURL    *string `json:"photoUrl"`
	Notes       *string `json:"notes"`
}

// ToInput converts the request to service input
func (r UpdateTaskRequest) ToInput() services.UpdateTaskInput {
	input := services.UpdateTaskInput{
		TaskID:      r.TaskID,
		Area:        r.Area,
		Trade:       r.Trade,
		TaskTitle:   r.TaskTitle,
		TaskDetails: r.TaskDetails,
		AssignedTo:  r.AssignedTo,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		Status:      r.Status,
		PhotoURL:    r.PhotoURL,
		Notes:       r.Notes,
	}
	if r.PhotoNeeded != nil {
		b := bool(*r.PhotoNeeded)
		input.PhotoNeeded = &b
	}
	return input
}

// GenerateTasksRequest is the body of POST /api/tasks/generate
type GenerateTasksRequest struct {
	Notes   string `json:"notes"`
	Project string `json:"project"`
}

// TaskWriteResponse describes a stored task and where it landed
type TaskWriteResponse struct {
	Success        bool        `json:"success"`
	Task           models.Task `json:"task"`
	MasterWritten  bool        `json:"masterWritten"`
	ProjectWritten bool        `json:"projectWritten"`
	Warning        string      `json:"warning,omitempty"`
}

// ToTaskWriteResponse builds the response for a created or updated task
func ToTaskWriteResponse(task models.Task, write repository.WriteResult) TaskWriteResponse {
	resp := TaskWriteResponse{
		Success:        true,
		Task:           task,
		MasterWritten:  write.MasterWritten,
		ProjectWritten: write.ProjectWritten,
	}
	if write.Partial() {
		resp.Warning = "task saved to the master tab but not to the project tab: " + write.ProjectError
	}
	return resp
}

// BulkTaskResponse is returned for an array POST /api/tasks
type BulkTaskResponse struct {
	Success      bool                `json:"success"`
	TasksCreated int                 `json:"tasksCreated"`
	Tasks        []TaskWriteResponse `json:"tasks"`
	Error        string              `json:"error,omitempty"`
	Code         string              `json:"code,omitempty"`
}

// ToBulkTaskResponse converts the created tasks of a bulk request
func ToBulkTaskResponse(created []services.CreatedTask) BulkTaskResponse {
	resp := BulkTaskResponse{
		Success:      true,
		TasksCreated: len(created),
		Tasks:        make([]TaskWriteResponse, len(created)),
	}
	for i, c := range created {
		resp.Tasks[i] = ToTaskWriteResponse(c.Task, c.Write)
	}
	return resp
}
