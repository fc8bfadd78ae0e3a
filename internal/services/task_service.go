package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
)

// ErrValidation marks input rejected before any backend call.
var ErrValidation = errors.New("validation failed")

var (
	ErrProjectRequired        = fmt.Errorf("%w: project is required", ErrValidation)
	ErrTitleRequired          = fmt.Errorf("%w: taskTitle is required", ErrValidation)
	ErrTaskIDRequired         = fmt.Errorf("%w: taskId is required", ErrValidation)
	ErrNoTasksProvided        = fmt.Errorf("%w: at least one task is required", ErrValidation)
	ErrInvalidStatus          = fmt.Errorf("%w: status must be one of Open, In Progress, Closed", ErrValidation)
	ErrSubcontractorRequired  = fmt.Errorf("%w: subcontractor name is required", ErrValidation)
	ErrNotesRequired          = fmt.Errorf("%w: notes are required", ErrValidation)
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		aiService: aiService,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Project     string
	Area        string
	Trade       string
	TaskTitle   string
	TaskDetails string
	AssignedTo  string
	Priority    string
	DueDate     string
	PhotoNeeded bool
	PhotoURL    string
	Notes       string
}

// UpdateTaskInput represents input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	TaskID      string
	Area        *string
	Trade       *string
	TaskTitle   *string
	TaskDetails *string
	AssignedTo  *string
	Priority    *string
	DueDate     *string
	PhotoNeeded *bool
	Status      *string
	PhotoURL    *string
	Notes       *string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Project    string
	Trade      string
	AssignedTo string
	Status     string
}

// CreatedTask pairs a stored task with the outcome of its dual write.
type CreatedTask struct {
	Task  models.Task
	Write repository.WriteResult
}

// BulkCreateError reports where a sequential bulk creation stopped.
type BulkCreateError struct {
	Index   int
	Created int
	Err     error
}

func (e *BulkCreateError) Error() string {
	return fmt.Sprintf("task %d failed after %d created: %v", e.Index+1, e.Created, e.Err)
}

func (e *BulkCreateError) Unwrap() error {
	return e.Err
}

// ProcessTaskInput validates and stores a single task
func (s *TaskService) ProcessTaskInput(ctx context.Context, input CreateTaskInput) (*CreatedTask, error) {
	task, err := input.toTask()
	if err != nil {
		return nil, err
	}
	return s.create(ctx, task)
}

// ProcessMultipleTasks stores tasks one at a time in input order. Every input
// is validated first; a backend failure stops the batch and the returned
// *BulkCreateError says how many were created before it.
func (s *TaskService) ProcessMultipleTasks(ctx context.Context, inputs []CreateTaskInput) ([]CreatedTask, error) {
	if len(inputs) == 0 {
		return nil, ErrNoTasksProvided
	}

	tasks := make([]*models.Task, len(inputs))
	for i, input := range inputs {
		task, err := input.toTask()
		if err != nil {
			return nil, &BulkCreateError{Index: i, Err: err}
		}
		tasks[i] = task
	}

	created := make([]CreatedTask, 0, len(tasks))
	for i, task := range tasks {
		result, err := s.create(ctx, task)
		if err != nil {
			return created, &BulkCreateError{Index: i, Created: len(created), Err: err}
		}
		created = append(created, *result)
	}
	return created, nil
}

func (s *TaskService) create(ctx context.Context, task *models.Task) (*CreatedTask, error) {
	write, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		slog.Error("failed to create task", "project", task.Project, "error", err)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &CreatedTask{Task: *task, Write: *write}, nil
}

// GetFilteredTasks lists tasks matching the filters. Status accepts the
// same aliases as updates; an unknown status matches nothing.
func (s *TaskService) GetFilteredTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		Project:    strings.TrimSpace(input.Project),
		Trade:      strings.TrimSpace(input.Trade),
		AssignedTo: strings.TrimSpace(input.AssignedTo),
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		filter.Status = raw
		if status, err := models.ParseTaskStatus(raw); err == nil {
			filter.Status = string(status)
		}
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetSubcontractorTaskList returns the open tasks assigned to a subcontractor
func (s *TaskService) GetSubcontractorTaskList(ctx context.Context, name string) ([]models.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSubcontractorRequired
	}
	return s.GetFilteredTasks(ctx, ListTasksInput{AssignedTo: name, Status: string(models.TaskStatusOpen)})
}

// CreateNewProjectTab provisions a project tab. It reports whether the tab was new.
func (s *TaskService) CreateNewProjectTab(ctx context.Context, projectName string) (bool, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return false, ErrProjectRequired
	}

	created, err := s.taskRepo.CreateProjectTab(ctx, projectName)
	if err != nil {
		return false, fmt.Errorf("failed to create project tab: %w", err)
	}
	return created, nil
}

// UpdateTask merges the provided fields into an existing task
func (s *TaskService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*models.Task, *repository.WriteResult, error) {
	taskID := strings.TrimSpace(input.TaskID)
	if taskID == "" {
		return nil, nil, ErrTaskIDRequired
	}
	if input.TaskTitle != nil && strings.TrimSpace(*input.TaskTitle) == "" {
		return nil, nil, ErrTitleRequired
	}

	update := repository.TaskUpdate{
		Area:        input.Area,
		Trade:       input.Trade,
		TaskTitle:   input.TaskTitle,
		TaskDetails: input.TaskDetails,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		PhotoNeeded: input.PhotoNeeded,
		PhotoURL:    input.PhotoURL,
		Notes:       input.Notes,
	}
	if input.Status != nil {
		status, err := models.ParseTaskStatus(*input.Status)
		if err != nil {
			return nil, nil, ErrInvalidStatus
		}
		update.Status = &status
	}
	if input.Priority != nil {
		priority := models.ParseTaskPriority(*input.Priority)
		update.Priority = &priority
	}

	task, write, err := s.taskRepo.Update(ctx, taskID, update)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, write, nil
}

// InitializeSheet provisions the master and Contractors tabs and returns the
// titles it had to create
func (s *TaskService) InitializeSheet(ctx context.Context) ([]string, error) {
	created, err := s.taskRepo.InitializeMaster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheet: %w", err)
	}
	return created, nil
}

// GenerateTasksInput represents input for AI task extraction
type GenerateTasksInput struct {
	Notes   string
	Project string
}

// GenerateTasks drafts tasks from walkthrough notes. Nothing is stored.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]models.Task, error) {
	if strings.TrimSpace(input.Notes) == "" {
		return nil, ErrNotesRequired
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.aiService.ExtractTasks(ctx, input.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	tasks := make([]models.Task, 0, len(drafts))
	for _, draft := range drafts {
		if strings.TrimSpace(draft.TaskTitle) == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, draft.DueDate); err != nil {
			draft.DueDate = ""
		}

		tasks = append(tasks, models.Task{
			Project:     strings.TrimSpace(input.Project),
			Area:        draft.Area,
			Trade:       draft.Trade,
			TaskTitle:   strings.TrimSpace(draft.TaskTitle),
			TaskDetails: draft.TaskDetails,
			Priority:    models.ParseTaskPriority(draft.Priority),
			DueDate:     draft.DueDate,
			PhotoNeeded: draft.PhotoNeeded,
			Status:      models.TaskStatusOpen,
		})
	}

	if len(tasks) == 0 {
		return nil, ErrAINoValidTasks
	}
	return tasks, nil
}

func (in CreateTaskInput) toTask() (*models.Task, error) {
	project := strings.TrimSpace(in.Project)
	title := strings.TrimSpace(in.TaskTitle)
	if project == "" {
		return nil, ErrProjectRequired
	}
	if title == "" {
		return nil, ErrTitleRequired
	}

	return &models.Task{
		Project:     project,
		Area:        strings.TrimSpace(in.Area),
		Trade:       strings.TrimSpace(in.Trade),
		TaskTitle:   title,
		TaskDetails: in.TaskDetails,
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		Priority:    models.ParseTaskPriority(in.Priority),
		DueDate:     strings.TrimSpace(in.DueDate),
		PhotoNeeded: in.PhotoNeeded,
		Status:      models.TaskStatusOpen,
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		Notes:       in.Notes,
	}, nil
}
