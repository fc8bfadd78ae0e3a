package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/metrics"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
)

// TaskIDLayout is the timestamp format used for task ids. It parses with
// time.RFC3339 and sorts lexically in creation order.
const TaskIDLayout = "2006-01-02T15:04:05.000Z07:00"

// SheetsTaskRepository is a spreadsheet implementation of TaskRepository.
// The master tab is the source of truth for reads; project tabs are
// per-project copies kept in step on every write.
type SheetsTaskRepository struct {
	backend sheets.Backend
	tabs    *TabProvisioner

	// mu serializes writes so tab provisioning, row lookup and append are
	// not interleaved between requests.
	mu     sync.Mutex
	now    func() time.Time
	lastID time.Time
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(backend sheets.Backend, tabs *TabProvisioner) *SheetsTaskRepository {
	return &SheetsTaskRepository{
		backend: backend,
		tabs:    tabs,
		now:     time.Now,
	}
}

// Create creates a new task
func (r *SheetsTaskRepository) Create(ctx context.Context, task *models.Task) (*WriteResult, error) {
	if isReservedTab(task.Project) {
		return nil, fmt.Errorf("%w: %s", ErrReservedTabName, task.Project)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.tabs.EnsureTaskTabs(ctx, constants.MasterTabName, task.Project); err != nil {
		return nil, err
	}

	task.TaskID = r.nextTaskID()
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskStatusOpen
	}
	row := [][]any{taskToRow(*task)}

	err := r.backend.AppendRows(ctx, sheets.ColumnsRange(constants.MasterTabName, TaskColumnCount), row)
	metrics.ObserveTaskWrite("master", err)
	if err != nil {
		return nil, fmt.Errorf("failed to append task to master tab: %w", err)
	}
	result := &WriteResult{TaskID: task.TaskID, MasterWritten: true}

	err = r.backend.AppendRows(ctx, sheets.ColumnsRange(task.Project, TaskColumnCount), row)
	metrics.ObserveTaskWrite("project", err)
	if err != nil {
		slog.Warn("task written to master tab only", "taskId", task.TaskID, "project", task.Project, "error", err)
		result.ProjectError = err.Error()
		return result, nil
	}
	result.ProjectWritten = true

	return result, nil
}

// List retrieves tasks with filtering
func (r *SheetsTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	rows, err := r.backend.ReadRange(ctx, sheets.ColumnsRange(constants.MasterTabName, TaskColumnCount))
	if err != nil {
		if errors.Is(err, sheets.ErrTabNotFound) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("failed to read master tab: %w", err)
	}

	tasks := []models.Task{}
	if len(rows) <= 1 {
		return tasks, nil
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		task := rowToTask(row)
		if filter.matches(task) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Update updates a task
func (r *SheetsTaskRepository) Update(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, *WriteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	masterRow, task, err := r.findRow(ctx, constants.MasterTabName, taskID)
	if err != nil {
		if errors.Is(err, sheets.ErrTabNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, err
	}
	if masterRow == 0 {
		return nil, nil, ErrTaskNotFound
	}

	update.apply(&task)
	row := [][]any{taskToRow(task)}

	err = r.backend.WriteRange(ctx, sheets.RowRange(constants.MasterTabName, masterRow, TaskColumnCount), row)
	metrics.ObserveTaskWrite("master", err)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update task in master tab: %w", err)
	}
	result := &WriteResult{TaskID: taskID, MasterWritten: true}

	projectRow, _, err := r.findRow(ctx, task.Project, taskID)
	if err == nil && projectRow == 0 {
		err = fmt.Errorf("%w in project tab %q", ErrTaskNotFound, task.Project)
	}
	if err == nil {
		err = r.backend.WriteRange(ctx, sheets.RowRange(task.Project, projectRow, TaskColumnCount), row)
	}
	metrics.ObserveTaskWrite("project", err)
	if err != nil {
		slog.Warn("task updated in master tab only", "taskId", taskID, "project", task.Project, "error", err)
		result.ProjectError = err.Error()
		return &task, result, nil
	}
	result.ProjectWritten = true

	return &task, result, nil
}

// CreateProjectTab provisions a project tab; it reports false when the tab already existed
func (r *SheetsTaskRepository) CreateProjectTab(ctx context.Context, project string) (bool, error) {
	if isReservedTab(project) {
		return false, fmt.Errorf("%w: %s", ErrReservedTabName, project)
	}

	created, err := r.tabs.EnsureTaskTabs(ctx, project)
	if err != nil {
		return false, err
	}
	for _, title := range created {
		if title == project {
			return true, nil
		}
	}
	return false, nil
}

// InitializeMaster provisions the master and Contractors tabs
func (r *SheetsTaskRepository) InitializeMaster(ctx context.Context) ([]string, error) {
	return r.tabs.EnsureTaskTabs(ctx, constants.MasterTabName)
}

// findRow returns the 1-based sheet row holding taskID, or 0 if absent.
func (r *SheetsTaskRepository) findRow(ctx context.Context, tab, taskID string) (int, models.Task, error) {
	rows, err := r.backend.ReadRange(ctx, sheets.ColumnsRange(tab, TaskColumnCount))
	if err != nil {
		return 0, models.Task{}, fmt.Errorf("failed to read tab %q: %w", tab, err)
	}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > ColTimestamp && strings.TrimSpace(rows[i][ColTimestamp]) == taskID {
			return i + 1, rowToTask(rows[i]), nil
		}
	}
	return 0, models.Task{}, nil
}

// nextTaskID returns a millisecond timestamp strictly after the previous id
// issued by this repository. Callers hold r.mu.
func (r *SheetsTaskRepository) nextTaskID() string {
	now := r.now().UTC().Truncate(time.Millisecond)
	if !now.After(r.lastID) {
		now = r.lastID.Add(time.Millisecond)
	}
	r.lastID = now
	return now.Format(TaskIDLayout)
}

func (f TaskFilter) matches(t models.Task) bool {
	if f.Project != "" && !containsFold(t.Project, f.Project) {
		return false
	}
	if f.Trade != "" && !containsFold(t.Trade, f.Trade) {
		return false
	}
	if f.AssignedTo != "" && !containsFold(t.AssignedTo, f.AssignedTo) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(t.Status), f.Status) {
		return false
	}
	return true
}

func (u TaskUpdate) apply(t *models.Task) {
	if u.Area != nil {
		t.Area = *u.Area
	}
	if u.Trade != nil {
		t.Trade = *u.Trade
	}
	if u.TaskTitle != nil {
		t.TaskTitle = *u.TaskTitle
	}
	if u.TaskDetails != nil {
		t.TaskDetails = *u.TaskDetails
	}
	if u.AssignedTo != nil {
		t.AssignedTo = *u.AssignedTo
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.PhotoNeeded != nil {
		t.PhotoNeeded = *u.PhotoNeeded
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.PhotoURL != nil {
		t.PhotoURL = *u.PhotoURL
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func isReservedTab(name string) bool {
	return strings.EqualFold(name, constants.MasterTabName) || strings.EqualFold(name, constants.ContractorsTabName)
}
