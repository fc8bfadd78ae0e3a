package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/utils"
)

var (
	// ErrTaskNotFound is returned when no master row carries the task id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrContractorExists is returned when a contractor name is already registered.
	ErrContractorExists = errors.New("contractor already exists")
	// ErrReservedTabName is returned when a project would collide with a system tab.
	ErrReservedTabName = errors.New("project name is reserved")
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create assigns a task id and writes the task to the master tab and its
	// project tab, creating the project tab on first use
	Create(ctx context.Context, task *models.Task) (*WriteResult, error)

	// List reads every task from the master tab and applies the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update rewrites a task's row in the master tab and its project tab
	Update(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, *WriteResult, error)

	// CreateProjectTab provisions a project tab if it does not exist yet
	CreateProjectTab(ctx context.Context, project string) (bool, error)

	// InitializeMaster provisions the master and Contractors tabs
	InitializeMaster(ctx context.Context) ([]string, error)
}

// TaskFilter holds filtering options for listing tasks. Project, Trade and
// AssignedTo match case-insensitive substrings; Status matches exactly,
// ignoring case. Set fields combine with AND.
type TaskFilter struct {
	Project    string
	Trade      string
	AssignedTo string
	Status     string
}

// TaskUpdate lists the fields an update may change. Nil fields are left as is.
type TaskUpdate struct {
	Area        *string
	Trade       *string
	TaskTitle   *string
	TaskDetails *string
	AssignedTo  *string
	Priority    *models.TaskPriority
	DueDate     *string
	PhotoNeeded *bool
	Status      *models.TaskStatus
	PhotoURL    *string
	Notes       *string
}

// WriteResult reports which copies of a task row were written. The master
// tab is written first; ProjectError is set when only the master copy landed.
type WriteResult struct {
	TaskID         string `json:"taskId"`
	MasterWritten  bool   `json:"masterWritten"`
	ProjectWritten bool   `json:"projectWritten"`
	ProjectError   string `json:"projectError,omitempty"`
}

// Partial reports whether the master and project copies diverged.
func (r WriteResult) Partial() bool {
	return r.MasterWritten && !r.ProjectWritten
}

// ContractorRepository defines the interface for the contractor registry
type ContractorRepository interface {
	// Create appends a contractor, provisioning the Contractors tab on first use
	Create(ctx context.Context, contractor *models.Contractor) error

	// List returns every registered contractor
	List(ctx context.Context) ([]models.Contractor, error)

	// Emails maps contractor names to email addresses, skipping contractors without one
	Emails(ctx context.Context) (map[string]string, error)
}

// DigestRepository defines the interface for the digest history
type DigestRepository interface {
	// Create stores a run together with its deliveries
	Create(run *models.DigestRun) error

	// List returns runs newest first, with deliveries, and the total count
	List(params utils.PaginationParams) ([]models.DigestRun, int64, error)
}
