package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
)

// flakyBackend fails appends and writes aimed at one tab.
type flakyBackend struct {
	*sheets.MemoryBackend
	failTab string
}

var errInjected = errors.New("quota exceeded")

func (b *flakyBackend) hits(a1 string) bool {
	return b.failTab != "" && strings.HasPrefix(a1, sheets.Range(b.failTab, ""))
}

func (b *flakyBackend) AppendRows(ctx context.Context, a1 string, rows [][]any) error {
	if b.hits(a1) {
		return errInjected
	}
	return b.MemoryBackend.AppendRows(ctx, a1, rows)
}

func (b *flakyBackend) WriteRange(ctx context.Context, a1 string, rows [][]any) error {
	if b.hits(a1) {
		return errInjected
	}
	return b.MemoryBackend.WriteRange(ctx, a1, rows)
}

type TaskRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	backend *flakyBackend
	repo    *SheetsTaskRepository
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.backend = &flakyBackend{MemoryBackend: sheets.NewMemoryBackend()}
	suite.repo = NewTaskRepository(suite.backend, NewTabProvisioner(suite.backend))
}

func (suite *TaskRepositoryTestSuite) createTask(project, assignee, trade string) *models.Task {
	task := &models.Task{
		Project:    project,
		Area:       "Kitchen",
		Trade:      trade,
		TaskTitle:  "Patch drywall",
		AssignedTo: assignee,
	}
	result, err := suite.repo.Create(suite.ctx, task)
	suite.Require().NoError(err)
	suite.Require().True(result.ProjectWritten)
	return task
}

func (suite *TaskRepositoryTestSuite) TestCreate_WritesMasterAndProject() {
	task := suite.createTask("Maple Street", "Acme Co", "Drywall")

	tabs, err := suite.backend.TabNames(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]string{constants.ContractorsTabName, constants.MasterTabName, "Maple Street"}, tabs)

	for _, tab := range []string{constants.MasterTabName, "Maple Street"} {
		rows, err := suite.backend.ReadRange(suite.ctx, sheets.ColumnsRange(tab, TaskColumnCount))
		suite.Require().NoError(err)
		suite.Require().Len(rows, 2, tab)
		suite.Equal("Timestamp", rows[0][ColTimestamp])
		suite.Equal(task.TaskID, rows[1][ColTimestamp])
		suite.Equal("No", rows[1][ColPhotoNeeded])
	}

	suite.Equal(models.PriorityMedium, task.Priority)
	suite.Equal(models.TaskStatusOpen, task.Status)
}

func (suite *TaskRepositoryTestSuite) TestCreate_TaskIDsAreTimestampsAndIncrease() {
	fixed := time.Date(2025, 3, 4, 15, 4, 5, 123456789, time.UTC)
	suite.repo.now = func() time.Time { return fixed }

	first := suite.createTask("Maple Street", "Acme Co", "Drywall")
	second := suite.createTask("Maple Street", "Acme Co", "Drywall")

	suite.Equal("2025-03-04T15:04:05.123Z", first.TaskID)
	suite.Equal("2025-03-04T15:04:05.124Z", second.TaskID)

	parsed, err := time.Parse(time.RFC3339, second.TaskID)
	suite.NoError(err)
	suite.True(parsed.After(fixed))
}

func (suite *TaskRepositoryTestSuite) TestCreate_ProjectTabProvisionedOnce() {
	suite.createTask("Maple Street", "Acme Co", "Drywall")
	suite.createTask("Maple Street", "Bolt Electric", "Electrical")

	tabs, err := suite.backend.TabNames(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(tabs, 3)

	rows, err := suite.backend.ReadRange(suite.ctx, sheets.ColumnsRange("Maple Street", TaskColumnCount))
	suite.Require().NoError(err)
	suite.Len(rows, 3)
}

func (suite *TaskRepositoryTestSuite) TestCreate_ProjectWriteFailureIsPartial() {
	suite.backend.failTab = "Oak Avenue"

	task := &models.Task{Project: "Oak Avenue", TaskTitle: "Replace outlet", AssignedTo: "Bolt Electric"}
	result, err := suite.repo.Create(suite.ctx, task)

	suite.Require().NoError(err)
	suite.True(result.MasterWritten)
	suite.False(result.ProjectWritten)
	suite.True(result.Partial())
	suite.Contains(result.ProjectError, "quota exceeded")

	tasks, err := suite.repo.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Len(tasks, 1)
}

func (suite *TaskRepositoryTestSuite) TestCreate_MasterWriteFailureIsError() {
	suite.backend.failTab = constants.MasterTabName

	_, err := suite.repo.Create(suite.ctx, &models.Task{Project: "Oak Avenue", TaskTitle: "Replace outlet"})
	suite.ErrorIs(err, errInjected)
}

func (suite *TaskRepositoryTestSuite) TestCreate_ReservedProject() {
	_, err := suite.repo.Create(suite.ctx, &models.Task{Project: "master tasks", TaskTitle: "x"})
	suite.ErrorIs(err, ErrReservedTabName)
}

func (suite *TaskRepositoryTestSuite) TestCreate_FormulaLikeTextIsEscaped() {
	task := &models.Task{Project: "Maple Street", TaskTitle: "=HYPERLINK(\"x\")", TaskDetails: "'Quoted' trim", Notes: "-2 inches"}
	_, err := suite.repo.Create(suite.ctx, task)
	suite.Require().NoError(err)

	tasks, err := suite.repo.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("=HYPERLINK(\"x\")", tasks[0].TaskTitle)
	suite.Equal("'Quoted' trim", tasks[0].TaskDetails)
	suite.Equal("-2 inches", tasks[0].Notes)
}

func (suite *TaskRepositoryTestSuite) TestList_RoundTrip() {
	task := &models.Task{
		Project:     "Maple Street",
		Area:        "Primary bath",
		Trade:       "Plumbing",
		TaskTitle:   "Fix leak",
		TaskDetails: "Under the vanity",
		AssignedTo:  "Pipe Pros",
		Priority:    models.PriorityUrgent,
		DueDate:     "2025-04-01",
		PhotoNeeded: true,
		Status:      models.TaskStatusInProgress,
		PhotoURL:    "https://example.com/leak.jpg",
		Notes:       "Call before arriving",
	}
	_, err := suite.repo.Create(suite.ctx, task)
	suite.Require().NoError(err)

	tasks, err := suite.repo.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(*task, tasks[0])
}

func (suite *TaskRepositoryTestSuite) TestList_NoMasterTab() {
	tasks, err := suite.repo.List(suite.ctx, TaskFilter{})
	suite.NoError(err)
	suite.Empty(tasks)
}

func (suite *TaskRepositoryTestSuite) TestList_Filters() {
	suite.createTask("Maple Street", "Acme Co", "Drywall")
	suite.createTask("Maple Street", "Bolt Electric", "Electrical")
	suite.createTask("Oak Avenue", "Acme Co", "Drywall")

	tests := []struct {
		name   string
		filter TaskFilter
		want   int
	}{
		{"no filter", TaskFilter{}, 3},
		{"project substring", TaskFilter{Project: "maple"}, 2},
		{"assignee substring", TaskFilter{AssignedTo: "acme"}, 2},
		{"trade", TaskFilter{Trade: "ELECTRIC"}, 1},
		{"combined", TaskFilter{Project: "Oak", AssignedTo: "Acme"}, 1},
		{"status exact", TaskFilter{Status: "open"}, 3},
		{"status not substring", TaskFilter{Status: "Op"}, 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			tasks, err := suite.repo.List(suite.ctx, tt.filter)
			suite.Require().NoError(err)
			suite.Len(tasks, tt.want)
		})
	}
}

func (suite *TaskRepositoryTestSuite) TestUpdate_RewritesBothTabs() {
	task := suite.createTask("Maple Street", "Acme Co", "Drywall")

	status := models.TaskStatusClosed
	notes := "Done on Friday"
	updated, result, err := suite.repo.Update(suite.ctx, task.TaskID, TaskUpdate{Status: &status, Notes: &notes})
	suite.Require().NoError(err)
	suite.True(result.ProjectWritten)
	suite.Equal(models.TaskStatusClosed, updated.Status)
	suite.Equal("Patch drywall", updated.TaskTitle)

	for _, tab := range []string{constants.MasterTabName, "Maple Street"} {
		rows, err := suite.backend.ReadRange(suite.ctx, sheets.ColumnsRange(tab, TaskColumnCount))
		suite.Require().NoError(err)
		suite.Equal("Closed", rows[1][ColStatus], tab)
		suite.Equal("Done on Friday", rows[1][ColNotes], tab)
	}
}

func (suite *TaskRepositoryTestSuite) TestUpdate_ProjectRowMissingIsPartial() {
	task := suite.createTask("Maple Street", "Acme Co", "Drywall")
	suite.backend.failTab = "Maple Street"

	notes := "Needs second coat"
	_, result, err := suite.repo.Update(suite.ctx, task.TaskID, TaskUpdate{Notes: &notes})
	suite.Require().NoError(err)
	suite.True(result.Partial())
}

func (suite *TaskRepositoryTestSuite) TestUpdate_NotFound() {
	_, _, err := suite.repo.Update(suite.ctx, "2020-01-01T00:00:00.000Z", TaskUpdate{})
	suite.ErrorIs(err, ErrTaskNotFound)

	suite.createTask("Maple Street", "Acme Co", "Drywall")
	_, _, err = suite.repo.Update(suite.ctx, "2020-01-01T00:00:00.000Z", TaskUpdate{})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskRepositoryTestSuite) TestCreateProjectTab() {
	created, err := suite.repo.CreateProjectTab(suite.ctx, "Birch Lane")
	suite.Require().NoError(err)
	suite.True(created)

	created, err = suite.repo.CreateProjectTab(suite.ctx, "Birch Lane")
	suite.Require().NoError(err)
	suite.False(created)

	_, err = suite.repo.CreateProjectTab(suite.ctx, "Contractors")
	suite.ErrorIs(err, ErrReservedTabName)
}

func (suite *TaskRepositoryTestSuite) TestInitializeMaster() {
	created, err := suite.repo.InitializeMaster(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]string{constants.ContractorsTabName, constants.MasterTabName}, created)
	suite.NotEmpty(suite.backend.FormatRequests())

	created, err = suite.repo.InitializeMaster(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(created)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}
