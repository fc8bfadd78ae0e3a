package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seededExportService(t *testing.T) *ExportService {
	t.Helper()
	taskService := NewTaskService(newTestStore().taskRepo, nil)
	ctx := context.Background()

	inputs := []CreateTaskInput{
		{Project: "Maple Street", TaskTitle: `Fix 2" gap`, TaskDetails: "Trim, then caulk", AssignedTo: "Acme Co", DueDate: "2025-03-07"},
	}
	for _, in := range inputs {
		_, err := taskService.ProcessTaskInput(ctx, in)
		require.NoError(t, err)
	}
	require.NoError(t, createClosedTask(ctx, taskService, CreateTaskInput{Project: "Maple Street", TaskTitle: "Already done", AssignedTo: "Acme Co"}))
	return NewExportService(taskService)
}

func TestExportService_CSV(t *testing.T) {
	export, err := seededExportService(t).ExportSubcontractorTasks(context.Background(), "Acme Co", "csv")
	require.NoError(t, err)

	assert.Equal(t, "acme-co-open-tasks.csv", export.Filename)
	assert.Equal(t, "\"Project\",\"Task Title\",\"Description\",\"Assigned To\",\"Due Date\",\"Priority\",\"Status\"\n"+
		"\"Maple Street\",\"Fix 2\"\" gap\",\"Trim, then caulk\",\"Acme Co\",\"2025-03-07\",\"Medium\",\"Open\"\n",
		string(export.Data))
}

func TestExportService_XLSX(t *testing.T) {
	export, err := seededExportService(t).ExportSubcontractorTasks(context.Background(), "Acme Co", "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "acme-co-open-tasks.xlsx", export.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Tasks")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Task Title", rows[0][1])
	assert.Equal(t, `Fix 2" gap`, rows[1][1])
}

func TestExportService_UnsupportedFormat(t *testing.T) {
	_, err := seededExportService(t).ExportSubcontractorTasks(context.Background(), "Acme Co", "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
