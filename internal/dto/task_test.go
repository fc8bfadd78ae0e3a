package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
)

func TestYesNo_Unmarshal(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`"Yes"`, true, false},
		{`"no"`, false, false},
		{`""`, false, false},
		{`null`, false, false},
		{`"maybe"`, false, true},
		{`3`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var req TaskRequest
			err := json.Unmarshal([]byte(`{"photoNeeded":`+tt.raw+`}`), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, bool(req.PhotoNeeded))
		})
	}
}

func TestUpdateTaskRequest_ToInput(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"taskId":"2025-03-03T07:00:00.000Z","status":"Closed","photoNeeded":"Yes"}`), &req))

	input := req.ToInput()
	assert.Equal(t, "2025-03-03T07:00:00.000Z", input.TaskID)
	require.NotNil(t, input.Status)
	assert.Equal(t, "Closed", *input.Status)
	require.NotNil(t, input.PhotoNeeded)
	assert.True(t, *input.PhotoNeeded)
	assert.Nil(t, input.Notes)
}

func TestToTaskWriteResponse_Partial(t *testing.T) {
	resp := ToTaskWriteResponse(models.Task{TaskID: "t1"}, repository.WriteResult{TaskID: "t1", MasterWritten: true, ProjectError: "quota exceeded"})

	assert.True(t, resp.Success)
	assert.False(t, resp.ProjectWritten)
	assert.Contains(t, resp.Warning, "quota exceeded")
}
