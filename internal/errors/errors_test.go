package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrTitleRequired, http.StatusBadRequest, ErrCodeMissingField},
		{&services.BulkCreateError{Index: 2, Err: services.ErrProjectRequired}, http.StatusBadRequest, ErrCodeMissingField},
		{services.ErrInvalidStatus, http.StatusBadRequest, ErrCodeInvalidInput},
		{services.ErrInvalidEmail, http.StatusBadRequest, ErrCodeInvalidInput},
		{fmt.Errorf("wrap: %w", repository.ErrReservedTabName), http.StatusBadRequest, ErrCodeInvalidInput},
		{repository.ErrTaskNotFound, http.StatusNotFound, ErrCodeNotFound},
		{repository.ErrContractorExists, http.StatusConflict, ErrCodeAlreadyExists},
		{services.ErrAIServiceNotConfigured, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{fmt.Errorf("failed to create task: %w", sheets.ErrConfiguration), http.StatusInternalServerError, ErrCodeConfiguration},
		{fmt.Errorf("read: %w", sheets.ErrBackendNotFound), http.StatusInternalServerError, ErrCodeBackendNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestFromError_Body(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/contractors", nil)

	FromError(c, repository.ErrContractorExists)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "contractor already exists", body["error"])
	assert.Equal(t, "ALREADY_EXISTS", body["code"])
}
