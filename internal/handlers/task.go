package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sitewalk-tasks/internal/dto"
	apierrors "github.com/yukikurage/sitewalk-tasks/internal/errors"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTasks stores one task, or an array of tasks in order
func (h *TaskHandler) CreateTasks(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		h.createMany(c, body)
		return
	}

	var req dto.TaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.taskService.ProcessTaskInput(c.Request.Context(), req.ToInput())
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskWriteResponse(created.Task, created.Write))
}

func (h *TaskHandler) createMany(c *gin.Context, body []byte) {
	var reqs []dto.TaskRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		apierrors.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inputs := make([]services.CreateTaskInput, len(reqs))
	for i, req := range reqs {
		inputs[i] = req.ToInput()
	}

	created, err := h.taskService.ProcessMultipleTasks(c.Request.Context(), inputs)
	if err != nil {
		var bulkErr *services.BulkCreateError
		if !errors.As(err, &bulkErr) {
			apierrors.FromError(c, err)
			return
		}

		status, code := apierrors.Classify(err)
		resp := dto.ToBulkTaskResponse(created)
		resp.Success = false
		resp.Error = err.Error()
		resp.Code = code
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, dto.ToBulkTaskResponse(created))
}

// ListTasks returns tasks filtered by project, trade, assignedTo and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.GetFilteredTasks(c.Request.Context(), services.ListTasksInput{
		Project:    c.Query("project"),
		Trade:      c.Query("trade"),
		AssignedTo: c.Query("assignedTo"),
		Status:     c.Query("status"),
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(tasks),
		"tasks":   tasks,
	})
}

// UpdateTask merges the provided fields into the task named by taskId
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	task, write, err := h.taskService.UpdateTask(c.Request.Context(), req.ToInput())
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskWriteResponse(*task, *write))
}

// GenerateTasks drafts tasks from walkthrough notes using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Notes:   req.Notes,
		Project: req.Project,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
	})
}
