package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sitewalk-tasks/internal/dto"
	apierrors "github.com/yukikurage/sitewalk-tasks/internal/errors"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

type ProjectHandler struct {
	taskService *services.TaskService
}

func NewProjectHandler(taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{taskService: taskService}
}

// CreateProject provisions a project tab
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	created, err := h.taskService.CreateNewProjectTab(c.Request.Context(), req.ProjectName)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	name := strings.TrimSpace(req.ProjectName)
	message := "Project tab " + name + " created"
	if !created {
		message = "Project tab " + name + " already exists"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": created,
		"message": message,
	})
}

// Initialize provisions the master and Contractors tabs
func (h *ProjectHandler) Initialize(c *gin.Context) {
	created, err := h.taskService.InitializeSheet(c.Request.Context())
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	message := "Sheet already initialized"
	if len(created) > 0 {
		message = "Created tabs: " + strings.Join(created, ", ")
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": created,
		"message": message,
	})
}
