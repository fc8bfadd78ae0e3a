package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/sitewalk-tasks/internal/errors"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

type SubcontractorHandler struct {
	taskService   *services.TaskService
	exportService *services.ExportService
}

func NewSubcontractorHandler(taskService *services.TaskService, exportService *services.ExportService) *SubcontractorHandler {
	return &SubcontractorHandler{
		taskService:   taskService,
		exportService: exportService,
	}
}

// ListOpenTasks returns the open tasks assigned to a subcontractor
func (h *SubcontractorHandler) ListOpenTasks(c *gin.Context) {
	name := c.Param("assignedTo")

	tasks, err := h.taskService.GetSubcontractorTaskList(c.Request.Context(), name)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"subcontractor": name,
		"count":         len(tasks),
		"tasks":         tasks,
	})
}

// ExportOpenTasks downloads the open tasks as csv or xlsx
func (h *SubcontractorHandler) ExportOpenTasks(c *gin.Context) {
	export, err := h.exportService.ExportSubcontractorTasks(c.Request.Context(), c.Param("assignedTo"), c.DefaultQuery("format", services.ExportFormatCSV))
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
