package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apierrors "github.com/yukikurage/sitewalk-tasks/internal/errors"
)

// Handlers groups every HTTP handler the server mounts
type Handlers struct {
	Tasks          *TaskHandler
	Subcontractors *SubcontractorHandler
	Projects       *ProjectHandler
	Contractors    *ContractorHandler
	Emails         *EmailHandler
}

// RegisterRoutes mounts the API on r
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		tasks := api.Group("/tasks")
		{
			tasks.POST("", h.Tasks.CreateTasks)
			tasks.GET("", h.Tasks.ListTasks)
			tasks.PUT("", h.Tasks.UpdateTask)
			tasks.POST("/generate", h.Tasks.GenerateTasks)
		}

		api.GET("/subcontractor/:assignedTo", h.Subcontractors.ListOpenTasks)
		api.GET("/subcontractor/:assignedTo/export", h.Subcontractors.ExportOpenTasks)

		api.POST("/projects", h.Projects.CreateProject)
		api.POST("/initialize", h.Projects.Initialize)

		api.POST("/contractors", h.Contractors.CreateContractor)
		api.GET("/contractors", h.Contractors.ListContractors)

		emails := api.Group("/emails")
		{
			emails.POST("/weekly", h.Emails.SendWeekly)
			emails.GET("/history", h.Emails.History)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})
}
