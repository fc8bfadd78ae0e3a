package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/dto"
	apierrors "github.com/yukikurage/sitewalk-tasks/internal/errors"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
	"github.com/yukikurage/sitewalk-tasks/internal/utils"
)

type EmailHandler struct {
	emailService *services.EmailService
}

func NewEmailHandler(emailService *services.EmailService) *EmailHandler {
	return &EmailHandler{emailService: emailService}
}

// SendWeekly sends the weekly digest now. An empty body uses the configured settings.
func (h *EmailHandler) SendWeekly(c *gin.Context) {
	var req dto.WeeklyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report := h.emailService.SendWeeklyEmails(c.Request.Context(), req.ToOptions(constants.DigestTriggerAPI))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"emailsSent": report.EmailsSent,
		"results":    report.Results,
	})
}

// History lists past digest runs with pagination
func (h *EmailHandler) History(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	runs, total, err := h.emailService.History(params)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"runs":    runs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
