package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sitewalk-tasks/internal/dto"
	apierrors "github.com/yukikurage/sitewalk-tasks/internal/errors"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
)

type ContractorHandler struct {
	contractorService *services.ContractorService
}

func NewContractorHandler(contractorService *services.ContractorService) *ContractorHandler {
	return &ContractorHandler{contractorService: contractorService}
}

// CreateContractor registers a contractor
func (h *ContractorHandler) CreateContractor(c *gin.Context) {
	var req dto.ContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contractor, err := h.contractorService.AddContractor(c.Request.Context(), req.ToInput())
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"contractor": contractor,
		"message":    "Contractor " + contractor.Name + " added",
	})
}

// ListContractors returns every registered contractor
func (h *ContractorHandler) ListContractors(c *gin.Context) {
	contractors, err := h.contractorService.ListContractors(c.Request.Context())
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(contractors),
		"contractors": contractors,
	})
}
