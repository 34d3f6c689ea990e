package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/middleware"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/services"
)

// ModelHandler handles model resource endpoints
type ModelHandler struct {
	service services.ModelService
}

// NewModelHandler creates a new model handler
func NewModelHandler(service services.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

// Register handles POST /api/v1/models
func (h *ModelHandler) Register(c *gin.Context) {
	var req dto.RegisterModelRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.RegisterModel(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/v1/models/:name
func (h *ModelHandler) Get(c *gin.Context) {
	resp, err := h.service.GetModel(c.Request.Context(), c.Param("name"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/models
func (h *ModelHandler) List(c *gin.Context) {
	resp, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"models": resp, "count": len(resp)})
}
