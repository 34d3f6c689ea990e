package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/middleware"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/services"
)

// EndpointHandler handles endpoint resource endpoints
type EndpointHandler struct {
	service services.EndpointService
}

// NewEndpointHandler creates a new endpoint handler
func NewEndpointHandler(service services.EndpointService) *EndpointHandler {
	return &EndpointHandler{service: service}
}

// Create handles POST /api/v1/endpoints. Creation is asynchronous: the
// response carries the endpoint in Creating status.
func (h *EndpointHandler) Create(c *gin.Context) {
	var req dto.CreateEndpointRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.CreateEndpoint(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// Get handles GET /api/v1/endpoints/:name
func (h *EndpointHandler) Get(c *gin.Context) {
	resp, err := h.service.GetEndpoint(c.Request.Context(), c.Param("name"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/endpoints
func (h *EndpointHandler) List(c *gin.Context) {
	resp, err := h.service.ListEndpoints(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoints": resp, "count": len(resp)})
}

// Delete handles DELETE /api/v1/endpoints/:name
func (h *EndpointHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteEndpoint(c.Request.Context(), c.Param("name")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
