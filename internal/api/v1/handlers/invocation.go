package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/middleware"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/services"
)

const defaultInvocationLimit = 50

// InvocationHandler handles inference and invocation history endpoints
type InvocationHandler struct {
	service services.InvocationService
}

// NewInvocationHandler creates a new invocation handler
func NewInvocationHandler(service services.InvocationService) *InvocationHandler {
	return &InvocationHandler{service: service}
}

// Invoke handles POST /api/v1/endpoints/:name/invocations
func (h *InvocationHandler) Invoke(c *gin.Context) {
	var req dto.InvocationRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Invoke(c.Request.Context(), c.Param("name"), c.GetString("request_id"), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/v1/endpoints/:name/invocations
func (h *InvocationHandler) History(c *gin.Context) {
	limit := defaultInvocationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			middleware.HandleError(c, errors.NewBadRequestError("Query parameter 'limit' must be a positive integer"))
			return
		}
		limit = parsed
	}

	resp, err := h.service.ListInvocations(c.Request.Context(), c.Param("name"), limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invocations": resp, "count": len(resp)})
}
