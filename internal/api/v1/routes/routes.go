// Package routes wires v1 handlers onto the gin router.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/handlers"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/services"
)

// ServiceContainer holds the services the v1 API depends on
type ServiceContainer struct {
	ModelService      services.ModelService
	EndpointService   services.EndpointService
	InvocationService services.InvocationService
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.Engine, container *ServiceContainer) {
	modelHandler := handlers.NewModelHandler(container.ModelService)
	endpointHandler := handlers.NewEndpointHandler(container.EndpointService)
	invocationHandler := handlers.NewInvocationHandler(container.InvocationService)

	v1 := router.Group("/api/v1")
	{
		models := v1.Group("/models")
		{
			models.POST("", modelHandler.Register)
			models.GET("", modelHandler.List)
			models.GET("/:name", modelHandler.Get)
		}

		endpoints := v1.Group("/endpoints")
		{
			endpoints.POST("", endpointHandler.Create)
			endpoints.GET("", endpointHandler.List)
			endpoints.GET("/:name", endpointHandler.Get)
			endpoints.DELETE("/:name", endpointHandler.Delete)

			endpoints.POST("/:name/invocations", invocationHandler.Invoke)
			endpoints.GET("/:name/invocations", invocationHandler.History)
		}
	}
}
