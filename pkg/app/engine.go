package app

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	"github.com/opamp-commander/opamp-commander/internal/observability"
	"github.com/opamp-commander/opamp-commander/pkg/app/docs"
)

// NewEngine creates a new Gin engine, applies the request-logging and
// observability middleware, serves the swagger UI, and registers the
// provided controllers' routes.
func NewEngine(
	controllers []Controller,
	observabilityService *observability.Service,
	logger *slog.Logger,
) *gin.Engine {
	engine := gin.New()
	engine.Use(sloggin.New(logger))
	engine.Use(gin.Recovery())
	engine.Use(observabilityService.Middleware())

	engine.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))
	docs.SwaggerInfo.BasePath = "/"

	for _, controller := range controllers {
		routeInfo := controller.RoutesInfo()
		for _, route := range routeInfo {
			engine.Handle(route.Method, route.Path, route.HandlerFunc)
		}
	}

	return engine
}
