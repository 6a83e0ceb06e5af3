package router

import (
	"net/http"

	_ "geocoding-gateway/docs"
	"geocoding-gateway/internal/handler"
	"geocoding-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// New wires the routes of the gateway.
func New(geoCodeHandler *handler.GeoCodeHandler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(logger), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", handler.Health)

	r.POST("/getAddressDetails", geoCodeHandler.GetAddressDetails)

	return r
}
