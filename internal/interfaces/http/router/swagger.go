package router

import (
	_ "github.com/foodgram/backend/docs" // registers the OpenAPI document
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// MountSwagger serves the OpenAPI document and UI at /swagger/*any behind
// SwaggerProtection. authenticate runs only when cfg.RequireAuth is set.
func MountSwagger(engine *gin.Engine, cfg middleware.SwaggerConfig, authenticate gin.HandlerFunc) {
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg, authenticate),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
}
