package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter creates the gin engine with CORS and all API routes.
func NewRouter(handler *APIHandler, allowedOrigins []string, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	engine.Use(cors.New(corsConfig))

	engine.GET("/", handler.HandleRoot)
	engine.GET("/health", handler.HandleHealth)

	api := engine.Group("/api")
	{
		api.POST("/upload_resume", handler.HandleUploadResume)
		api.POST("/summarize_resume", handler.HandleSummarizeResume)
		api.POST("/deep_search", handler.HandleDeepSearch)
		api.GET("/task/:task_id", handler.HandleTaskStatus)
	}

	return engine
}
