package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/relation-engine/internal/http/handlers"
	httpMW "github.com/yungbote/relation-engine/internal/http/middleware"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler     *httpH.HealthHandler
	ExtractionHandler *httpH.ExtractionHandler
	AuditHandler      *httpH.AuditHandler
	RelationHandler   *httpH.RelationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("relation-engine"))
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ExtractionHandler != nil {
			api.POST("/documents/:id/extract", cfg.ExtractionHandler.Extract)
		}

		// Audit surface
		if cfg.AuditHandler != nil {
			api.GET("/documents/:id/bundles", cfg.AuditHandler.ListBundles)
			api.GET("/documents/:id/bundles/summary", cfg.AuditHandler.BundleSummary)
		}

		if cfg.RelationHandler != nil {
			api.GET("/concepts/:id/relations", cfg.RelationHandler.ListByConcept)
		}
	}

	return r
}
