package v1

import (
	"net/http"

	"github.com/clinica-suite/patients-service/config"
	"github.com/clinica-suite/patients-service/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter wires middleware and all versioned routes.
func NewRouter(
	cfg *config.Config,
	log *zap.Logger,
	collector *metrics.Collector,
	db *gorm.DB,
	patients *PatientHandler,
	medications *MedicationHandler,
	prescriptions *PrescriptionHandler,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		RequestID(),
		AccessLog(log),
		Metrics(collector),
		cors.New(cors.Config{
			AllowOrigins: cfg.CORS.AllowedOrigins,
			AllowMethods: cfg.CORS.AllowedMethods,
			AllowHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:       cfg.CORS.MaxAge,
		}),
		RateLimit(cfg.RateLimit),
	)

	r.GET("/healthz", healthHandler(cfg, db))
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	patients.Register(api)
	medications.Register(api)
	prescriptions.Register(api)

	return r
}

func healthHandler(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"service": cfg.App.Name,
				"version": cfg.App.Version,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	}
}
