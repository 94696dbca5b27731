package config

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger verifica la base de datos (*sql.DB lo implementa)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// OpsConfig configuración del router operativo
type OpsConfig struct {
	DB                Pinger
	Version           string
	PrometheusEnabled bool
	Gatherer          prometheus.Gatherer
	Logger            *zap.Logger
}

// SetupOpsRouter arma el router con /health, /api/v1/health y, si está habilitado, /metrics
func SetupOpsRouter(cfg OpsConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))

	if cfg.PrometheusEnabled {
		handler := promhttp.Handler()
		if cfg.Gatherer != nil {
			handler = promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})
		}
		router.GET("/metrics", gin.WrapH(handler))
	}

	health := healthHandler(cfg)
	router.GET("/health", health)
	router.GET("/api/v1/health", health)

	return router
}

func healthHandler(cfg OpsConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok", "version": cfg.Version, "database": "disabled"}
		if cfg.DB == nil {
			c.JSON(http.StatusOK, body)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := cfg.DB.PingContext(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
		c.JSON(http.StatusOK, body)
	}
}

// RequestLogger loguea cada request con zap
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request failed", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}
