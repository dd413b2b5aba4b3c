package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"child-survey/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares y rutas. Las rutas se registran en la
// raiz y de nuevo bajo /api, que es donde las consume el dashboard.
func NewRouter(
	logger *zap.Logger,
	m *metrics.Metrics,
	corsOrigins []string,
	surveyH *SurveyHandler,
	analysisH *AnalysisHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		metricsMiddleware(m),
		corsMiddleware(corsOrigins),
	)

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	register := func(g gin.IRoutes) {
		g.GET("/health", health)

		g.POST("/submit-survey", surveyH.Submit)
		g.GET("/get-surveys", surveyH.List)

		g.POST("/analyze-survey", analysisH.AnalyzeSurvey)
		g.GET("/trait-explanations", analysisH.TraitExplanations)

		g.GET("/analysis/complete", analysisH.Complete)
		g.GET("/analysis/complete-summary", analysisH.CompleteSummary)
		g.GET("/analysis/background", analysisH.Background)
		g.GET("/analysis/behavioral", analysisH.Behavioral)
		g.GET("/analysis/rolemodel", analysisH.RoleModel)
		g.GET("/analysis/income", analysisH.Income)
	}
	register(r)
	register(r.Group("/api"))

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.Request(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware habilita el dashboard. Sin origenes configurados acepta cualquiera.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
