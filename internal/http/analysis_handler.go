package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"child-survey/internal/analytics"
	"child-survey/internal/service"
)

// AnalysisHandler expone el snapshot de analitica y sus sub-reportes.
type AnalysisHandler struct {
	logger   *zap.Logger
	analysis *service.AnalysisService
}

// NewAnalysisHandler crea una instancia de AnalysisHandler.
func NewAnalysisHandler(logger *zap.Logger, analysis *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		logger:   logger,
		analysis: analysis,
	}
}

// Complete maneja GET /analysis/complete[?include_details=true].
func (h *AnalysisHandler) Complete(c *gin.Context) {
	opts, ok := analysisOptions(c)
	if !ok {
		return
	}
	snap, err := h.analysis.Complete(c.Request.Context(), opts)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not build analysis")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CompleteSummary maneja GET /analysis/complete-summary; nunca incluye detalle por registro.
func (h *AnalysisHandler) CompleteSummary(c *gin.Context) {
	snap, err := h.analysis.Complete(c.Request.Context(), analytics.Options{})
	if err != nil {
		writeServiceError(c, h.logger, err, "could not build analysis")
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *AnalysisHandler) Background(c *gin.Context) {
	opts, ok := analysisOptions(c)
	if !ok {
		return
	}
	report, err := h.analysis.Background(c.Request.Context(), opts)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not build analysis")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) Behavioral(c *gin.Context) {
	report, err := h.analysis.Behavioral(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err, "could not build analysis")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) RoleModel(c *gin.Context) {
	report, err := h.analysis.RoleModel(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err, "could not build analysis")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) Income(c *gin.Context) {
	report, err := h.analysis.Income(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err, "could not build analysis")
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyzeSurvey maneja POST /analyze-survey: valida y clasifica sin guardar.
func (h *AnalysisHandler) AnalyzeSurvey(c *gin.Context) {
	in, ok := decodeSurveyBody(c, h.logger)
	if !ok {
		return
	}
	preview, err := h.analysis.Preview(in)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not analyze survey")
		return
	}
	c.JSON(http.StatusOK, preview)
}

// TraitExplanations maneja GET /trait-explanations.
func (h *AnalysisHandler) TraitExplanations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"traits":      h.analysis.Vocabulary(),
		"professions": h.analysis.Professions(),
	})
}

func analysisOptions(c *gin.Context) (analytics.Options, bool) {
	raw := c.Query("include_details")
	if raw == "" {
		return analytics.Options{}, true
	}
	include, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "include_details must be a boolean"})
		return analytics.Options{}, false
	}
	return analytics.Options{IncludeDetails: include}, true
}
