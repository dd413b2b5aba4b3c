package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"child-survey/internal/domain"
	"child-survey/internal/service"
)

// maxSurveyBody limita el cuerpo de un envio.
const maxSurveyBody = 1 << 20

// SurveyHandler atiende la carga y el listado de encuestas.
type SurveyHandler struct {
	logger  *zap.Logger
	surveys *service.SurveyService
}

// NewSurveyHandler crea una instancia de SurveyHandler.
func NewSurveyHandler(logger *zap.Logger, surveys *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{
		logger:  logger,
		surveys: surveys,
	}
}

// Submit maneja POST /submit-survey.
func (h *SurveyHandler) Submit(c *gin.Context) {
	in, ok := decodeSurveyBody(c, h.logger)
	if !ok {
		return
	}

	rec, err := h.surveys.Submit(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not store survey")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": rec.ID})
}

// List maneja GET /get-surveys.
func (h *SurveyHandler) List(c *gin.Context) {
	records, err := h.surveys.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err, "could not read surveys")
		return
	}
	c.JSON(http.StatusOK, records)
}

// decodeSurveyBody lee el cuerpo y responde 400 si no se puede interpretar.
func decodeSurveyBody(c *gin.Context, logger *zap.Logger) (domain.SurveyInput, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSurveyBody))
	if err != nil {
		logger.Warn("read survey body failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return domain.SurveyInput{}, false
	}
	in, err := service.DecodeSurveyInput(body)
	if err != nil {
		writeServiceError(c, logger, err, "invalid request body")
		return domain.SurveyInput{}, false
	}
	return in, true
}

// writeServiceError traduce errores de servicio a status HTTP.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error, msg string) {
	var verr *domain.ValidationError
	var serr *domain.StorageError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrMalformedInput):
		logger.Warn("malformed survey body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
	case errors.Is(err, service.ErrServiceNotConfigured):
		logger.Error("service not configured", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not configured"})
	case errors.As(err, &serr):
		logger.Error(msg, zap.String("op", serr.Op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
