package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"child-survey/internal/analytics"
	"child-survey/internal/domain"
	"child-survey/internal/metrics"
	"child-survey/internal/repository"
)

// AnalysisService recalcula el snapshot de analitica sobre un escaneo completo del log.
// No guarda nada entre pedidos.
type AnalysisService struct {
	logger     *zap.Logger
	repo       repository.SurveyRepository
	aggregator *analytics.Aggregator
	surveys    *SurveyService
	metrics    *metrics.Metrics
}

func NewAnalysisService(
	logger *zap.Logger,
	repo repository.SurveyRepository,
	aggregator *analytics.Aggregator,
	surveys *SurveyService,
	m *metrics.Metrics,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		logger:     logger,
		repo:       repo,
		aggregator: aggregator,
		surveys:    surveys,
		metrics:    m,
	}
}

// ScanReport es el resultado de verificar el log sin agregar.
type ScanReport struct {
	Valid    int                       `json:"valid"`
	Skipped  int                       `json:"skipped"`
	Problems []domain.PartialReadError `json:"problems,omitempty"`
}

// SurveyPreview es el analisis de una encuesta que no se guarda.
type SurveyPreview struct {
	Record   domain.SurveyRecord      `json:"record"`
	Analysis analytics.RecordAnalysis `json:"analysis"`
}

// ThresholdTable describe una tabla de bandas para mostrarla.
type ThresholdTable struct {
	Bands       []string           `json:"bands"`
	UpperBounds map[string]float64 `json:"upper_bounds"`
}

// Complete escanea el log y construye el snapshot.
func (s *AnalysisService) Complete(ctx context.Context, opts analytics.Options) (domain.AnalysisSnapshot, error) {
	if s.repo == nil || s.aggregator == nil {
		return domain.AnalysisSnapshot{}, ErrServiceNotConfigured
	}

	start := time.Now()
	res, err := s.repo.ScanAll(ctx)
	if err != nil {
		return domain.AnalysisSnapshot{}, fmt.Errorf("scan surveys: %w", err)
	}
	snap := s.aggregator.Aggregate(res.Records, opts)
	snap.SkippedRows = res.Skipped

	elapsed := time.Since(start)
	s.metrics.Scan(len(res.Records), res.Skipped, elapsed)
	if res.Skipped > 0 {
		s.logger.Warn("analysis skipped invalid rows", zap.Int("skipped", res.Skipped))
	}
	s.logger.Debug("analysis snapshot built",
		zap.Int("total_surveys", snap.TotalSurveys),
		zap.Duration("elapsed", elapsed),
	)
	return snap, nil
}

func (s *AnalysisService) Background(ctx context.Context, opts analytics.Options) (domain.BackgroundReport, error) {
	snap, err := s.Complete(ctx, opts)
	return snap.Background, err
}

func (s *AnalysisService) Behavioral(ctx context.Context) (domain.BehavioralReport, error) {
	snap, err := s.Complete(ctx, analytics.Options{})
	return snap.Behavioral, err
}

func (s *AnalysisService) RoleModel(ctx context.Context) (domain.RoleModelReport, error) {
	snap, err := s.Complete(ctx, analytics.Options{})
	return snap.RoleModel, err
}

func (s *AnalysisService) Income(ctx context.Context) (domain.IncomeReport, error) {
	snap, err := s.Complete(ctx, analytics.Options{})
	return snap.Income, err
}

// Verify escanea el log y devuelve cuantas filas se pudieron leer y cuales no.
func (s *AnalysisService) Verify(ctx context.Context) (ScanReport, error) {
	if s.repo == nil {
		return ScanReport{}, ErrServiceNotConfigured
	}
	res, err := s.repo.ScanAll(ctx)
	if err != nil {
		return ScanReport{}, fmt.Errorf("scan surveys: %w", err)
	}
	return ScanReport{Valid: len(res.Records), Skipped: res.Skipped, Problems: res.Problems}, nil
}

// Preview valida y analiza una encuesta con las mismas tablas que la agregacion, sin
// guardarla.
func (s *AnalysisService) Preview(in domain.SurveyInput) (SurveyPreview, error) {
	if s.surveys == nil || s.aggregator == nil {
		return SurveyPreview{}, ErrServiceNotConfigured
	}
	rec, err := s.surveys.Normalize(in)
	if err != nil {
		return SurveyPreview{}, err
	}
	return SurveyPreview{Record: rec, Analysis: s.aggregator.Analyze(rec)}, nil
}

// Vocabulary devuelve los rasgos reconocidos con su descripcion.
func (s *AnalysisService) Vocabulary() analytics.Vocabulary {
	if s.aggregator == nil {
		return nil
	}
	return s.aggregator.Traits().Vocabulary()
}

// Professions devuelve las profesiones reconocidas en "Role models" con sus rasgos.
func (s *AnalysisService) Professions() analytics.Professions {
	if s.aggregator == nil {
		return nil
	}
	return s.aggregator.Professions().Professions()
}

// Thresholds devuelve las tablas activas de ingreso y sentimiento.
func (s *AnalysisService) Thresholds() map[string]ThresholdTable {
	if s.aggregator == nil {
		return nil
	}
	income := s.aggregator.IncomeThresholds()
	sentiment := s.aggregator.SentimentBands()
	return map[string]ThresholdTable{
		"income":    {Bands: income.Bands(), UpperBounds: income.UpperBounds()},
		"sentiment": {Bands: sentiment.Bands(), UpperBounds: sentiment.UpperBounds()},
	}
}
