package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"child-survey/internal/analytics"
	"child-survey/internal/domain"
	"child-survey/internal/metrics"
	"child-survey/internal/repository"
)

// ErrServiceNotConfigured indica que falta una dependencia del servicio.
var ErrServiceNotConfigured = errors.New("service not configured")

// SurveyService valida, puntua y guarda encuestas.
type SurveyService struct {
	logger   *zap.Logger
	repo     repository.SurveyRepository
	scorer   *analytics.Scorer
	grades   domain.GradeRange
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func NewSurveyService(
	logger *zap.Logger,
	repo repository.SurveyRepository,
	scorer *analytics.Scorer,
	grades domain.GradeRange,
	m *metrics.Metrics,
) *SurveyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if grades == (domain.GradeRange{}) {
		grades = domain.DefaultGradeRange
	}
	return &SurveyService{
		logger:   logger,
		repo:     repo,
		scorer:   scorer,
		grades:   grades,
		metrics:  m,
		validate: newInputValidator(),
	}
}

// newInputValidator reporta los campos con su nombre JSON.
func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Grades devuelve el rango de clases aceptado.
func (s *SurveyService) Grades() domain.GradeRange { return s.grades }

// Normalize valida la entrada y arma el registro listo para guardar, con el puntaje de
// comportamiento ya calculado. No toca el almacenamiento.
func (s *SurveyService) Normalize(in domain.SurveyInput) (domain.SurveyRecord, error) {
	if s.scorer == nil {
		return domain.SurveyRecord{}, ErrServiceNotConfigured
	}

	in = trimInput(in)
	var verr domain.ValidationError
	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.SurveyRecord{}, fmt.Errorf("validate survey input: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), validationMessage(fe))
		}
	}
	if verr.HasErrors() {
		return domain.SurveyRecord{}, &verr
	}

	rec := domain.SurveyRecord{
		NameOfChild:         in.NameOfChild,
		Age:                 *in.Age,
		SchoolClass:         *in.SchoolClass,
		Background:          in.Background,
		ProblemsAtHome:      in.ProblemsAtHome,
		BehavioralImpact:    in.BehavioralImpact,
		AcademicPerformance: *in.AcademicPerformance,
		FamilyIncome:        *in.FamilyIncome,
		RoleModel:           in.RoleModel,
		RoleModelReason:     in.RoleModelReason,
	}
	if err := rec.Validate(s.grades); err != nil {
		return domain.SurveyRecord{}, err
	}
	rec.BehavioralSentimentScore = s.scorer.Score(rec.BehavioralImpact)
	return rec, nil
}

// Submit valida y agrega una encuesta. Devuelve el registro con id y timestamp asignados.
func (s *SurveyService) Submit(ctx context.Context, in domain.SurveyInput) (domain.SurveyRecord, error) {
	if s.repo == nil {
		return domain.SurveyRecord{}, ErrServiceNotConfigured
	}

	rec, err := s.Normalize(in)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.metrics.Submission("invalid")
		}
		return domain.SurveyRecord{}, err
	}

	stored, err := s.repo.Append(ctx, rec)
	if err != nil {
		s.metrics.Submission("error")
		s.logger.Error("append survey failed", zap.Error(err))
		return domain.SurveyRecord{}, fmt.Errorf("append survey: %w", err)
	}
	s.metrics.Submission("stored")
	s.logger.Info("survey stored",
		zap.Int64("id", stored.ID),
		zap.Int("behavioral_score", stored.BehavioralSentimentScore),
	)
	return stored, nil
}

// List devuelve todos los registros validos en orden de llegada.
func (s *SurveyService) List(ctx context.Context) ([]domain.SurveyRecord, error) {
	if s.repo == nil {
		return nil, ErrServiceNotConfigured
	}
	res, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	if res.Records == nil {
		return []domain.SurveyRecord{}, nil
	}
	return res.Records, nil
}

func trimInput(in domain.SurveyInput) domain.SurveyInput {
	in.NameOfChild = strings.TrimSpace(in.NameOfChild)
	in.Background = strings.TrimSpace(in.Background)
	in.ProblemsAtHome = strings.TrimSpace(in.ProblemsAtHome)
	in.BehavioralImpact = strings.TrimSpace(in.BehavioralImpact)
	in.RoleModel = strings.TrimSpace(in.RoleModel)
	in.RoleModelReason = strings.TrimSpace(in.RoleModelReason)
	return in
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
