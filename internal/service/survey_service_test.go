package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"child-survey/internal/analytics"
	"child-survey/internal/domain"
	"child-survey/internal/repository"
)

type mockSurveyRepo struct {
	mu        sync.Mutex
	records   []domain.SurveyRecord
	skipped   int
	appendErr error
	scanErr   error
}

func (m *mockSurveyRepo) Append(_ context.Context, rec domain.SurveyRecord) (domain.SurveyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return domain.SurveyRecord{}, m.appendErr
	}
	rec.ID = int64(len(m.records) + 1)
	rec.Timestamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *mockSurveyRepo) ScanAll(_ context.Context) (repository.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scanErr != nil {
		return repository.ScanResult{}, m.scanErr
	}
	out := make([]domain.SurveyRecord, len(m.records))
	copy(out, m.records)
	return repository.ScanResult{Records: out, Skipped: m.skipped}, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func validInput() domain.SurveyInput {
	return domain.SurveyInput{
		NameOfChild:         " Asha ",
		Age:                 floatPtr(10),
		SchoolClass:         intPtr(5),
		Background:          "Father is a farmer",
		BehavioralImpact:    "happy and confident",
		AcademicPerformance: floatPtr(7),
		FamilyIncome:        floatPtr(6000),
		RoleModel:           "Mother",
		RoleModelReason:     "she is hardworking",
	}
}

func newTestSurveyService(repo repository.SurveyRepository) *SurveyService {
	scorer := analytics.NewScorer(analytics.DefaultLexicon())
	return NewSurveyService(zap.NewNop(), repo, scorer, domain.DefaultGradeRange, nil)
}

func TestSurveyServiceSubmitScoresAndStores(t *testing.T) {
	repo := &mockSurveyRepo{}
	svc := newTestSurveyService(repo)

	rec, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.ID != 1 || rec.NameOfChild != "Asha" {
		t.Fatalf("unexpected stored record: %+v", rec)
	}
	want := analytics.NewScorer(analytics.DefaultLexicon()).Score("happy and confident")
	if rec.BehavioralSentimentScore != want || want <= 0 {
		t.Fatalf("expected positive score %d, got %d", want, rec.BehavioralSentimentScore)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected one append, got %d", len(repo.records))
	}
}

func TestSurveyServiceSubmitValidation(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(in *domain.SurveyInput)
		field string
	}{
		{"missing name", func(in *domain.SurveyInput) { in.NameOfChild = "   " }, "nameOfChild"},
		{"missing age", func(in *domain.SurveyInput) { in.Age = nil }, "age"},
		{"zero age", func(in *domain.SurveyInput) { in.Age = floatPtr(0) }, "age"},
		{"academic too high", func(in *domain.SurveyInput) { in.AcademicPerformance = floatPtr(15) }, "academicPerformance"},
		{"academic too low", func(in *domain.SurveyInput) { in.AcademicPerformance = floatPtr(0.5) }, "academicPerformance"},
		{"negative income", func(in *domain.SurveyInput) { in.FamilyIncome = floatPtr(-1) }, "familyIncome"},
		{"class out of range", func(in *domain.SurveyInput) { in.SchoolClass = intPtr(13) }, "schoolClass"},
		{"missing reason", func(in *domain.SurveyInput) { in.RoleModelReason = "" }, "roleModelReason"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockSurveyRepo{}
			svc := newTestSurveyService(repo)
			in := validInput()
			tc.edit(&in)

			_, err := svc.Submit(context.Background(), in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %s in %v", tc.field, verr.Fields)
			}
			if len(repo.records) != 0 {
				t.Fatalf("expected nothing appended")
			}
		})
	}
}

func TestSurveyServiceProblemsAtHomeOptional(t *testing.T) {
	svc := newTestSurveyService(&mockSurveyRepo{})
	in := validInput()
	in.ProblemsAtHome = ""
	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("expected optional problemsAtHome, got %v", err)
	}
}

func TestSurveyServiceStorageError(t *testing.T) {
	repo := &mockSurveyRepo{appendErr: domain.NewStorageError("append", domain.ErrStoreLocked)}
	svc := newTestSurveyService(repo)

	_, err := svc.Submit(context.Background(), validInput())
	var serr *domain.StorageError
	if !errors.As(err, &serr) || !errors.Is(err, domain.ErrStoreLocked) {
		t.Fatalf("expected wrapped StorageError, got %v", err)
	}
}

func TestSurveyServiceNotConfigured(t *testing.T) {
	svc := NewSurveyService(zap.NewNop(), nil, nil, domain.GradeRange{}, nil)
	if _, err := svc.Submit(context.Background(), validInput()); !errors.Is(err, ErrServiceNotConfigured) {
		t.Fatalf("expected ErrServiceNotConfigured, got %v", err)
	}
	if _, err := svc.List(context.Background()); !errors.Is(err, ErrServiceNotConfigured) {
		t.Fatalf("expected ErrServiceNotConfigured, got %v", err)
	}
}

func TestSurveyServiceListEmptyIsNotNil(t *testing.T) {
	svc := newTestSurveyService(&mockSurveyRepo{})
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", list)
	}
}
