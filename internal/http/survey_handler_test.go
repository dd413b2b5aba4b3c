package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"child-survey/internal/analytics"
	"child-survey/internal/domain"
	"child-survey/internal/metrics"
	"child-survey/internal/repository"
	"child-survey/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	agg := analytics.NewAggregator(analytics.DefaultConfig())
	repo, err := repository.NewCSVSurveyRepository(filepath.Join(t.TempDir(), "survey.csv"), logger, repository.CSVOptions{
		Rescore: agg.Scorer().Score,
	})
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	m := metrics.New()
	surveys := service.NewSurveyService(logger, repo, agg.Scorer(), domain.DefaultGradeRange, m)
	analysis := service.NewAnalysisService(logger, repo, agg, surveys, m)
	return NewRouter(logger, m, nil, NewSurveyHandler(logger, surveys), NewAnalysisHandler(logger, analysis))
}

func surveyBody(overrides map[string]interface{}) []byte {
	body := map[string]interface{}{
		"Name of Child":              "Asha",
		"Age":                        "10",
		"Class (बच्चे की कक्षा)":     "5",
		"Background of the Child":    "Father is a driver",
		"Problems in Home":           "",
		"Behavioral Impact":          "happy and friendly",
		"Academic Performance":       "7",
		"Family Income":              "6000",
		"Role models":                "Teacher",
		"Reason for such role model": "she is hardworking",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, _ := json.Marshal(body)
	return raw
}

func doJSON(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func completeSnapshot(t *testing.T, r http.Handler, path string) domain.AnalysisSnapshot {
	t.Helper()
	w := doJSON(r, http.MethodGet, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from %s, got %d: %s", path, w.Code, w.Body.String())
	}
	var snap domain.AnalysisSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestSubmitThenAnalyzeEndToEnd(t *testing.T) {
	r := newTestRouter(t)

	for i := 1; i <= 3; i++ {
		w := doJSON(r, http.MethodPost, "/api/submit-survey", surveyBody(nil))
		if w.Code != http.StatusOK {
			t.Fatalf("submit %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		var resp struct {
			Success bool  `json:"success"`
			ID      int64 `json:"id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode submit response: %v", err)
		}
		if !resp.Success || resp.ID != int64(i) {
			t.Fatalf("unexpected submit response: %+v", resp)
		}
	}

	snap := completeSnapshot(t, r, "/api/analysis/complete")
	if snap.TotalSurveys != 3 || snap.Income.TotalHouseholds != 3 {
		t.Fatalf("expected totalSurveys 3, got %+v", snap)
	}
	if snap.RoleModel.TraitFrequency["hardworking"] != 3 {
		t.Fatalf("expected hardworking counted 3 times, got %v", snap.RoleModel.TraitFrequency)
	}

	w := doJSON(r, http.MethodPost, "/submit-survey", surveyBody(map[string]interface{}{"Academic Performance": 15}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var verr struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &verr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if verr.Error != "validation failed" || verr.Fields["academicPerformance"] == "" {
		t.Fatalf("unexpected validation body: %s", w.Body.String())
	}

	snap = completeSnapshot(t, r, "/analysis/complete")
	if snap.TotalSurveys != 3 {
		t.Fatalf("expected rejected submission not to be stored, got %d", snap.TotalSurveys)
	}
}

func TestGetSurveysReturnsAppendOrder(t *testing.T) {
	r := newTestRouter(t)

	for _, name := range []string{"A", "B"} {
		if w := doJSON(r, http.MethodPost, "/submit-survey", surveyBody(map[string]interface{}{"Name of Child": name})); w.Code != http.StatusOK {
			t.Fatalf("submit: %d %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(r, http.MethodGet, "/api/get-surveys", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var records []domain.SurveyRecord
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[0].NameOfChild != "A" || records[1].ID != 2 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestGetSurveysEmptyIsArray(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/get-surveys", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d %s", w.Code, w.Body.String())
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/submit-survey", []byte(`not json`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid request body") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestSubmitAcceptsCamelCaseNumbers(t *testing.T) {
	r := newTestRouter(t)
	body := []byte(`{
		"nameOfChild": "Ravi", "age": 12, "schoolClass": 7, "background": "Farmer family",
		"behavioralImpact": "sad", "academicPerformance": 4.5, "familyIncome": 1500,
		"roleModel": "None", "roleModelReason": "nobody"
	}`)
	w := doJSON(r, http.MethodPost, "/submit-survey", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	snap := completeSnapshot(t, r, "/analysis/complete-summary")
	if snap.Income.BelowPovertyLine != 1 || snap.RoleModel.InfluentialCount != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
