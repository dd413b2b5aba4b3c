package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"child-survey/internal/domain"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const importFixture = `[
	{"Name of Child": "Asha", "Age": "10", "Class (बच्चे की कक्षा)": "5",
	 "Background of the Child": "Farmer", "Behavioral Impact": "happy",
	 "Academic Performance": "7", "Family Income": "1000",
	 "Role models": "Mother", "Reason for such role model": "she is hardworking"},
	{"nameOfChild": "Ravi", "age": 11, "schoolClass": 6, "background": "Driver",
	 "behavioralImpact": "calm", "academicPerformance": 15, "familyIncome": 5000,
	 "roleModel": "Father", "roleModelReason": "honest"},
	{"nameOfChild": "Meena", "age": 9, "schoolClass": 4, "background": "Tailor",
	 "behavioralImpact": "sad", "academicPerformance": 6, "familyIncome": 9000,
	 "roleModel": "Teacher", "roleModelReason": "she is honest and hardworking"}
]`

func TestImportAnalyzeVerify(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "survey.csv")
	fixture := filepath.Join(dir, "surveys.json")
	if err := os.WriteFile(fixture, []byte(importFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := runCLI(t, "--store", store, "import", fixture)
	if err == nil || !strings.Contains(err.Error(), "1 submissions rejected") {
		t.Fatalf("expected one rejection, got %v", err)
	}
	if !strings.Contains(out, "item 2: rejected") || !strings.Contains(out, "imported 2, rejected 1") {
		t.Fatalf("unexpected import output:\n%s", out)
	}

	out, err = runCLI(t, "--store", store, "analyze", "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var snap domain.AnalysisSnapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}
	if snap.TotalSurveys != 2 || snap.RoleModel.TraitFrequency["hardworking"] != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	out, err = runCLI(t, "--store", store, "analyze")
	if err != nil || !strings.Contains(out, "total surveys") {
		t.Fatalf("expected text snapshot, got %v\n%s", err, out)
	}

	out, err = runCLI(t, "--store", store, "verify")
	if err != nil || !strings.Contains(out, "skipped rows: 0") {
		t.Fatalf("expected clean verify, got %v\n%s", err, out)
	}
}

func TestVerifyFailsOnSkippedRows(t *testing.T) {
	store := filepath.Join(t.TempDir(), "survey.csv")
	content := strings.Join(domain.SurveyHeader, ",") + "\n" +
		"1,2024-01-01T00:00:00Z,A,10,5,Farmer,,happy,6,1000,Mother,kind,3\n" +
		"2,not-a-date,B,10,5,Farmer,,happy,6,1000,Mother,kind,3\n"
	if err := os.WriteFile(store, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := runCLI(t, "--store", store, "verify")
	if !errors.Is(err, errSkippedRows) {
		t.Fatalf("expected errSkippedRows, got %v", err)
	}
	if !strings.Contains(out, "row 3: invalid timestamp") {
		t.Fatalf("expected problem listing, got:\n%s", out)
	}
}

func TestThresholdsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "analytics.yaml")
	if err := os.WriteFile(cfgPath, []byte("income_thresholds:\n  below_poverty_line: 3000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "--store", filepath.Join(dir, "s.csv"), "--analytics-config", cfgPath, "thresholds")
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	if !strings.Contains(out, "below_poverty_line") || !strings.Contains(out, "up to 3000") {
		t.Fatalf("unexpected thresholds output:\n%s", out)
	}
}
