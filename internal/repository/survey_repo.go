package repository

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"child-survey/internal/domain"
)

// maxProblems limita cuantas filas invalidas se reportan con detalle en un escaneo.
const maxProblems = 100

// SurveyRepository es el log append-only de encuestas.
type SurveyRepository interface {
	Append(ctx context.Context, rec domain.SurveyRecord) (domain.SurveyRecord, error)
	ScanAll(ctx context.Context) (ScanResult, error)
}

// ScanResult es un prefijo consistente del log.
type ScanResult struct {
	Records  []domain.SurveyRecord
	Skipped  int
	Problems []domain.PartialReadError
}

func (s *ScanResult) skip(row int, reason string) {
	s.Skipped++
	if len(s.Problems) < maxProblems {
		s.Problems = append(s.Problems, domain.PartialReadError{Row: row, Reason: reason})
	}
}

// ScoreFunc recalcula el puntaje de comportamiento para filas antiguas sin columna Score.
type ScoreFunc func(text string) int

// encodeRow serializa un registro en el orden de domain.SurveyHeader.
func encodeRow(rec domain.SurveyRecord) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.NameOfChild,
		formatNumber(rec.Age),
		strconv.Itoa(rec.SchoolClass),
		rec.Background,
		rec.ProblemsAtHome,
		rec.BehavioralImpact,
		formatNumber(rec.AcademicPerformance),
		formatNumber(rec.FamilyIncome),
		rec.RoleModel,
		rec.RoleModelReason,
		strconv.Itoa(rec.BehavioralSentimentScore),
	}
}

// singleLine colapsa saltos de linea: cada registro ocupa exactamente una linea del archivo.
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}

func sanitizeRecord(rec domain.SurveyRecord) domain.SurveyRecord {
	rec.NameOfChild = singleLine(rec.NameOfChild)
	rec.Background = singleLine(rec.Background)
	rec.ProblemsAtHome = singleLine(rec.ProblemsAtHome)
	rec.BehavioralImpact = singleLine(rec.BehavioralImpact)
	rec.RoleModel = singleLine(rec.RoleModel)
	rec.RoleModelReason = singleLine(rec.RoleModelReason)
	return rec
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// columnMap traduce etiquetas de cabecera a posiciones. Las etiquetas se comparan recortadas,
// asi una cabecera antigua con espacios finales mapea igual.
type columnMap map[string]int

func newColumnMap(header []string) (columnMap, error) {
	cols := make(columnMap, len(header))
	for i, label := range header {
		label = strings.TrimSpace(strings.TrimPrefix(label, "\ufeff"))
		if label == "" {
			continue
		}
		if _, dup := cols[label]; !dup {
			cols[label] = i
		}
	}
	for _, required := range domain.SurveyHeader {
		switch required {
		case domain.LabelScore, domain.LabelProblemsAtHome:
			continue
		}
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("header missing column %q", required)
		}
	}
	return cols, nil
}

func (c columnMap) get(fields []string, label string) (string, bool) {
	i, ok := c[label]
	if !ok || i >= len(fields) {
		return "", false
	}
	return strings.TrimSpace(fields[i]), true
}

// decodeRow reconstruye y valida un registro. Devuelve el motivo de rechazo si la fila no
// cumple el esquema.
func decodeRow(cols columnMap, fields []string, grades domain.GradeRange, rescore ScoreFunc) (domain.SurveyRecord, error) {
	var rec domain.SurveyRecord
	var err error

	raw, _ := cols.get(fields, domain.LabelID)
	if rec.ID, err = strconv.ParseInt(raw, 10, 64); err != nil || rec.ID <= 0 {
		return rec, fmt.Errorf("invalid id %q", raw)
	}
	raw, _ = cols.get(fields, domain.LabelTimestamp)
	if rec.Timestamp, err = time.Parse(time.RFC3339Nano, raw); err != nil {
		return rec, fmt.Errorf("invalid timestamp %q", raw)
	}
	rec.Timestamp = rec.Timestamp.UTC()

	rec.NameOfChild, _ = cols.get(fields, domain.LabelNameOfChild)
	rec.Background, _ = cols.get(fields, domain.LabelBackground)
	rec.ProblemsAtHome, _ = cols.get(fields, domain.LabelProblemsAtHome)
	rec.BehavioralImpact, _ = cols.get(fields, domain.LabelBehavioralImpact)
	rec.RoleModel, _ = cols.get(fields, domain.LabelRoleModel)
	rec.RoleModelReason, _ = cols.get(fields, domain.LabelRoleModelReason)

	if rec.Age, err = parseNumber(cols, fields, domain.LabelAge); err != nil {
		return rec, err
	}
	class, err := parseNumber(cols, fields, domain.LabelSchoolClass)
	if err != nil {
		return rec, err
	}
	if class != math.Trunc(class) {
		return rec, fmt.Errorf("class %v is not a whole number", class)
	}
	rec.SchoolClass = int(class)
	if rec.AcademicPerformance, err = parseNumber(cols, fields, domain.LabelAcademicPerformance); err != nil {
		return rec, err
	}
	if rec.FamilyIncome, err = parseNumber(cols, fields, domain.LabelFamilyIncome); err != nil {
		return rec, err
	}

	raw, ok := cols.get(fields, domain.LabelScore)
	switch {
	case ok && raw != "":
		if rec.BehavioralSentimentScore, err = strconv.Atoi(raw); err != nil {
			return rec, fmt.Errorf("invalid score %q", raw)
		}
	case rescore != nil:
		rec.BehavioralSentimentScore = rescore(rec.BehavioralImpact)
	}

	if err := rec.Validate(grades); err != nil {
		return rec, err
	}
	return rec, nil
}

func parseNumber(cols columnMap, fields []string, label string) (float64, error) {
	raw, _ := cols.get(fields, label)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", strings.ToLower(label), raw)
	}
	return v, nil
}
