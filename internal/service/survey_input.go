package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"child-survey/internal/domain"
)

// ErrMalformedInput indica que el cuerpo no es un objeto JSON.
var ErrMalformedInput = errors.New("malformed survey input")

// inputFieldNames acepta tanto las etiquetas del formulario como los nombres camelCase.
var inputFieldNames = func() map[string]string {
	pairs := [][2]string{
		{domain.LabelNameOfChild, "nameOfChild"},
		{domain.LabelAge, "age"},
		{domain.LabelSchoolClass, "schoolClass"},
		{domain.LabelBackground, "background"},
		{domain.LabelProblemsAtHome, "problemsAtHome"},
		{domain.LabelBehavioralImpact, "behavioralImpact"},
		{domain.LabelAcademicPerformance, "academicPerformance"},
		{domain.LabelFamilyIncome, "familyIncome"},
		{domain.LabelRoleModel, "roleModel"},
		{domain.LabelRoleModelReason, "roleModelReason"},
	}
	m := make(map[string]string, len(pairs)*2)
	for _, p := range pairs {
		m[normalizeKey(p[0])] = p[1]
		m[normalizeKey(p[1])] = p[1]
	}
	return m
}()

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// DecodeSurveyInput lee una encuesta en JSON. Las claves pueden venir con espacios de mas y
// los numeros como numero o como texto. Las claves desconocidas se ignoran.
func DecodeSurveyInput(body []byte) (domain.SurveyInput, error) {
	var in domain.SurveyInput

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &raw); err != nil || raw == nil {
		if err == nil {
			err = errors.New("body is null")
		}
		return in, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	fields := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		if name, ok := inputFieldNames[normalizeKey(k)]; ok {
			fields[name] = v
		}
	}

	var verr domain.ValidationError
	in.NameOfChild = textField(fields, "nameOfChild", &verr)
	in.Age = numberField(fields, "age", &verr)
	in.SchoolClass = wholeField(fields, "schoolClass", &verr)
	in.Background = textField(fields, "background", &verr)
	in.ProblemsAtHome = textField(fields, "problemsAtHome", &verr)
	in.BehavioralImpact = textField(fields, "behavioralImpact", &verr)
	in.AcademicPerformance = numberField(fields, "academicPerformance", &verr)
	in.FamilyIncome = numberField(fields, "familyIncome", &verr)
	in.RoleModel = textField(fields, "roleModel", &verr)
	in.RoleModelReason = textField(fields, "roleModelReason", &verr)

	if verr.HasErrors() {
		return in, &verr
	}
	return in, nil
}

// rawScalar devuelve el texto del valor y si era un string JSON. ok es false para null o
// ausente.
func rawScalar(fields map[string]json.RawMessage, name string) (text string, quoted bool, ok bool, err error) {
	v, present := fields[name]
	if !present {
		return "", false, false, nil
	}
	v = bytes.TrimSpace(v)
	switch {
	case len(v) == 0 || string(v) == "null":
		return "", false, false, nil
	case v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false, false, err
		}
		return s, true, true, nil
	case v[0] == '-' || (v[0] >= '0' && v[0] <= '9'):
		return string(v), false, true, nil
	default:
		return "", false, false, errors.New("unsupported type")
	}
}

func textField(fields map[string]json.RawMessage, name string, verr *domain.ValidationError) string {
	s, _, ok, err := rawScalar(fields, name)
	if err != nil {
		verr.Add(name, "must be a string")
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func numberField(fields map[string]json.RawMessage, name string, verr *domain.ValidationError) *float64 {
	s, quoted, ok, err := rawScalar(fields, name)
	if err != nil {
		verr.Add(name, "must be a number")
		return nil
	}
	if !ok {
		return nil
	}
	if quoted {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		verr.Add(name, "must be a number")
		return nil
	}
	return &v
}

func wholeField(fields map[string]json.RawMessage, name string, verr *domain.ValidationError) *int {
	v := numberField(fields, name, verr)
	if v == nil {
		return nil
	}
	if *v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32 {
		verr.Add(name, "must be a whole number")
		return nil
	}
	n := int(*v)
	return &n
}
