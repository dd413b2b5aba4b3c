package service

import (
	"errors"
	"testing"

	"child-survey/internal/domain"
)

func TestDecodeSurveyInputFormLabels(t *testing.T) {
	body := []byte(`{
		"Name of Child ": "Ravi",
		"Age": "11",
		"Class (बच्चे की कक्षा)": "6",
		"Background of the Child ": "Mother sells vegetables",
		"Problems in Home": "",
		"Behavioral Impact": "quiet",
		"Academic Performance": 8,
		"Family Income ": "12,500",
		"Role models": "Teacher",
		"Reason for such role model ": "helpful",
		"Timestamp": "ignored"
	}`)

	in, err := DecodeSurveyInput(body)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if in.NameOfChild != "Ravi" || in.Background != "Mother sells vegetables" || in.RoleModelReason != "helpful" {
		t.Fatalf("unexpected text fields: %+v", in)
	}
	if in.Age == nil || *in.Age != 11 || in.SchoolClass == nil || *in.SchoolClass != 6 {
		t.Fatalf("unexpected numeric fields: age=%v class=%v", in.Age, in.SchoolClass)
	}
	if *in.AcademicPerformance != 8 || *in.FamilyIncome != 12500 {
		t.Fatalf("unexpected numbers: %v %v", *in.AcademicPerformance, *in.FamilyIncome)
	}
}

func TestDecodeSurveyInputCamelCase(t *testing.T) {
	body := []byte(`{"nameOfChild":"A","age":9.5,"schoolClass":4,"familyIncome":null}`)
	in, err := DecodeSurveyInput(body)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if in.NameOfChild != "A" || *in.Age != 9.5 || *in.SchoolClass != 4 {
		t.Fatalf("unexpected decode: %+v", in)
	}
	if in.FamilyIncome != nil {
		t.Fatalf("expected null income to stay absent")
	}
}

func TestDecodeSurveyInputTypeErrors(t *testing.T) {
	body := []byte(`{"age":"ten","schoolClass":"4.5","nameOfChild":true,"familyIncome":"  "}`)
	in, err := DecodeSurveyInput(body)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"age", "schoolClass", "nameOfChild"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, verr.Fields)
		}
	}
	if in.FamilyIncome != nil {
		t.Fatalf("expected blank income to be absent")
	}
}

func TestDecodeSurveyInputMalformed(t *testing.T) {
	for _, body := range []string{``, `[]`, `null`, `{"a":`} {
		if _, err := DecodeSurveyInput([]byte(body)); !errors.Is(err, ErrMalformedInput) {
			t.Fatalf("body %q: expected ErrMalformedInput, got %v", body, err)
		}
	}
}
