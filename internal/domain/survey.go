package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Etiquetas de columna del formulario de ingreso. Son el esquema canonico del archivo
// persistido y las claves aceptadas en el JSON de entrada.
const (
	LabelID                  = "ID"
	LabelTimestamp           = "Timestamp"
	LabelNameOfChild         = "Name of Child"
	LabelAge                 = "Age"
	LabelSchoolClass         = "Class (बच्चे की कक्षा)"
	LabelBackground          = "Background of the Child"
	LabelProblemsAtHome      = "Problems in Home"
	LabelBehavioralImpact    = "Behavioral Impact"
	LabelAcademicPerformance = "Academic Performance"
	LabelFamilyIncome        = "Family Income"
	LabelRoleModel           = "Role models"
	LabelRoleModelReason     = "Reason for such role model"
	LabelScore               = "Score"
)

// SurveyHeader es la fila 1 del archivo de registros, en orden de columna.
var SurveyHeader = []string{
	LabelID,
	LabelTimestamp,
	LabelNameOfChild,
	LabelAge,
	LabelSchoolClass,
	LabelBackground,
	LabelProblemsAtHome,
	LabelBehavioralImpact,
	LabelAcademicPerformance,
	LabelFamilyIncome,
	LabelRoleModel,
	LabelRoleModelReason,
	LabelScore,
}

// SurveyRecord es una encuesta validada. Inmutable una vez almacenada.
type SurveyRecord struct {
	ID                       int64     `json:"id"`
	Timestamp                time.Time `json:"timestamp"`
	NameOfChild              string    `json:"nameOfChild"`
	Age                      float64   `json:"age"`
	SchoolClass              int       `json:"schoolClass"`
	Background               string    `json:"background"`
	ProblemsAtHome           string    `json:"problemsAtHome,omitempty"`
	BehavioralImpact         string    `json:"behavioralImpact"`
	AcademicPerformance      float64   `json:"academicPerformance"`
	FamilyIncome             float64   `json:"familyIncome"`
	RoleModel                string    `json:"roleModel"`
	RoleModelReason          string    `json:"roleModelReason"`
	BehavioralSentimentScore int       `json:"behavioralSentimentScore"`
}

// SurveyInput es el cuerpo de una encuesta tal como llega del formulario, antes de validar.
// Los numericos son punteros para distinguir "ausente" de cero.
type SurveyInput struct {
	NameOfChild         string   `json:"nameOfChild" validate:"required"`
	Age                 *float64 `json:"age" validate:"required,gt=0"`
	SchoolClass         *int     `json:"schoolClass" validate:"required"`
	Background          string   `json:"background" validate:"required"`
	ProblemsAtHome      string   `json:"problemsAtHome"`
	BehavioralImpact    string   `json:"behavioralImpact" validate:"required"`
	AcademicPerformance *float64 `json:"academicPerformance" validate:"required,gte=1,lte=10"`
	FamilyIncome        *float64 `json:"familyIncome" validate:"required,gte=0"`
	RoleModel           string   `json:"roleModel" validate:"required"`
	RoleModelReason     string   `json:"roleModelReason" validate:"required"`
}

// GradeRange es el rango de clases escolares valido para la zona.
type GradeRange struct {
	Min int
	Max int
}

// DefaultGradeRange cubre clase 1 a 12.
var DefaultGradeRange = GradeRange{Min: 1, Max: 12}

// Validate aplica las restricciones del esquema a un registro ya tipado. Devuelve nil o un
// *ValidationError con un mensaje por campo.
func (r SurveyRecord) Validate(grades GradeRange) error {
	var verr ValidationError
	if strings.TrimSpace(r.NameOfChild) == "" {
		verr.Add("nameOfChild", "is required")
	}
	if !(r.Age > 0) {
		verr.Add("age", "must be greater than 0")
	}
	if r.SchoolClass < grades.Min || r.SchoolClass > grades.Max {
		verr.Add("schoolClass", fmt.Sprintf("must be between %d and %d", grades.Min, grades.Max))
	}
	if strings.TrimSpace(r.Background) == "" {
		verr.Add("background", "is required")
	}
	if strings.TrimSpace(r.BehavioralImpact) == "" {
		verr.Add("behavioralImpact", "is required")
	}
	if !(r.AcademicPerformance >= 1 && r.AcademicPerformance <= 10) {
		verr.Add("academicPerformance", "must be between 1 and 10")
	}
	if !(r.FamilyIncome >= 0) || math.IsInf(r.FamilyIncome, 0) {
		verr.Add("familyIncome", "must be greater than or equal to 0")
	}
	if strings.TrimSpace(r.RoleModel) == "" {
		verr.Add("roleModel", "is required")
	}
	if strings.TrimSpace(r.RoleModelReason) == "" {
		verr.Add("roleModelReason", "is required")
	}
	if verr.HasErrors() {
		return &verr
	}
	return nil
}
