package domain

import (
	"bytes"
	"encoding/json"
)

// AnalysisSnapshot es el agregado recalculado en cada pedido de analitica.
type AnalysisSnapshot struct {
	TotalSurveys int              `json:"totalSurveys"`
	SkippedRows  int              `json:"skippedRows"`
	Background   BackgroundReport `json:"background"`
	Behavioral   BehavioralReport `json:"behavioral"`
	RoleModel    RoleModelReport  `json:"rolemodel"`
	Income       IncomeReport     `json:"income"`
}

// BehavioralReport resume el puntaje de "Behavioral Impact" en cinco bandas.
type BehavioralReport struct {
	HighlyPositiveCount int     `json:"highly_positive_count"`
	PositiveCount       int     `json:"positive_count"`
	NeutralCount        int     `json:"neutral_count"`
	NegativeCount       int     `json:"negative_count"`
	HighlyNegativeCount int     `json:"highly_negative_count"`
	AverageScore        float64 `json:"average_score"`
	TotalResponses      int     `json:"total_responses"`
}

// BackgroundReport resume el sentimiento del texto de contexto familiar.
type BackgroundReport struct {
	// Agrupados: positive_count incluye highly_positive, negative_count incluye highly_negative.
	PositiveCount int `json:"positive_count"`
	NeutralCount  int `json:"neutral_count"`
	NegativeCount int `json:"negative_count"`

	HighlyPositive int `json:"highly_positive"`
	Positive       int `json:"positive"`
	Neutral        int `json:"neutral"`
	Negative       int `json:"negative"`
	HighlyNegative int `json:"highly_negative"`

	AverageScore float64            `json:"average_score"`
	Details      []BackgroundDetail `json:"background_details,omitempty"`
}

// BackgroundDetail es el desglose por registro, solo cuando se pide.
type BackgroundDetail struct {
	Background string `json:"background"`
	Score      int    `json:"score"`
	Category   string `json:"category"`
}

// RoleModelReport resume rasgos y sentimiento de las razones del modelo a seguir.
type RoleModelReport struct {
	PositiveImpact   int            `json:"positiveImpact"`
	NeutralImpact    int            `json:"neutralImpact"`
	NegativeImpact   int            `json:"negativeImpact"`
	InfluentialCount int            `json:"influentialCount"`
	TotalTraits      int            `json:"totalTraits"`
	TopTraits        TraitCounts    `json:"topTraits"`
	TraitFrequency   map[string]int `json:"traitFrequency"`

	// Profesiones reconocidas en "Role models" y los rasgos asociados a ellas.
	ProfessionFrequency      map[string]int `json:"professionFrequency"`
	ProfessionTraitFrequency map[string]int `json:"professionTraitFrequency"`
}

// IncomeReport resume el ingreso familiar por tramo.
type IncomeReport struct {
	BelowPovertyLine  int                `json:"below_poverty_line"`
	LowIncome         int                `json:"low_income"`
	BelowAverage      int                `json:"below_average"`
	Average           int                `json:"average"`
	AboveAverage      int                `json:"above_average"`
	AverageIncome     float64            `json:"averageIncome"`
	TotalHouseholds   int                `json:"total_households"`
	CurrentThresholds map[string]float64 `json:"current_thresholds"`
}

// TraitCount es un rasgo con su frecuencia.
type TraitCount struct {
	Trait string
	Count int
}

// TraitCounts conserva el orden de ranking al serializar como objeto JSON.
type TraitCounts []TraitCount

func (tc TraitCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range tc {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Trait)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(t.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Map devuelve los conteos como mapa, sin orden.
func (tc TraitCounts) Map() map[string]int {
	out := make(map[string]int, len(tc))
	for _, t := range tc {
		out[t.Trait] = t.Count
	}
	return out
}
