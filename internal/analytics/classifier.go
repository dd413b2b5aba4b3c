package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// Bandas de sentimiento.
const (
	BandHighlyNegative = "highly_negative"
	BandNegative       = "negative"
	BandNeutral        = "neutral"
	BandPositive       = "positive"
	BandHighlyPositive = "highly_positive"
)

// Tramos de ingreso familiar.
const (
	BandBelowPovertyLine = "below_poverty_line"
	BandLowIncome        = "low_income"
	BandBelowAverage     = "below_average"
	BandAverage          = "average"
	BandAboveAverage     = "above_average"
)

// Cut es el limite superior de una banda. Un valor cae en Band si es menor que Bound,
// o menor o igual cuando Inclusive es true.
type Cut struct {
	Bound     float64 `yaml:"upper" json:"upper"`
	Band      string  `yaml:"band" json:"band"`
	Inclusive bool    `yaml:"inclusive,omitempty" json:"inclusive,omitempty"`
}

// Thresholds es una tabla ordenada de cortes mas la banda superior, sin limite.
type Thresholds struct {
	Cuts []Cut  `yaml:"cuts" json:"cuts"`
	Top  string `yaml:"top" json:"top"`
}

var errEmptyBand = errors.New("band name is empty")

// Validate exige limites estrictamente crecientes y nombres de banda no vacios.
func (t Thresholds) Validate() error {
	if strings.TrimSpace(t.Top) == "" {
		return fmt.Errorf("top band: %w", errEmptyBand)
	}
	for i, c := range t.Cuts {
		if strings.TrimSpace(c.Band) == "" {
			return fmt.Errorf("cut %d: %w", i, errEmptyBand)
		}
		if i > 0 && c.Bound <= t.Cuts[i-1].Bound {
			return fmt.Errorf("cut %d (%s): bound %v must be greater than %v", i, c.Band, c.Bound, t.Cuts[i-1].Bound)
		}
	}
	return nil
}

// Bands devuelve los nombres de banda de menor a mayor.
func (t Thresholds) Bands() []string {
	out := make([]string, 0, len(t.Cuts)+1)
	for _, c := range t.Cuts {
		out = append(out, c.Band)
	}
	return append(out, t.Top)
}

// UpperBounds devuelve banda -> limite superior para exponer la configuracion activa.
func (t Thresholds) UpperBounds() map[string]float64 {
	out := make(map[string]float64, len(t.Cuts))
	for _, c := range t.Cuts {
		out[c.Band] = c.Bound
	}
	return out
}

// Classify recorre los cortes en orden ascendente y devuelve la primera banda cuyo limite
// supera al valor; si ninguno lo supera, la banda superior.
func Classify(value float64, t Thresholds) string {
	for _, c := range t.Cuts {
		if value < c.Bound || (c.Inclusive && value == c.Bound) {
			return c.Band
		}
	}
	return t.Top
}

// DefaultSentimentBands: highly_negative <= -5 < negative <= -1 < neutral < 1 <= positive < 5 <= highly_positive.
func DefaultSentimentBands() Thresholds {
	return Thresholds{
		Cuts: []Cut{
			{Bound: -5, Band: BandHighlyNegative, Inclusive: true},
			{Bound: -1, Band: BandNegative, Inclusive: true},
			{Bound: 1, Band: BandNeutral},
			{Bound: 5, Band: BandPositive},
		},
		Top: BandHighlyPositive,
	}
}

// DefaultIncomeThresholds usa cortes absolutos en rupias por mes.
func DefaultIncomeThresholds() Thresholds {
	return Thresholds{
		Cuts: []Cut{
			{Bound: 2250, Band: BandBelowPovertyLine},
			{Bound: 10000, Band: BandLowIncome},
			{Bound: 25000, Band: BandBelowAverage},
			{Bound: 45000, Band: BandAverage},
		},
		Top: BandAboveAverage,
	}
}

// ImpactBands divide en tres: negativo < 0 <= neutral < 1 <= positivo.
func ImpactBands() Thresholds {
	return Thresholds{
		Cuts: []Cut{
			{Bound: 0, Band: BandNegative},
			{Bound: 1, Band: BandNeutral},
		},
		Top: BandPositive,
	}
}
