package analytics

import (
	"math"
	"sort"
	"strings"

	"child-survey/internal/domain"
)

// placeholderRoleModels son respuestas que no nombran a nadie.
var placeholderRoleModels = map[string]struct{}{
	"none":    {},
	"n/a":     {},
	"na":      {},
	"nil":     {},
	"nobody":  {},
	"no one":  {},
	"no":      {},
	"-":       {},
	"nothing": {},
}

// Options ajusta la salida de un agregado.
type Options struct {
	IncludeDetails bool
}

// Aggregator combina scorer, clasificador y extractor sobre un escaneo completo.
// No guarda estado entre llamadas; es seguro para uso concurrente.
type Aggregator struct {
	scorer           *Scorer
	backgroundScorer *Scorer
	traits           *TraitExtractor
	professions      *ProfessionMatcher
	sentimentBands   Thresholds
	impactBands      Thresholds
	incomeBands      Thresholds
	topTraits        int
}

// NewAggregator construye los primitivos a partir de la configuracion.
func NewAggregator(cfg Config) *Aggregator {
	top := cfg.TopTraits
	if top <= 0 {
		top = 5
	}
	return &Aggregator{
		scorer:           NewScorer(cfg.Lexicon),
		backgroundScorer: NewScorer(cfg.Lexicon.Merge(cfg.BackgroundLexicon)),
		traits:           NewTraitExtractor(cfg.Vocabulary),
		professions:      NewProfessionMatcher(cfg.Professions),
		sentimentBands:   cfg.SentimentBands,
		impactBands:      ImpactBands(),
		incomeBands:      cfg.IncomeThresholds,
		topTraits:        top,
	}
}

// Scorer devuelve el scorer usado para "Behavioral Impact" y las razones de modelo a seguir.
func (a *Aggregator) Scorer() *Scorer { return a.scorer }

// Traits devuelve el extractor de rasgos activo.
func (a *Aggregator) Traits() *TraitExtractor { return a.traits }

// Professions devuelve el reconocedor de profesiones activo.
func (a *Aggregator) Professions() *ProfessionMatcher { return a.professions }

// SentimentBands devuelve la tabla de bandas de sentimiento activa.
func (a *Aggregator) SentimentBands() Thresholds { return a.sentimentBands }

// IncomeThresholds devuelve la tabla de tramos de ingreso activa.
func (a *Aggregator) IncomeThresholds() Thresholds { return a.incomeBands }

// RecordAnalysis es la clasificacion de un unico registro.
type RecordAnalysis struct {
	BehavioralScore    int      `json:"behavioralScore"`
	BehavioralCategory string   `json:"behavioralCategory"`
	BackgroundScore    int      `json:"backgroundScore"`
	BackgroundCategory string   `json:"backgroundCategory"`
	Traits             []string `json:"traits"`
	Professions        []string `json:"professions"`
	ProfessionTraits   []string `json:"professionTraits"`
	RoleModelImpact    string   `json:"roleModelImpact"`
	Influential        bool     `json:"influential"`
	IncomeBand         string   `json:"incomeBand"`
}

// Analyze clasifica un registro con las mismas tablas que usa Aggregate.
func (a *Aggregator) Analyze(rec domain.SurveyRecord) RecordAnalysis {
	bg := a.backgroundScorer.Score(rec.Background)
	traits := a.traits.Extract(rec.RoleModelReason)
	if traits == nil {
		traits = []string{}
	}
	professions := a.professions.Match(rec.RoleModel)
	professionTraits := a.professions.Traits(professions)
	if professions == nil {
		professions, professionTraits = []string{}, []string{}
	}
	return RecordAnalysis{
		BehavioralScore:    rec.BehavioralSentimentScore,
		BehavioralCategory: Classify(float64(rec.BehavioralSentimentScore), a.sentimentBands),
		BackgroundScore:    bg,
		BackgroundCategory: Classify(float64(bg), a.sentimentBands),
		Traits:             traits,
		Professions:        professions,
		ProfessionTraits:   professionTraits,
		RoleModelImpact:    Classify(float64(a.scorer.Score(rec.RoleModelReason)), a.impactBands),
		Influential:        IsInfluential(rec.RoleModel),
		IncomeBand:         Classify(rec.FamilyIncome, a.incomeBands),
	}
}

// Aggregate recorre los registros una sola vez y arma el snapshot. No tiene efectos
// laterales; dos llamadas con los mismos registros producen el mismo resultado.
func (a *Aggregator) Aggregate(records []domain.SurveyRecord, opts Options) domain.AnalysisSnapshot {
	var (
		behavioralCounts = make(map[string]int, 5)
		backgroundCounts = make(map[string]int, 5)
		impactCounts     = make(map[string]int, 3)
		incomeCounts     = make(map[string]int, len(a.incomeBands.Cuts)+1)
		traitFreq        = make(map[string]int)
		professionFreq   = make(map[string]int)
		profTraitFreq    = make(map[string]int)

		behavioralSum int
		backgroundSum int
		incomeSum     float64
		influential   int
		totalTraits   int
		details       []domain.BackgroundDetail
	)
	if opts.IncludeDetails {
		details = make([]domain.BackgroundDetail, 0, len(records))
	}

	for _, rec := range records {
		ra := a.Analyze(rec)

		behavioralCounts[ra.BehavioralCategory]++
		behavioralSum += ra.BehavioralScore

		backgroundCounts[ra.BackgroundCategory]++
		backgroundSum += ra.BackgroundScore
		if opts.IncludeDetails {
			details = append(details, domain.BackgroundDetail{
				Background: strings.TrimSpace(rec.Background),
				Score:      ra.BackgroundScore,
				Category:   ra.BackgroundCategory,
			})
		}

		for _, t := range ra.Traits {
			traitFreq[t]++
			totalTraits++
		}
		for _, p := range ra.Professions {
			professionFreq[p]++
		}
		for _, t := range ra.ProfessionTraits {
			profTraitFreq[t]++
		}
		if ra.Influential {
			influential++
		}
		impactCounts[ra.RoleModelImpact]++

		incomeCounts[ra.IncomeBand]++
		incomeSum += rec.FamilyIncome
	}

	n := len(records)
	return domain.AnalysisSnapshot{
		TotalSurveys: n,
		Behavioral: domain.BehavioralReport{
			HighlyPositiveCount: behavioralCounts[BandHighlyPositive],
			PositiveCount:       behavioralCounts[BandPositive],
			NeutralCount:        behavioralCounts[BandNeutral],
			NegativeCount:       behavioralCounts[BandNegative],
			HighlyNegativeCount: behavioralCounts[BandHighlyNegative],
			AverageScore:        mean(float64(behavioralSum), n),
			TotalResponses:      n,
		},
		Background: domain.BackgroundReport{
			PositiveCount:  backgroundCounts[BandHighlyPositive] + backgroundCounts[BandPositive],
			NeutralCount:   backgroundCounts[BandNeutral],
			NegativeCount:  backgroundCounts[BandHighlyNegative] + backgroundCounts[BandNegative],
			HighlyPositive: backgroundCounts[BandHighlyPositive],
			Positive:       backgroundCounts[BandPositive],
			Neutral:        backgroundCounts[BandNeutral],
			Negative:       backgroundCounts[BandNegative],
			HighlyNegative: backgroundCounts[BandHighlyNegative],
			AverageScore:   mean(float64(backgroundSum), n),
			Details:        details,
		},
		RoleModel: domain.RoleModelReport{
			PositiveImpact:   impactCounts[BandPositive],
			NeutralImpact:    impactCounts[BandNeutral],
			NegativeImpact:   impactCounts[BandNegative],
			InfluentialCount: influential,
			TotalTraits:      totalTraits,
			TopTraits:        a.rankTraits(traitFreq),
			TraitFrequency:   traitFreq,

			ProfessionFrequency:      professionFreq,
			ProfessionTraitFrequency: profTraitFreq,
		},
		Income: domain.IncomeReport{
			BelowPovertyLine:  incomeCounts[BandBelowPovertyLine],
			LowIncome:         incomeCounts[BandLowIncome],
			BelowAverage:      incomeCounts[BandBelowAverage],
			Average:           incomeCounts[BandAverage],
			AboveAverage:      incomeCounts[BandAboveAverage],
			AverageIncome:     mean(incomeSum, n),
			TotalHouseholds:   n,
			CurrentThresholds: a.incomeBands.UpperBounds(),
		},
	}
}

// rankTraits ordena por frecuencia descendente; empates por orden de vocabulario.
func (a *Aggregator) rankTraits(freq map[string]int) domain.TraitCounts {
	ranked := make(domain.TraitCounts, 0, len(freq))
	for t, c := range freq {
		ranked = append(ranked, domain.TraitCount{Trait: t, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return a.traits.Index(ranked[i].Trait) < a.traits.Index(ranked[j].Trait)
	})
	if len(ranked) > a.topTraits {
		ranked = ranked[:a.topTraits]
	}
	return ranked
}

// IsInfluential indica si el modelo a seguir nombra a alguien real.
func IsInfluential(roleModel string) bool {
	rm := strings.ToLower(strings.TrimSpace(roleModel))
	if rm == "" {
		return false
	}
	_, placeholder := placeholderRoleModels[rm]
	return !placeholder
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
