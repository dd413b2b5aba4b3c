package analytics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config reune la configuracion inmutable de los primitivos de analitica.
type Config struct {
	Lexicon           Lexicon
	BackgroundLexicon Lexicon
	Vocabulary        Vocabulary
	Professions       Professions
	SentimentBands    Thresholds
	IncomeThresholds  Thresholds
	TopTraits         int
}

// DefaultConfig devuelve lexicon, vocabulario y tablas por defecto.
func DefaultConfig() Config {
	return Config{
		Lexicon:           DefaultLexicon(),
		BackgroundLexicon: BackgroundLexicon(),
		Vocabulary:        DefaultVocabulary(),
		Professions:       DefaultProfessions(),
		SentimentBands:    DefaultSentimentBands(),
		IncomeThresholds:  DefaultIncomeThresholds(),
		TopTraits:         5,
	}
}

// Validate revisa las tablas de bandas.
func (c Config) Validate() error {
	if err := c.SentimentBands.Validate(); err != nil {
		return fmt.Errorf("sentiment bands: %w", err)
	}
	if err := c.IncomeThresholds.Validate(); err != nil {
		return fmt.Errorf("income thresholds: %w", err)
	}
	if len(c.Vocabulary) == 0 {
		return errors.New("trait vocabulary is empty")
	}
	if c.TopTraits < 0 {
		return fmt.Errorf("top_traits must be >= 0, got %d", c.TopTraits)
	}
	return nil
}

// fileConfig es la forma del archivo YAML. Todo es opcional.
type fileConfig struct {
	IncomeThresholds  map[string]float64 `yaml:"income_thresholds"`
	Lexicon           map[string]int     `yaml:"lexicon"`
	BackgroundLexicon map[string]int     `yaml:"background_lexicon"`
	Traits            []Trait            `yaml:"traits"`
	Professions       []Profession       `yaml:"professions"`
	TopTraits         *int               `yaml:"top_traits"`
}

// LoadConfigFile aplica un archivo YAML sobre DefaultConfig. Ruta vacia devuelve los defaults.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read analytics config: %w", err)
	}
	return ParseConfig(raw)
}

// ParseConfig aplica el contenido YAML sobre DefaultConfig y valida el resultado.
func ParseConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse analytics config: %w", err)
	}

	if len(fc.IncomeThresholds) > 0 {
		known := make(map[string]bool, len(cfg.IncomeThresholds.Cuts))
		for i, c := range cfg.IncomeThresholds.Cuts {
			known[c.Band] = true
			if v, ok := fc.IncomeThresholds[c.Band]; ok {
				cfg.IncomeThresholds.Cuts[i].Bound = v
			}
		}
		for band := range fc.IncomeThresholds {
			if !known[band] {
				return Config{}, fmt.Errorf("income_thresholds: unknown band %q", band)
			}
		}
	}
	if len(fc.Lexicon) > 0 {
		cfg.Lexicon = cfg.Lexicon.Merge(fc.Lexicon)
	}
	if len(fc.BackgroundLexicon) > 0 {
		cfg.BackgroundLexicon = cfg.BackgroundLexicon.Merge(fc.BackgroundLexicon)
	}
	if len(fc.Traits) > 0 {
		cfg.Vocabulary = cfg.Vocabulary.Extend(fc.Traits)
	}
	if len(fc.Professions) > 0 {
		cfg.Professions = cfg.Professions.Extend(fc.Professions)
	}
	if fc.TopTraits != nil {
		cfg.TopTraits = *fc.TopTraits
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
