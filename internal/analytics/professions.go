package analytics

import "strings"

// Profession asocia palabras clave del modelo a seguir con los rasgos que suele transmitir.
type Profession struct {
	Name     string   `yaml:"name" json:"profession"`
	Keywords []string `yaml:"keywords" json:"keywords,omitempty"`
	Traits   []string `yaml:"traits" json:"traits,omitempty"`
}

// Professions es la lista ordenada de profesiones reconocidas.
type Professions []Profession

// Extend reemplaza las profesiones con el mismo nombre y agrega las nuevas al final.
func (p Professions) Extend(extra []Profession) Professions {
	out := make(Professions, len(p))
	copy(out, p)
	idx := make(map[string]int, len(out))
	for i, prof := range out {
		idx[prof.Name] = i
	}
	for _, prof := range extra {
		prof.Name = strings.ToLower(strings.TrimSpace(prof.Name))
		if prof.Name == "" {
			continue
		}
		if i, ok := idx[prof.Name]; ok {
			out[i] = prof
			continue
		}
		idx[prof.Name] = len(out)
		out = append(out, prof)
	}
	return out
}

// ProfessionMatcher reconoce profesiones en el texto de "Role models" con las mismas reglas
// de palabra completa que TraitExtractor.
type ProfessionMatcher struct {
	professions Professions
	byName      map[string]int
	keywords    *TraitExtractor
}

// NewProfessionMatcher precompila las palabras clave de cada profesion.
func NewProfessionMatcher(p Professions) *ProfessionMatcher {
	m := &ProfessionMatcher{
		professions: append(Professions(nil), p...),
		byName:      make(map[string]int, len(p)),
	}
	vocab := make(Vocabulary, 0, len(p))
	for i, prof := range m.professions {
		m.byName[prof.Name] = i
		vocab = append(vocab, Trait{Name: prof.Name, Aliases: prof.Keywords})
	}
	m.keywords = NewTraitExtractor(vocab)
	return m
}

// Professions devuelve una copia de la lista activa.
func (m *ProfessionMatcher) Professions() Professions {
	return append(Professions(nil), m.professions...)
}

// Match devuelve las profesiones nombradas en roleModel, en orden de la lista.
func (m *ProfessionMatcher) Match(roleModel string) []string {
	return m.keywords.Extract(roleModel)
}

// Traits devuelve el conjunto de rasgos de las profesiones dadas, sin repetir.
func (m *ProfessionMatcher) Traits(names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range names {
		i, ok := m.byName[name]
		if !ok {
			continue
		}
		for _, t := range m.professions[i].Traits {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// DefaultProfessions devuelve las profesiones de modelo a seguir mas frecuentes en las encuestas.
func DefaultProfessions() Professions {
	return Professions{
		{
			Name:     "acting",
			Keywords: []string{"actor", "actress", "film", "movie", "cinema", "drama", "theatre"},
			Traits:   []string{"creativity", "expression", "confidence", "public speaking", "emotional intelligence", "adaptability", "performance skills"},
		},
		{
			Name:     "advocate",
			Keywords: []string{"lawyer", "legal", "court", "justice"},
			Traits:   []string{"analytical thinking", "public speaking", "persuasion", "ethics", "research skills", "problem solving", "communication"},
		},
		{
			Name:     "doctor",
			Keywords: []string{"medical", "physician", "healthcare", "medicine"},
			Traits:   []string{"analytical thinking", "empathy", "problem solving", "communication", "ethics", "decision making", "continuous learning"},
		},
		{
			Name:     "engineer",
			Keywords: []string{"engineering", "technical", "innovation"},
			Traits:   []string{"analytical thinking", "problem solving", "technical skills", "innovation", "attention to detail", "logical thinking", "creativity"},
		},
		{
			Name:     "teacher",
			Keywords: []string{"education", "teaching", "instructor", "professor"},
			Traits:   []string{"communication", "patience", "leadership", "knowledge sharing", "empathy", "organization", "mentoring"},
		},
	}
}
