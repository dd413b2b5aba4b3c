package analytics

import "strings"

// Trait es un rasgo canonico con sus formas alternativas. Los alias pueden ser frases.
type Trait struct {
	Name        string   `yaml:"name" json:"trait"`
	Aliases     []string `yaml:"aliases" json:"aliases,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
}

// Vocabulary es la lista ordenada de rasgos; el orden desempata el ranking.
type Vocabulary []Trait

// Extend agrega rasgos nuevos al final y fusiona alias de los que ya existen.
func (v Vocabulary) Extend(extra []Trait) Vocabulary {
	out := make(Vocabulary, len(v))
	copy(out, v)
	idx := make(map[string]int, len(out))
	for i, t := range out {
		idx[strings.ToLower(t.Name)] = i
	}
	for _, t := range extra {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			continue
		}
		if i, ok := idx[name]; ok {
			merged := out[i]
			merged.Aliases = append(append([]string(nil), merged.Aliases...), t.Aliases...)
			if t.Description != "" {
				merged.Description = t.Description
			}
			out[i] = merged
			continue
		}
		t.Name = name
		idx[name] = len(out)
		out = append(out, t)
	}
	return out
}

type traitPattern struct {
	trait  int
	tokens []string
}

// TraitExtractor busca rasgos del vocabulario como palabras completas. Es inmutable tras
// construirse.
type TraitExtractor struct {
	vocab    Vocabulary
	patterns map[string][]traitPattern
}

// NewTraitExtractor precompila nombres y alias, indexados por su primera palabra.
func NewTraitExtractor(v Vocabulary) *TraitExtractor {
	e := &TraitExtractor{
		vocab:    append(Vocabulary(nil), v...),
		patterns: make(map[string][]traitPattern),
	}
	for i, t := range e.vocab {
		forms := append([]string{t.Name}, t.Aliases...)
		for _, form := range forms {
			toks := Tokenize(form)
			if len(toks) == 0 {
				continue
			}
			e.patterns[toks[0]] = append(e.patterns[toks[0]], traitPattern{trait: i, tokens: toks})
		}
	}
	return e
}

// Vocabulary devuelve una copia del vocabulario activo.
func (e *TraitExtractor) Vocabulary() Vocabulary {
	return append(Vocabulary(nil), e.vocab...)
}

// Extract devuelve el conjunto de rasgos presentes en el texto, en orden de vocabulario.
func (e *TraitExtractor) Extract(text string) []string {
	toks := Tokenize(text)
	if len(toks) == 0 {
		return nil
	}
	found := make([]bool, len(e.vocab))
	for i, tok := range toks {
		for _, p := range e.patterns[tok] {
			if found[p.trait] || !matchAt(toks, i, p.tokens) {
				continue
			}
			found[p.trait] = true
		}
	}
	var out []string
	for i, ok := range found {
		if ok {
			out = append(out, e.vocab[i].Name)
		}
	}
	return out
}

// Index devuelve la posicion del rasgo en el vocabulario, o -1.
func (e *TraitExtractor) Index(name string) int {
	for i, t := range e.vocab {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func matchAt(toks []string, at int, pattern []string) bool {
	if at+len(pattern) > len(toks) {
		return false
	}
	for j, p := range pattern {
		if toks[at+j] != p {
			return false
		}
	}
	return true
}

// DefaultVocabulary devuelve los rasgos que se reportan en el tablero.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		{Name: "honest", Aliases: []string{"honesty", "truthful", "sincere"}, Description: "Tells the truth and keeps promises."},
		{Name: "hardworking", Aliases: []string{"hard working", "hard work", "hardwork", "works hard", "work hard"}, Description: "Puts sustained effort into work or study."},
		{Name: "disciplined", Aliases: []string{"discipline", "punctual"}, Description: "Follows routines and rules without supervision."},
		{Name: "kind", Aliases: []string{"kindness", "kind hearted", "kindhearted"}, Description: "Treats others gently and with consideration."},
		{Name: "caring", Aliases: []string{"cares", "takes care"}, Description: "Looks after the wellbeing of family and others."},
		{Name: "brave", Aliases: []string{"bravery", "courage", "courageous", "fearless"}, Description: "Faces danger or difficulty without giving up."},
		{Name: "intelligent", Aliases: []string{"intelligence", "smart", "clever", "brilliant"}, Description: "Learns quickly and solves problems well."},
		{Name: "helpful", Aliases: []string{"helps", "helping", "help others"}, Description: "Offers assistance to people in need."},
		{Name: "patient", Aliases: []string{"patience", "calm"}, Description: "Stays calm and waits without frustration."},
		{Name: "confident", Aliases: []string{"confidence", "self confident"}, Description: "Trusts their own abilities and speaks up."},
		{Name: "creative", Aliases: []string{"creativity", "artistic", "imaginative"}, Description: "Produces original ideas or art."},
		{Name: "respectful", Aliases: []string{"respect", "respects", "polite"}, Description: "Shows regard for elders, peers and rules."},
		{Name: "responsible", Aliases: []string{"responsibility", "dutiful"}, Description: "Takes ownership of duties and their outcomes."},
		{Name: "supportive", Aliases: []string{"support", "supports", "encourages"}, Description: "Backs others through hard times."},
		{Name: "leadership", Aliases: []string{"leader", "leads", "guides"}, Description: "Guides and motivates a group."},
		{Name: "generous", Aliases: []string{"generosity", "gives", "shares"}, Description: "Shares time, money or belongings freely."},
		{Name: "successful", Aliases: []string{"success", "achiever", "achieved"}, Description: "Has reached recognised goals."},
		{Name: "educated", Aliases: []string{"education", "knowledge", "knowledgeable", "studied"}, Description: "Values and has obtained learning."},
		{Name: "strong", Aliases: []string{"strength", "powerful"}, Description: "Shows physical or emotional resilience."},
		{Name: "loving", Aliases: []string{"love", "loves", "affectionate"}, Description: "Expresses warmth and affection."},
		{Name: "humble", Aliases: []string{"humility", "simple living"}, Description: "Modest about their achievements."},
		{Name: "dedicated", Aliases: []string{"dedication", "committed", "devoted"}, Description: "Stays committed to a goal or people."},
		{Name: "determined", Aliases: []string{"determination", "never gives up", "persistent"}, Description: "Keeps going despite obstacles."},
		{Name: "inspiring", Aliases: []string{"inspires", "inspiration", "motivates", "motivating"}, Description: "Motivates others to do better."},
	}
}
