package analytics

import (
	"strings"
	"unicode"
)

// Lexicon asocia palabras (en minusculas) con su polaridad.
type Lexicon map[string]int

// Merge devuelve un lexicon nuevo con las entradas de other sobrescribiendo las propias.
func (l Lexicon) Merge(other Lexicon) Lexicon {
	out := make(Lexicon, len(l)+len(other))
	for w, v := range l {
		out[w] = v
	}
	for w, v := range other {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out[w] = v
	}
	return out
}

// Scorer suma la polaridad de las palabras de un texto. Es puro y seguro para uso concurrente.
type Scorer struct {
	lexicon Lexicon
}

// NewScorer copia el lexicon; cambios posteriores al mapa original no afectan al scorer.
func NewScorer(lex Lexicon) *Scorer {
	return &Scorer{lexicon: Lexicon(nil).Merge(lex)}
}

// Score devuelve la suma de pesos de las palabras reconocidas. Texto vacio puntua 0.
func (s *Scorer) Score(text string) int {
	if s == nil || strings.TrimSpace(text) == "" {
		return 0
	}
	total := 0
	for _, tok := range Tokenize(text) {
		total += s.lexicon[tok]
	}
	return total
}

// Weight devuelve el peso de una palabra y si existe en el lexicon.
func (s *Scorer) Weight(word string) (int, bool) {
	v, ok := s.lexicon[strings.ToLower(word)]
	return v, ok
}

// Tokenize separa el texto en palabras en minusculas. Letras, marcas combinantes, digitos y
// apostrofes forman palabras; cualquier otro caracter separa.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '\'')
	})
}
