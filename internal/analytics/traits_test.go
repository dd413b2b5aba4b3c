package analytics

import (
	"reflect"
	"testing"
)

func TestExtractWholeWordsOnly(t *testing.T) {
	e := NewTraitExtractor(Vocabulary{
		{Name: "art"},
		{Name: "honest"},
	})

	if got := e.Extract("She has a kind heart and a smart mind"); got != nil {
		t.Fatalf("expected no partial matches, got %v", got)
	}
	if got := e.Extract("He loves ART and is HONEST."); !reflect.DeepEqual(got, []string{"art", "honest"}) {
		t.Fatalf("expected [art honest], got %v", got)
	}
}

func TestExtractAliasesAndPhrases(t *testing.T) {
	e := NewTraitExtractor(DefaultVocabulary())

	got := e.Extract("My father is hard-working, truthful and shows great courage")
	want := []string{"honest", "hardworking", "brave"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractReturnsSet(t *testing.T) {
	e := NewTraitExtractor(DefaultVocabulary())

	got := e.Extract("hardworking hardworking, works hard every day")
	if !reflect.DeepEqual(got, []string{"hardworking"}) {
		t.Fatalf("expected a single match per trait, got %v", got)
	}
	if got := e.Extract(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

func TestVocabularyExtend(t *testing.T) {
	base := Vocabulary{{Name: "honest"}}
	ext := base.Extend([]Trait{
		{Name: "Honest", Aliases: []string{"upright"}},
		{Name: " Punctual ", Description: "On time."},
		{Name: ""},
	})

	if len(ext) != 2 {
		t.Fatalf("expected 2 traits, got %d", len(ext))
	}
	if !reflect.DeepEqual(ext[0].Aliases, []string{"upright"}) {
		t.Fatalf("expected alias merged into existing trait, got %v", ext[0].Aliases)
	}
	if ext[1].Name != "punctual" {
		t.Fatalf("expected normalized new trait name, got %q", ext[1].Name)
	}
	if len(base[0].Aliases) != 0 {
		t.Fatalf("expected base vocabulary untouched")
	}

	e := NewTraitExtractor(ext)
	if got := e.Extract("an upright man"); !reflect.DeepEqual(got, []string{"honest"}) {
		t.Fatalf("expected extended alias to match, got %v", got)
	}
	if e.Index("punctual") != 1 || e.Index("missing") != -1 {
		t.Fatalf("unexpected index results")
	}
}
