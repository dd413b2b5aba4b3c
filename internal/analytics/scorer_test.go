package analytics

import (
	"reflect"
	"sync"
	"testing"
)

func TestScorerSumsLexiconWeights(t *testing.T) {
	s := NewScorer(Lexicon{"happy": 3, "sad": -2, "angry": -3})

	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"Happy", 3},
		{"happy but sad", 1},
		{"Angry, SAD and angry!", -8},
		{"nothing here matches", 0},
	}
	for _, tc := range cases {
		if got := s.Score(tc.text); got != tc.want {
			t.Fatalf("Score(%q): expected %d, got %d", tc.text, tc.want, got)
		}
	}
}

func TestScorerIsDeterministicAndConcurrent(t *testing.T) {
	s := NewScorer(DefaultLexicon())
	text := "The child is aggressive and withdrawn but shows improvement"
	want := s.Score(text)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := s.Score(text); got != want {
				t.Errorf("expected %d on every call, got %d", want, got)
			}
		}()
	}
	wg.Wait()
}

func TestScorerCopiesLexicon(t *testing.T) {
	lex := Lexicon{"good": 3}
	s := NewScorer(lex)
	lex["good"] = -5

	if got := s.Score("good"); got != 3 {
		t.Fatalf("expected scorer to keep its own copy, got %d", got)
	}
}

func TestNilScorerScoresZero(t *testing.T) {
	var s *Scorer
	if got := s.Score("happy"); got != 0 {
		t.Fatalf("expected 0 for nil scorer, got %d", got)
	}
}

func TestLexiconMergeOverrides(t *testing.T) {
	base := Lexicon{"poor": -2, "good": 3}
	merged := base.Merge(Lexicon{" Poor ": -4, "kind": 2, "": 9})

	if merged["poor"] != -4 || merged["good"] != 3 || merged["kind"] != 2 {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
	if _, ok := merged[""]; ok {
		t.Fatalf("expected empty words to be ignored")
	}
	if base["poor"] != -2 {
		t.Fatalf("expected base lexicon untouched")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hard-working, HONEST; child's heart")
	want := []string{"hard", "working", "honest", "child's", "heart"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	hindi := Tokenize("बच्चे की कक्षा")
	if len(hindi) != 3 {
		t.Fatalf("expected combining marks to stay inside words, got %v", hindi)
	}
}
