package knowledge

import (
	"testing"
)

func buildIndex(t *testing.T, docs ...Document) *Index {
	t.Helper()
	ix := NewIndex(nil)
	ix.SetDocuments(docs)
	return ix
}

func TestSearchRanksByRelevance(t *testing.T) {
	t.Parallel()

	ix := buildIndex(t,
		Document{Name: "colors.txt", Text: "Цветовая палитра инфографики: контраст и акценты."},
		Document{Name: "charts.txt", Text: "Диаграмма показывает данные. Столбчатая диаграмма сравнивает значения."},
		Document{Name: "fonts.txt", Text: "Шрифты и типографика для слайдов."},
	)

	results := ix.Search("какая диаграмма лучше для сравнения данных", 2)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Source != "charts.txt" {
		t.Fatalf("top result = %s", results[0].Source)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("scores not descending: %v >= %v", results[1].Score, results[0].Score)
	}
}

func TestSearchZeroScoreDocsStillReturned(t *testing.T) {
	t.Parallel()

	ix := buildIndex(t,
		Document{Name: "a.txt", Text: "палитра"},
		Document{Name: "b.txt", Text: "типографика"},
	)

	// No overlap at all: both documents come back with zero scores so the
	// caller decides whether the match is usable.
	results := ix.Search("квантовая механика", 2)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Score != 0 {
			t.Fatalf("score = %v, want 0", r.Score)
		}
	}
}

func TestSearchTopKBounds(t *testing.T) {
	t.Parallel()

	ix := buildIndex(t,
		Document{Name: "a.txt", Text: "диаграмма"},
		Document{Name: "b.txt", Text: "диаграмма данных"},
		Document{Name: "c.txt", Text: "диаграмма значений"},
	)
	if got := len(ix.Search("диаграмма", 2)); got != 2 {
		t.Fatalf("topK=2 gave %d results", got)
	}
	if got := len(ix.Search("диаграмма", 10)); got != 3 {
		t.Fatalf("topK=10 gave %d results", got)
	}
	if got := ix.Search("диаграмма", 0); got != nil {
		t.Fatalf("topK=0 gave %v", got)
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	t.Parallel()

	ix := NewIndex(nil)
	if got := ix.Search("что угодно", 2); got != nil {
		t.Fatalf("empty corpus gave %v", got)
	}
	if ix.Len() != 0 {
		t.Fatalf("len = %d", ix.Len())
	}
}

func TestStopwordsDoNotDriveRanking(t *testing.T) {
	t.Parallel()

	ix := buildIndex(t,
		Document{Name: "noise.txt", Text: "и в на что как это для по"},
		Document{Name: "signal.txt", Text: "инфографика и визуализация"},
	)

	results := ix.Search("что такое инфографика и как её сделать", 1)
	if results[0].Source != "signal.txt" {
		t.Fatalf("top result = %s, stopwords must not rank", results[0].Source)
	}
}

func TestTokenizeSplitsOnPunctuation(t *testing.T) {
	t.Parallel()

	toks := tokenize("Диаграмма, график; схема — 2024!")
	want := map[string]bool{"диаграмма": true, "график": true, "схема": true, "2024": true}
	if len(toks) != len(want) {
		t.Fatalf("tokens = %v", toks)
	}
	for _, tok := range toks {
		if !want[tok] {
			t.Fatalf("unexpected token %q in %v", tok, toks)
		}
	}
}

func TestIDFSmoothing(t *testing.T) {
	t.Parallel()

	ix := buildIndex(t,
		Document{Name: "a.txt", Text: "диаграмма"},
		Document{Name: "b.txt", Text: "диаграмма"},
	)
	// Present in every document: idf collapses to the +1 floor, never zero.
	if got := ix.idf("диаграмма", ix.Len()); got != 1 {
		t.Fatalf("idf = %v, want 1", got)
	}
	if got := ix.idf("палитра", ix.Len()); got <= 1 {
		t.Fatalf("rare-term idf = %v, want > 1", got)
	}
}
