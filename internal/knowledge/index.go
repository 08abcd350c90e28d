// Package knowledge loads lesson documents and serves ranked snippets
// over an in-memory TF-IDF index.
package knowledge

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Document is one loaded source text.
type Document struct {
	Name string
	Text string
}

// Result is a ranked snippet returned by Search.
type Result struct {
	Text   string
	Source string
	Score  float64
}

// Index ranks documents against queries with TF-IDF weighted cosine
// similarity. It is rebuilt wholesale on SetDocuments; searches between
// rebuilds see a consistent snapshot.
type Index struct {
	log  *zap.Logger
	docs []Document

	df      map[string]int
	vectors []map[string]float64
}

// NewIndex creates an empty index.
func NewIndex(log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}
	return &Index{log: log.Named("knowledge")}
}

// Len reports the number of indexed documents.
func (ix *Index) Len() int { return len(ix.docs) }

// SetDocuments replaces the corpus and rebuilds the index.
func (ix *Index) SetDocuments(docs []Document) {
	ix.docs = docs
	ix.df = make(map[string]int)
	ix.vectors = make([]map[string]float64, len(docs))

	counts := make([]map[string]int, len(docs))
	for i, d := range docs {
		tf := termCounts(d.Text)
		counts[i] = tf
		for term := range tf {
			ix.df[term]++
		}
	}
	n := len(docs)
	for i, tf := range counts {
		vec := make(map[string]float64, len(tf))
		for term, c := range tf {
			vec[term] = float64(c) * ix.idf(term, n)
		}
		normalize(vec)
		ix.vectors[i] = vec
	}
	ix.log.Info("indexed documents", zap.Int("count", n))
}

// Search returns up to topK documents ranked by descending score. An empty
// corpus yields an empty result.
func (ix *Index) Search(query string, topK int) []Result {
	if len(ix.docs) == 0 || topK <= 0 {
		return nil
	}
	qvec := make(map[string]float64)
	for term, c := range termCounts(query) {
		qvec[term] = float64(c) * ix.idf(term, len(ix.docs))
	}
	normalize(qvec)

	results := make([]Result, len(ix.docs))
	for i, d := range ix.docs {
		results[i] = Result{Text: d.Text, Source: d.Name, Score: dot(qvec, ix.vectors[i])}
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results
}

// idf uses the smoothed form so terms present in every document still
// carry a small positive weight.
func (ix *Index) idf(term string, n int) float64 {
	return math.Log(float64(1+n)/float64(1+ix.df[term])) + 1
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokenize(text) {
		if stopwords[tok] {
			continue
		}
		counts[tok]++
	}
	return counts
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec map[string]float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for term, v := range vec {
		vec[term] = v / norm
	}
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, av := range a {
		sum += av * b[term]
	}
	return sum
}
