// Package expert implements the answer pipeline: a fixed stage order from
// reset detection through retrieval and composition to empathic framing
// and latency bookkeeping.
package expert

import (
	"regexp"
	"strings"

	"tutorcore/internal/session"
)

// wordAlt builds a pattern matching any alternative as a whole word. Go's
// \b is ASCII-only, so Cyrillic words need explicit letter boundaries.
func wordAlt(alts ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:` + strings.Join(alts, "|") + `)(?:[^\p{L}\p{N}]|$)`)
}

var intentPatterns = []struct {
	intent session.Intent
	re     *regexp.Regexp
}{
	{session.IntentWhy, wordAlt("почему", "зачем", "по какой причине")},
	{session.IntentHow, wordAlt("как", "каким образом", "порядок", "шаги", "шагов")},
	{session.IntentWhatIf, wordAlt("что если", "а если")},
	{session.IntentExamples, wordAlt("примеры?", "кейсы?", "иллюстраци(?:я|и)")},
}

// detectIntents classifies the question. Questions matching nothing default
// to how, except definition questions which read as example requests.
func detectIntents(question string) []session.Intent {
	q := strings.ToLower(question)
	var hits []session.Intent
	for _, p := range intentPatterns {
		if p.re.MatchString(q) {
			hits = append(hits, p.intent)
		}
	}
	if len(hits) == 0 {
		if strings.HasPrefix(q, "что такое") {
			return []session.Intent{session.IntentExamples}
		}
		return []session.Intent{session.IntentHow}
	}
	return hits
}

var (
	shortMarkers = wordAlt("кратко", "коротко", "в двух словах")
	longMarkers  = wordAlt("подробно", "развернуто", "детально")
)

// detectDetail picks the answer size. Short is the default: the expert
// expands only on explicit request.
func detectDetail(question string) session.Detail {
	q := strings.ToLower(question)
	if shortMarkers.MatchString(q) {
		return session.DetailShort
	}
	if longMarkers.MatchString(q) {
		return session.DetailLong
	}
	return session.DetailShort
}
