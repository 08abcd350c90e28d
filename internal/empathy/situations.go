// Package empathy implements the relational tuner: it classifies the
// student's situation, picks a phrase for it, and wraps the expert answer
// with an intro and/or outro.
package empathy

import (
	"strings"

	"tutorcore/internal/session"
)

// Situations recognised by the tuner.
const (
	SituationStart       = "start"
	SituationSuccess     = "success"
	SituationError       = "error"
	SituationDoubt       = "doubt"
	SituationFrustration = "frustration"
	SituationHelpRequest = "help_request"
	SituationEnd         = "end"
)

// Tones the phrase library is indexed by. Unknown tones fall back to warm.
const (
	ToneWarm    = "warm"
	ToneNeutral = "neutral"
)

var textualMarkers = []struct {
	situation string
	markers   []string
}{
	// Frustration outranks the other textual signals: a student who is
	// stuck needs support before anything else.
	{SituationFrustration, []string{"не понимаю", "сложно", "устал", "не получается"}},
	{SituationHelpRequest, []string{"помоги", "подскажи", "не знаю как", "как мне"}},
	{SituationError, []string{"ошиб", "неправильно", "неверно", "не так"}},
	{SituationDoubt, []string{"наверное", "не уверен", "кажется", "сомнева"}},
	{SituationSuccess, []string{"получилось", "готово", "сделал", "справил"}},
	{SituationEnd, []string{"пока", "до свидания", "закончим", "на сегодня все"}},
}

// DetectText classifies the utterance by keyword markers; unmatched text
// maps to start.
func DetectText(text string) string {
	t := strings.ToLower(text)
	for _, entry := range textualMarkers {
		for _, m := range entry.markers {
			if strings.Contains(t, m) {
				return entry.situation
			}
		}
	}
	return SituationStart
}

// DetectObjective derives the situation from session state rather than
// text: completed tasks mean success, tasks needing review mean error,
// and a run of short follow-ups means frustration.
func DetectObjective(ctx *session.Context) string {
	for _, t := range ctx.Organizer().Tasks {
		if t.Status == session.TaskCompleted || t.IsCompleted {
			return SituationSuccess
		}
	}
	for _, t := range ctx.Organizer().Tasks {
		if t.Status == session.TaskNeedsReview {
			return SituationError
		}
	}

	hist := ctx.Expert().DialogHistory
	if len(hist) >= 3 {
		short := 0
		for _, a := range hist[len(hist)-3:] {
			if len(strings.Fields(a.Question)) <= 4 {
				short++
			}
		}
		if short >= 2 {
			return SituationFrustration
		}
	}
	return SituationStart
}

// DetectMixed prefers objective signals and falls back to the text
// classifier when the state shows nothing.
func DetectMixed(userText string, ctx *session.Context) string {
	if s := DetectObjective(ctx); s != SituationStart {
		return s
	}
	return DetectText(userText)
}
