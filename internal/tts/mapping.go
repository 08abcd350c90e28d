package tts

import (
	"strings"

	"tutorcore/internal/session"
)

// ToneToEmotion maps the motivator's style tone onto adapter emotions.
var ToneToEmotion = map[string]string{
	"warm":    "warm",
	"mentor":  "warm",
	"partner": "neutral",
	"strict":  "calm",

	"нейтральный преподаватель": "neutral",
}

// PaceToRate maps the recommended pace onto a playback rate.
var PaceToRate = map[string]float64{
	"замедленный": 0.9,
	"упрощённый":  0.95,
	"обычный":     1.0,
	"ускоренный":  1.07,
}

// PickEmotionAndRate derives the voice emotion and rate from the latest
// motivation snapshot, defaulting to a neutral voice at normal speed.
func PickEmotionAndRate(ctx *session.Context) (string, float64) {
	tone, pace := "нейтральный преподаватель", "обычный"
	if last := ctx.Motivator().Last; last != nil {
		if last.Style.Tone != "" {
			tone = last.Style.Tone
		}
		if last.Style.Pace != "" {
			pace = last.Style.Pace
		}
	}
	emotion, ok := ToneToEmotion[tone]
	if !ok {
		emotion = "neutral"
	}
	rate, ok := PaceToRate[pace]
	if !ok {
		rate = 1.0
	}
	return emotion, rate
}

// scriptLineWordCap keeps intro/outro phrases speakable.
const scriptLineWordCap = 10

// ScriptLine is one segment of the say script.
type ScriptLine struct {
	Role string
	Text string
}

// BuildSayScript composes what to speak for an answer: a short motivation
// phrase as intro, the answer as core, and a short challenge as outro.
// Phrases longer than ten words are dropped rather than truncated.
func BuildSayScript(a *session.Answer, ctx *session.Context) []ScriptLine {
	var lines []ScriptLine
	if last := ctx.Motivator().Last; last != nil {
		if p := last.Motivation.Phrase; p != "" && len(strings.Fields(p)) <= scriptLineWordCap {
			lines = append(lines, ScriptLine{Role: "intro", Text: p})
		}
	}
	if a.Answer != "" {
		lines = append(lines, ScriptLine{Role: "core", Text: a.Answer})
	}
	if last := ctx.Motivator().Last; last != nil {
		if c := last.Motivation.Challenge; c != "" && len(strings.Fields(c)) <= scriptLineWordCap {
			lines = append(lines, ScriptLine{Role: "outro", Text: c})
		}
	}
	return lines
}

// ScriptText joins the script into the single utterance sent to the
// adapter.
func ScriptText(lines []ScriptLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Text != "" {
			parts = append(parts, l.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
