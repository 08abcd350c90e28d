package motivator

import (
	"strings"

	"tutorcore/internal/session"
)

// ruleMetrics are the inputs scenario detectors see.
type ruleMetrics struct {
	Engagement       float64
	Confidence       float64
	LatencySec       float64
	LatencyAvgSec    float64
	EffectiveLatency float64
}

type scenario struct {
	Name     string
	Reaction string
	Style    session.StyleUpdate
	Detect   func(question string, m ruleMetrics, th Thresholds) bool
}

var frustrationKeywords = []string{"не понимаю", "сложно", "устал", "не получается"}

// scenarios in priority order: frustration > low_metrics > slow_response >
// short_replies. The first match wins; at most one scenario fires per
// evaluation.
var scenarios = []scenario{
	{
		Name:     "frustration",
		Reaction: "Это нормально чувствовать трудность. Попробуем шаг за шагом, я рядом.",
		Style:    session.StyleUpdate{Pace: "замедленный", Tone: "warm"},
		Detect: func(q string, _ ruleMetrics, _ Thresholds) bool {
			if q == "" {
				return false
			}
			ql := strings.ToLower(q)
			for _, w := range frustrationKeywords {
				if strings.Contains(ql, w) {
					return true
				}
			}
			return false
		},
	},
	{
		Name:     "low_metrics",
		Reaction: "Кажется, стало сложнее удерживать внимание. Что тебе помогает обычно включиться?",
		Style:    session.StyleUpdate{Pace: "обычный", Tone: "supportive"},
		Detect: func(_ string, m ruleMetrics, _ Thresholds) bool {
			return m.Engagement < 0.4 || m.Confidence < 0.4
		},
	},
	{
		Name:     "slow_response",
		Reaction: "Не спеши, давай возьмём паузу и разберём спокойно.",
		Style:    session.StyleUpdate{Pace: "замедленный", Tone: "neutral"},
		Detect: func(_ string, m ruleMetrics, th Thresholds) bool {
			return m.LatencySec > 10 || m.EffectiveLatency > th.LatSlow
		},
	},
	{
		Name:     "short_replies",
		Reaction: "Вижу, что ответ получился коротким. Давай разберём чуть подробнее?",
		Style:    session.StyleUpdate{Pace: "замедленный", Tone: "warm"},
		Detect: func(q string, _ ruleMetrics, _ Thresholds) bool {
			return q != "" && len(strings.Fields(q)) <= 3
		},
	},
}
