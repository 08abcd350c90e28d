package expert

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"tutorcore/internal/bus"
	"tutorcore/internal/empathy"
	"tutorcore/internal/knowledge"
	"tutorcore/internal/session"
)

// retrievalTopK bounds how many documents feed one answer.
const retrievalTopK = 2

// Searcher is the retrieval capability the pipeline needs.
type Searcher interface {
	Search(query string, topK int) []knowledge.Result
}

// Params are the latency thresholds and metric deltas.
type Params struct {
	FastSec float64 `yaml:"fast_sec"`
	SlowSec float64 `yaml:"slow_sec"`

	EngFastDelta  float64 `yaml:"eng_fast_delta"`
	EngSlowDelta  float64 `yaml:"eng_slow_delta"`
	ConfUpDelta   float64 `yaml:"conf_up_delta"`
	ConfDownDelta float64 `yaml:"conf_down_delta"`
}

// DefaultParams returns the live-mode defaults.
func DefaultParams() Params {
	return Params{
		FastSec:       12,
		SlowSec:       45,
		EngFastDelta:  0.06,
		EngSlowDelta:  -0.06,
		ConfUpDelta:   0.05,
		ConfDownDelta: -0.07,
	}
}

var resetPhrases = map[string]bool{
	"сброс":           true,
	"reset":           true,
	"очистить память": true,
}

var (
	negativeKeywords = []string{"не понимаю", "сложно", "устал", "плохо"}
	positiveKeywords = []string{"получилось", "спасибо", "понятно", "легко"}
)

// Pipeline turns a student question into an answer envelope. Stage order is
// fixed; see Respond.
type Pipeline struct {
	log    *zap.Logger
	kb     Searcher
	tuner  *empathy.Tuner
	params Params

	now func() time.Time
}

// New creates a pipeline over the given retrieval index and tuner.
func New(kb Searcher, tuner *empathy.Tuner, params Params, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		log:    log.Named("expert"),
		kb:     kb,
		tuner:  tuner,
		params: params,
		now:    time.Now,
	}
}

// Attach subscribes the pipeline to student questions, publishing one
// expert_answer per question (reset control envelopes included).
func (p *Pipeline) Attach(b *bus.Bus) {
	b.Subscribe(bus.TypeStudentQuestion, func(ev bus.Event) {
		question := ev.Text()
		if strings.TrimSpace(question) == "" {
			b.Warn("expert", "empty student question ignored")
			return
		}
		ctx := b.Context()
		ctx.LastUserQuestion = question
		a := p.Respond(ctx, question)
		b.Publish(bus.Event{
			Type:    bus.TypeExpertAnswer,
			Source:  "expert",
			Payload: map[string]any{"question": question, "answer": a},
		})
	})
}

// Respond runs the full stage order for one question:
// reset check, latency measurement, semantic metrics, intent and detail
// detection, follow-up augmentation, retrieval, style, composition,
// empathic framing, latency bookkeeping, and finally the interaction
// timestamp update and history append.
func (p *Pipeline) Respond(ctx *session.Context, question string) *session.Answer {
	ex := ctx.Expert()

	if resetPhrases[strings.ToLower(strings.TrimSpace(question))] {
		ex.ResetDialog()
		p.log.Info("dialog cleared")
		return &session.Answer{
			Status:  session.StatusDialogCleared,
			Message: "Память эксперта очищена.",
		}
	}

	// Latency is measured against the previous turn's timestamp, which is
	// updated only at the very end so every stage sees the same value. The
	// first turn has no previous timestamp and no latency.
	now := p.now()
	var latency float64
	latencyKnown := !ex.LastInteraction.IsZero()
	if latencyKnown {
		latency = now.Sub(ex.LastInteraction).Seconds()
		if latency < 0 {
			latency = 0
		}
	}

	p.updateMetrics(ex, question, latency, latencyKnown)

	intents := detectIntents(question)
	detail := detectDetail(question)

	query, inReplyTo := question, ""
	if ex.LastAnswer != nil && isFollowup(question) {
		query, inReplyTo = augmentQuery(question, ex.LastAnswer)
	}

	base, sources := p.retrieve(query)
	pace, tone := styleByConfidence(ex.Confidence)

	answer := base
	if detail == session.DetailShort {
		answer = makeBrief(base, briefLimit)
	}

	a := &session.Answer{
		Question:    question,
		InReplyTo:   inReplyTo,
		Intents:     intents,
		Detail:      detail,
		Answer:      answer,
		Explanation: makeExplanation(base, intents, detail),
		Sources:     sources,
		NextSteps:   buildNextSteps(intents, ctx),
		Pace:        pace,
		Tone:        tone,
		Engagement:  ex.Engagement,
		Confidence:  ex.Confidence,
	}

	if p.tuner != nil {
		p.tuner.Embellish(ctx, a, question)
	}

	// Latency bookkeeping runs after framing so the rolling average
	// includes this turn before the pace override is decided.
	if latencyKnown {
		ex.PushLatency(latency)
	}
	a.LatencyKnown = latencyKnown
	a.LatencySec = latency
	a.LatencyAvgSec = ex.LatencyAvgSec
	if ex.LatencyBufferLen() > 0 {
		if avg := ex.LatencyAvgSec; avg > p.params.SlowSec {
			a.Pace = "упрощённый"
		} else if avg < p.params.FastSec {
			a.Pace = "ускоренный"
		}
	}

	ex.LastInteraction = now
	ex.AppendAnswer(a)

	p.log.Debug("answered",
		zap.Strings("intents", intentStrings(intents)),
		zap.String("detail", string(detail)),
		zap.Int("sources", len(sources)),
		zap.Bool("latency_known", latencyKnown))
	return a
}

// updateMetrics applies the latency and keyword deltas to the engagement
// and confidence slots, clipping to [0,1].
func (p *Pipeline) updateMetrics(ex *session.ExpertSlot, question string, latency float64, latencyKnown bool) {
	if latencyKnown {
		if latency <= p.params.FastSec {
			ex.AdjustEngagement(p.params.EngFastDelta)
		} else if latency >= p.params.SlowSec {
			ex.AdjustEngagement(p.params.EngSlowDelta)
		}
	}
	q := strings.ToLower(question)
	for _, w := range negativeKeywords {
		if strings.Contains(q, w) {
			ex.AdjustConfidence(p.params.ConfDownDelta)
			break
		}
	}
	for _, w := range positiveKeywords {
		if strings.Contains(q, w) {
			ex.AdjustConfidence(p.params.ConfUpDelta)
			break
		}
	}
}

// retrieve runs the index search and assembles the base answer text. An
// empty result set yields the fixed apology.
func (p *Pipeline) retrieve(query string) (string, []string) {
	results := p.kb.Search(query, retrievalTopK)
	if len(results) == 0 {
		return apologyText, nil
	}
	var texts, sources []string
	for _, r := range results {
		texts = append(texts, r.Text)
		sources = append(sources, r.Source)
	}
	combined := []rune(strings.Join(texts, "\n"))
	if len(combined) > combinedLimit {
		combined = combined[:combinedLimit]
	}
	return "На основе материалов курса:\n" + string(combined) + "...", sources
}

// styleByConfidence picks pace and tone from the confidence band.
func styleByConfidence(conf float64) (pace, tone string) {
	switch {
	case conf < 0.3:
		return "упрощённый", "дружелюбный наставник"
	case conf > 0.7:
		return "ускоренный", "партнёр по проекту"
	default:
		return "обычный", "нейтральный преподаватель"
	}
}

func intentStrings(in []session.Intent) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
