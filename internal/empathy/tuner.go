package empathy

import (
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"tutorcore/internal/session"
)

// Tuner wraps expert answers with relational framing. The tone is fixed
// per session (it tracks the motivator's style tone when set); the
// situation is re-detected every turn.
type Tuner struct {
	log *zap.Logger
	rng *rand.Rand
}

// NewTuner creates a tuner with its own phrase-selection source.
func NewTuner(log *zap.Logger) *Tuner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tuner{
		log: log.Named("tuner"),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Embellish detects the situation, picks a phrase, and fills the answer's
// Empathy descriptor and AnswerEmpathic text. The unframed Answer field is
// left untouched. The chosen descriptor is mirrored into the tuner slot
// for the UI.
func (t *Tuner) Embellish(ctx *session.Context, a *session.Answer, userText string) {
	tone := t.toneFor(ctx)
	situation := DetectMixed(userText, ctx)

	phrase, situation, tone := t.pick(situation, tone)
	emp := &session.Empathy{Situation: situation, Tone: tone}

	switch positionBySituation[situation] {
	case positionOutro:
		emp.Outro = phrase
		a.AnswerEmpathic = strings.TrimSpace(a.Answer + "\n\n" + phrase)
	default:
		emp.Intro = phrase
		a.AnswerEmpathic = strings.TrimSpace(phrase + "\n\n" + a.Answer)
	}

	a.Empathy = emp
	ctx.Tuner().Last = emp
	t.log.Debug("embellished answer",
		zap.String("situation", situation),
		zap.String("tone", tone))
}

// toneFor reads the motivator's current style tone, defaulting to warm.
func (t *Tuner) toneFor(ctx *session.Context) string {
	if last := ctx.Motivator().Last; last != nil && last.Style.Tone != "" {
		if _, ok := phraseLibrary[phraseKey{SituationStart, last.Style.Tone}]; ok {
			return last.Style.Tone
		}
	}
	return ToneWarm
}

// pick resolves (situation, tone) against the library with the fallback
// chain: exact, then warm tone, then (start, warm). It returns the phrase
// with the key actually used.
func (t *Tuner) pick(situation, tone string) (string, string, string) {
	if pool, ok := phraseLibrary[phraseKey{situation, tone}]; ok {
		return pool[t.rng.Intn(len(pool))], situation, tone
	}
	if pool, ok := phraseLibrary[phraseKey{situation, ToneWarm}]; ok {
		return pool[t.rng.Intn(len(pool))], situation, ToneWarm
	}
	pool := phraseLibrary[phraseKey{SituationStart, ToneWarm}]
	return pool[t.rng.Intn(len(pool))], SituationStart, ToneWarm
}
