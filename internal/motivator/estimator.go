package motivator

import (
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"tutorcore/internal/bus"
	"tutorcore/internal/session"
)

// Thresholds drive level transitions. Hysteresis keeps the level from
// oscillating around a boundary.
type Thresholds struct {
	ConfLow  float64 `yaml:"conf_low"`
	ConfHigh float64 `yaml:"conf_high"`
	EngLow   float64 `yaml:"eng_low"`
	EngHigh  float64 `yaml:"eng_high"`
	LatSlow  float64 `yaml:"lat_slow"`
	LatFast  float64 `yaml:"lat_fast"`

	Hysteresis float64 `yaml:"hysteresis"`
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ConfLow:    0.38,
		ConfHigh:   0.72,
		EngLow:     0.40,
		EngHigh:    0.68,
		LatSlow:    45,
		LatFast:    12,
		Hysteresis: 0.06,
	}
}

// Estimator maintains the situational level and picks motivational content.
type Estimator struct {
	log *zap.Logger
	th  Thresholds
	rng *rand.Rand

	now func() time.Time
}

// New creates an estimator.
func New(th Thresholds, log *zap.Logger) *Estimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Estimator{
		log: log.Named("motivator"),
		th:  th,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Attach subscribes the estimator to expert answers. Every answer produces
// one motivation_update; reset control envelopes are skipped.
func (e *Estimator) Attach(b *bus.Bus) {
	b.Subscribe(bus.TypeExpertAnswer, func(ev bus.Event) {
		a, _ := ev.Payload["answer"].(*session.Answer)
		if a == nil || a.IsReset() {
			return
		}
		snap := e.Observe(b.Context(), ev.Type, a.Question)
		b.Publish(bus.Event{
			Type:    bus.TypeMotivationUpdate,
			Source:  "motivator",
			Payload: map[string]any{"last": snap},
		})
	})
}

// Observe runs one evaluation: reads the expert metrics, moves the level at
// most one step, checks the drop scenarios in priority order, and decides
// whether to offer a reflection question. The returned snapshot is also
// pushed into the motivator slot history.
func (e *Estimator) Observe(ctx *session.Context, event, question string) *session.MotivationSnapshot {
	slot := ctx.Motivator()
	ex := ctx.Expert()
	now := e.now()

	// Own latency estimate, for the case when the expert could not measure
	// one (manual pauses, first turn).
	var computed float64
	if !slot.LastSeen.IsZero() {
		computed = now.Sub(slot.LastSeen).Seconds()
		if computed < 0 {
			computed = 0
		}
	}
	slot.LastSeen = now

	latencySec := ex.LatencySec
	if latencySec == 0 {
		latencySec = computed
	}
	latencyAvg := ex.LatencyAvgSec
	if latencyAvg == 0 {
		latencyAvg = latencySec
		if computed > latencyAvg {
			latencyAvg = computed
		}
	}
	effective := latencySec
	if latencyAvg > effective {
		effective = latencyAvg
	}

	lastTask := ctx.LastTaskStatus()
	level, signals := e.decideNextLevel(slot.Level, ex.Engagement, ex.Confidence, latencyAvg, lastTask)

	snap := &session.MotivationSnapshot{
		Level:     level,
		LevelName: LevelNames[level],
		Event:     event,
		Question:  question,
		Style:     LevelStyles[level],
		Metrics: session.MotivationMetrics{
			Engagement:    ex.Engagement,
			Confidence:    ex.Confidence,
			LatencyAvgSec: latencyAvg,
		},
		Signals: signals,
		TS:      now,
	}

	snap.Motivation = e.pickMotivation(level)

	m := ruleMetrics{
		Engagement:       ex.Engagement,
		Confidence:       ex.Confidence,
		LatencySec:       latencySec,
		LatencyAvgSec:    latencyAvg,
		EffectiveLatency: effective,
	}
	for _, sc := range scenarios {
		if sc.Detect(question, m, e.th) {
			slot.DropCount++
			style := sc.Style
			snap.Triggered = []string{sc.Name}
			snap.Reaction = sc.Reaction
			snap.StyleUpdate = &style
			break
		}
	}
	snap.DropCount = slot.DropCount

	if slot.DropCount >= 3 || (signals.LowConf && signals.LowEng) {
		snap.ReflectionQuestion = e.pickReflection(ctx)
		ctx.Reflection().Asked = append(ctx.Reflection().Asked, session.ReflectionPrompt{
			TS:          now,
			Question:    snap.ReflectionQuestion,
			TriggeredBy: triggeredBy(snap),
		})
	}

	slot.PushSnapshot(snap)
	e.log.Debug("evaluated",
		zap.Int("level", level),
		zap.Strings("triggered", snap.Triggered),
		zap.Int("drop_count", snap.DropCount))
	return snap
}

// RecordReflection stores the student's reflection reply. A reply
// mentioning time pressure slows the recommended pace.
func (e *Estimator) RecordReflection(ctx *session.Context, text string) {
	ctx.Reflection().Answers = append(ctx.Reflection().Answers, session.ReflectionAnswer{
		TS:   e.now(),
		Text: text,
	})
	if strings.Contains(strings.ToLower(text), "врем") {
		if last := ctx.Motivator().Last; last != nil {
			last.Style.Pace = "замедленный"
		}
	}
}

// decideNextLevel moves the level at most one step per evaluation: down on
// a clear decline, up on sustained success, otherwise hold.
func (e *Estimator) decideNextLevel(current int, eng, conf, latAvg float64, lastTask session.TaskStatus) (int, session.MotivationSignals) {
	if current < 1 {
		current = 1
	}
	sig := session.MotivationSignals{
		LowConf: conf < e.th.ConfLow-e.th.Hysteresis,
		LowEng:  eng < e.th.EngLow-e.th.Hysteresis,
		Slow:    latAvg > e.th.LatSlow,
		Fast:    latAvg > 0 && latAvg < e.th.LatFast,
		Success: lastTask == session.TaskCompleted || conf > e.th.ConfHigh+e.th.Hysteresis,
	}

	next := current
	switch {
	case sig.LowConf || sig.LowEng || sig.Slow:
		if next > 1 {
			next--
		}
	case sig.Success && (eng > e.th.EngHigh || sig.Fast):
		if next < 4 {
			next++
		}
	}
	return next, sig
}

func (e *Estimator) pickMotivation(level int) session.Motivation {
	pool, ok := motivationLibrary[level]
	if !ok {
		pool = motivationLibrary[1]
	}
	return session.Motivation{
		Phrase:    pool.phrases[e.rng.Intn(len(pool.phrases))],
		Challenge: pool.challenges[e.rng.Intn(len(pool.challenges))],
	}
}

// pickReflection avoids repeating the most recently asked question.
func (e *Estimator) pickReflection(ctx *session.Context) string {
	asked := ctx.Reflection().Asked
	var last string
	if len(asked) > 0 {
		last = asked[len(asked)-1].Question
	}
	pool := make([]string, 0, len(ReflectionQuestions))
	for _, q := range ReflectionQuestions {
		if q != last {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		pool = ReflectionQuestions
	}
	return pool[e.rng.Intn(len(pool))]
}

func triggeredBy(snap *session.MotivationSnapshot) []string {
	if len(snap.Triggered) > 0 {
		return snap.Triggered
	}
	var by []string
	if snap.Signals.LowConf {
		by = append(by, "low_conf")
	}
	if snap.Signals.LowEng {
		by = append(by, "low_eng")
	}
	if snap.Signals.Slow {
		by = append(by, "slow")
	}
	return by
}
