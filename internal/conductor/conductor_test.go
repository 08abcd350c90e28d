package conductor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tutorcore/internal/bus"
	"tutorcore/internal/cartographer"
	"tutorcore/internal/knowledge"
	"tutorcore/internal/motivator"
	"tutorcore/internal/organizer"
	"tutorcore/internal/session"
)

type harness struct {
	ctx  *session.Context
	bus  *bus.Bus
	cond *Conductor

	stages   []string
	finished int
}

func newHarness(t *testing.T, docs []knowledge.Document) *harness {
	t.Helper()
	ctx, err := session.New("дизайн", 1, "Инфографика", 2)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	b := bus.New(ctx, nil)

	cart := cartographer.New(nil)
	cart.SetDocuments(docs)
	cond := New(b, cart, organizer.New(nil), motivator.New(motivator.DefaultThresholds(), nil), DefaultMinWorkTurns, nil)
	cond.Attach()

	h := &harness{ctx: ctx, bus: b, cond: cond}
	b.Subscribe(bus.TypeStageChanged, func(ev bus.Event) {
		h.stages = append(h.stages, ev.String("stage"))
	})
	b.Subscribe(bus.TypeLessonFinished, func(ev bus.Event) { h.finished++ })
	return h
}

func (h *harness) init() {
	h.bus.Publish(bus.Event{Type: bus.TypeInit, Source: "cli"})
}

func (h *harness) answer(question string) {
	h.bus.Publish(bus.Event{
		Type:   bus.TypeExpertAnswer,
		Source: "expert",
		Payload: map[string]any{
			"answer": &session.Answer{Question: question, Answer: "ответ"},
		},
	})
}

var testDocs = []knowledge.Document{
	{Name: "intro.md", Text: "Инфографика это способ визуализации. Сделайте макет по шагам. Сравните варианты."},
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestInitReachesWork(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()

	require.Equal(t, session.StageWork, h.cond.Stage())
	require.Equal(t, []string{"goals", "tasks", "work"}, h.stages)
	require.NotNil(t, h.ctx.Cartographer().Goals)
	require.NotEmpty(t, h.ctx.Cartographer().TextMap)
	require.Len(t, h.ctx.Organizer().Tasks, 3)
}

func TestOrganizerUpdateCarriesTasks(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	var got []bus.Event
	h.bus.Subscribe(bus.TypeOrganizerUpdate, func(ev bus.Event) { got = append(got, ev) })
	h.init()

	require.Len(t, got, 1)
	tasks, ok := got[0].Payload["organizer"].([]*session.Task)
	require.True(t, ok)
	require.Len(t, tasks, 3)
}

func TestInitIgnoredOffStart(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()
	stages := len(h.stages)

	// A second init must be a no-op once the lesson is underway.
	h.init()
	require.Len(t, h.stages, stages)
	require.Equal(t, session.StageWork, h.cond.Stage())
}

func TestFallbackGoalsWithoutDocuments(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.init()

	goals := h.ctx.Cartographer().Goals
	require.NotNil(t, goals)
	require.Equal(t, "Изучить тему: Инфографика", goals.MainGoal)
	require.Len(t, goals.Subgoals, 3)
	// Fallback goals still produce tasks.
	require.Equal(t, session.StageWork, h.cond.Stage())
	require.NotEmpty(t, h.ctx.Organizer().Tasks)
}

func TestWorkTurnsTriggerReflection(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()

	h.answer("как построить диаграмму")
	require.Equal(t, session.StageWork, h.cond.Stage())
	require.Equal(t, 1, h.ctx.Conductor().WorkTurns)

	h.answer("а что с легендой")
	require.Equal(t, session.StageReflection, h.cond.Stage())
	require.NotEmpty(t, h.ctx.Reflection().Asked)
	require.Equal(t, "enough_work_turns", h.ctx.Reflection().Asked[0].Reason)
}

func TestResetEnvelopeIsNotAWorkTurn(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()

	h.bus.Publish(bus.Event{
		Type:   bus.TypeExpertAnswer,
		Source: "expert",
		Payload: map[string]any{
			"answer": &session.Answer{Status: session.StatusDialogCleared},
		},
	})
	require.Equal(t, 0, h.ctx.Conductor().WorkTurns)
}

func TestReflectionAnswerFinishesLesson(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()
	h.answer("как построить диаграмму")
	h.answer("а что с легендой")

	h.bus.Publish(bus.Event{
		Type:    bus.TypeStudentReflection,
		Source:  "cli",
		Payload: map[string]any{"text": "Мне не хватило примеров"},
	})

	require.Equal(t, session.StageFinished, h.cond.Stage())
	require.Equal(t, 1, h.finished)
	require.Len(t, h.ctx.Reflection().Answers, 1)

	sum := h.ctx.Conductor().Summary
	require.NotNil(t, sum)
	require.Equal(t, "Инфографика", sum.Topic)
	require.Equal(t, 2, sum.WorkTurns)
	require.True(t, sum.TasksAvailable)
}

func TestReflectionAnswerIgnoredOutsideReflection(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()

	h.bus.Publish(bus.Event{
		Type:    bus.TypeReflectionAnswer,
		Source:  "conductor",
		Payload: map[string]any{"text": "рано"},
	})
	require.Equal(t, session.StageWork, h.cond.Stage())
	require.Nil(t, h.ctx.Conductor().Summary)
}

// =============================================================================
// RESTART
// =============================================================================

func restartEvent(mode string) bus.Event {
	return bus.Event{
		Type:    bus.TypeRestart,
		Source:  "cli",
		Payload: map[string]any{"mode": mode},
	}
}

func TestRestartStageInWork(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()
	h.answer("как построить диаграмму")

	h.bus.Publish(restartEvent(bus.RestartStage))
	require.Equal(t, session.StageWork, h.cond.Stage())
	// Work turns survive a stage restart.
	require.Equal(t, 1, h.ctx.Conductor().WorkTurns)
}

func TestRestartStageFromFinishedStartsOver(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()
	h.answer("как построить диаграмму")
	h.answer("а что с легендой")
	h.bus.Publish(bus.Event{
		Type:    bus.TypeStudentReflection,
		Source:  "cli",
		Payload: map[string]any{"text": "всё понятно"},
	})
	require.Equal(t, session.StageFinished, h.cond.Stage())

	h.bus.Publish(restartEvent(bus.RestartStage))
	// Replaying init from finished walks the pipeline back to work.
	require.Equal(t, session.StageWork, h.cond.Stage())
}

func TestRestartFull(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()
	h.ctx.Expert().AppendAnswer(&session.Answer{Question: "q", Answer: "a"})
	h.answer("как построить диаграмму")
	h.ctx.Motivator().Level = 3
	h.ctx.Motivator().DropCount = 2

	h.bus.Publish(restartEvent(bus.RestartFull))

	// Dialog, turn counter and summary are gone; the lesson replayed to work.
	require.Empty(t, h.ctx.Expert().DialogHistory)
	require.Nil(t, h.ctx.Expert().LastAnswer)
	require.Equal(t, 0, h.ctx.Conductor().WorkTurns)
	require.Nil(t, h.ctx.Conductor().Summary)
	require.Equal(t, session.StageWork, h.cond.Stage())

	// Motivation state and the session id survive.
	require.Equal(t, 3, h.ctx.Motivator().Level)
	require.Equal(t, 2, h.ctx.Motivator().DropCount)
	require.NotEmpty(t, h.bus.SessionID())
}

func TestRestartFullTruncatesEventLog(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testDocs)
	h.init()
	require.NotEmpty(t, h.ctx.EventLog().Log)

	h.bus.Publish(restartEvent(bus.RestartFull))
	// Only the replayed init cycle remains in the log.
	for _, rec := range h.ctx.EventLog().Log {
		require.NotEqual(t, bus.TypeRestart, rec.Type)
	}
}
