// Package conductor drives the lesson lifecycle:
// start → goals → tasks → work → reflection → wrapup → finished.
// It owns the Conductor slot and is the only component that changes the
// stage; every stage mutation goes through setStage, which broadcasts a
// stage_changed event.
package conductor

import (
	"go.uber.org/zap"

	"tutorcore/internal/bus"
	"tutorcore/internal/cartographer"
	"tutorcore/internal/motivator"
	"tutorcore/internal/organizer"
	"tutorcore/internal/session"
)

// DefaultMinWorkTurns is how many expert answers the work stage needs
// before reflection is offered.
const DefaultMinWorkTurns = 2

// Conductor orchestrates the lesson stages over the bus.
type Conductor struct {
	log          *zap.Logger
	b            *bus.Bus
	cart         *cartographer.Cartographer
	org          *organizer.Organizer
	mot          *motivator.Estimator
	minWorkTurns int
}

// New creates a conductor. The cartographer, organizer and motivator are
// optional; missing collaborators degrade to fallbacks.
func New(b *bus.Bus, cart *cartographer.Cartographer, org *organizer.Organizer, mot *motivator.Estimator, minWorkTurns int, log *zap.Logger) *Conductor {
	if log == nil {
		log = zap.NewNop()
	}
	if minWorkTurns <= 0 {
		minWorkTurns = DefaultMinWorkTurns
	}
	c := &Conductor{
		log:          log.Named("conductor"),
		b:            b,
		cart:         cart,
		org:          org,
		mot:          mot,
		minWorkTurns: minWorkTurns,
	}
	c.slot().MarkTime("created")
	return c
}

// Attach subscribes the conductor to its lifecycle events.
func (c *Conductor) Attach() {
	c.b.Subscribe(bus.TypeInit, c.onInit)
	c.b.Subscribe(bus.TypeGoalsReady, c.onGoalsReady)
	c.b.Subscribe(bus.TypeTasksReady, c.onTasksReady)
	c.b.Subscribe(bus.TypeExpertAnswer, c.onExpertAnswer)
	c.b.Subscribe(bus.TypeReflectionAnswer, c.onReflectionAnswer)
	c.b.Subscribe(bus.TypeAskReflection, c.onAskReflection)
	c.b.Subscribe(bus.TypeStudentReflection, c.proxyReflection)
	c.b.Subscribe(bus.TypeRestart, c.onRestart)
}

func (c *Conductor) ctx() *session.Context        { return c.b.Context() }
func (c *Conductor) slot() *session.ConductorSlot { return c.ctx().Conductor() }

// Stage returns the current lifecycle stage.
func (c *Conductor) Stage() session.Stage { return c.slot().Stage }

// setStage is the single mutation point for the stage. Every change is
// timestamped and broadcast.
func (c *Conductor) setStage(s session.Stage) {
	slot := c.slot()
	slot.Stage = s
	slot.MarkTime("stage:" + string(s))
	c.b.Publish(bus.Event{
		Type:    bus.TypeStageChanged,
		Source:  "conductor",
		Payload: map[string]any{"stage": string(s)},
	})
}

// =============================================================================
// STAGE HANDLERS
// =============================================================================

func (c *Conductor) onInit(ev bus.Event) {
	if c.Stage() != session.StageStart {
		return
	}
	goals := c.materializeGoals()
	c.b.Publish(bus.Event{
		Type:    bus.TypeGoalsReady,
		Source:  "conductor",
		Payload: map[string]any{"goals": goals},
	})
}

// materializeGoals asks the cartographer for goals, falling back to the
// basic set when there are no documents or no cartographer at all.
func (c *Conductor) materializeGoals() *session.Goals {
	if g := c.ctx().Cartographer().Goals; g != nil {
		return g
	}
	if c.cart != nil {
		if g, err := c.cart.Process(c.ctx()); err == nil {
			return g
		} else {
			c.b.Warn("conductor", "cartographer unavailable: "+err.Error())
		}
	}
	goals := fallbackGoals(c.ctx().Topic)
	c.ctx().Cartographer().Goals = goals
	return goals
}

func fallbackGoals(topic string) *session.Goals {
	if topic == "" {
		topic = "Тема занятия"
	}
	return &session.Goals{
		MainGoal: "Изучить тему: " + topic,
		Subgoals: []string{
			"Понять ключевые понятия темы «" + topic + "»",
			"Выполнить одно практическое задание",
			"Оценить получившийся результат по чек-листу",
		},
		Level: "понимание → применение → оценка",
	}
}

func (c *Conductor) onGoalsReady(ev bus.Event) {
	if s := c.Stage(); s != session.StageStart && s != session.StageGoals {
		return
	}
	c.setStage(session.StageGoals)
	if c.org != nil {
		tasks, err := c.org.Process(c.ctx())
		if err != nil {
			c.b.Warn("organizer", err.Error())
		} else {
			c.b.Publish(bus.Event{
				Type:    bus.TypeOrganizerUpdate,
				Source:  "organizer",
				Payload: map[string]any{"organizer": tasks},
			})
		}
	}
	c.b.Publish(bus.Event{
		Type:    bus.TypeTasksReady,
		Source:  "conductor",
		Payload: map[string]any{"has_tasks": c.ctx().Organizer().HasTasks()},
	})
}

func (c *Conductor) onTasksReady(ev bus.Event) {
	if s := c.Stage(); s != session.StageGoals && s != session.StageTasks {
		return
	}
	if !c.ctx().Organizer().HasTasks() {
		// Degrade gracefully: work continues with an empty task set.
		c.b.Warn("conductor", "задания не получены; продолжаем в режиме work")
	}
	c.setStage(session.StageTasks)
	c.setStage(session.StageWork)
}

func (c *Conductor) onExpertAnswer(ev bus.Event) {
	if c.Stage() != session.StageWork {
		return
	}
	if a, _ := ev.Payload["answer"].(*session.Answer); a != nil && a.IsReset() {
		// A dialog reset is not a work turn.
		return
	}
	slot := c.slot()
	slot.WorkTurns++
	if slot.WorkTurns >= c.minWorkTurns {
		c.b.Publish(bus.Event{
			Type:   bus.TypeAskReflection,
			Source: "conductor",
			Payload: map[string]any{
				"reason": "enough_work_turns",
				"turns":  slot.WorkTurns,
			},
		})
		c.setStage(session.StageReflection)
	}
}

func (c *Conductor) onAskReflection(ev bus.Event) {
	turns, _ := ev.Payload["turns"].(int)
	c.ctx().Reflection().Asked = append(c.ctx().Reflection().Asked, session.ReflectionPrompt{
		TS:     ev.TS,
		Reason: ev.String("reason"),
		Turns:  turns,
	})
}

// proxyReflection normalizes a student_reflection utterance into the
// canonical reflection_answer event.
func (c *Conductor) proxyReflection(ev bus.Event) {
	text := ev.String("answer")
	if text == "" {
		text = ev.Text()
	}
	c.b.Publish(bus.Event{
		Type:    bus.TypeReflectionAnswer,
		Source:  "conductor",
		Payload: map[string]any{"text": text},
	})
}

func (c *Conductor) onReflectionAnswer(ev bus.Event) {
	if c.Stage() != session.StageReflection {
		return
	}
	text := ev.Text()
	if c.mot != nil {
		c.mot.RecordReflection(c.ctx(), text)
	} else {
		c.ctx().Reflection().Answers = append(c.ctx().Reflection().Answers, session.ReflectionAnswer{
			TS:   ev.TS,
			Text: text,
		})
	}
	c.setStage(session.StageWrapup)
	c.finish()
}

// finish assembles the lesson summary, publishes it and closes the lesson.
func (c *Conductor) finish() {
	ctx := c.ctx()
	slot := c.slot()

	summary := &session.Summary{
		Topic:           ctx.Topic,
		AnswersCount:    len(ctx.Expert().DialogHistory),
		WorkTurns:       slot.WorkTurns,
		TasksAvailable:  ctx.Organizer().HasTasks(),
		MotivationLevel: ctx.Motivator().Level,
	}
	if last := ctx.Motivator().Last; last != nil {
		style := last.Style
		summary.Style = &style
	}
	slot.Summary = summary

	c.b.Publish(bus.Event{
		Type:    bus.TypeLessonFinished,
		Source:  "conductor",
		Payload: map[string]any{"summary": summary},
	})
	c.setStage(session.StageFinished)
	c.log.Info("lesson finished",
		zap.Int("answers", summary.AnswersCount),
		zap.Int("work_turns", summary.WorkTurns),
		zap.Int("motivation_level", summary.MotivationLevel))
}
