package conductor

import (
	"go.uber.org/zap"

	"tutorcore/internal/bus"
	"tutorcore/internal/session"
)

// onRestart handles restart events. Mode "full" replays the whole lesson
// from the start; mode "stage" (the default) re-enters the current stage
// by re-emitting its entry event.
func (c *Conductor) onRestart(ev bus.Event) {
	mode := ev.String("mode")
	if mode == "" {
		mode = bus.RestartStage
	}
	prev := c.Stage()

	if mode == bus.RestartFull {
		c.restartFull(ev.String("reason"))
		return
	}

	switch prev {
	case session.StageStart, session.StageGoals:
		goals := c.materializeGoals()
		c.setStage(session.StageGoals)
		c.b.Publish(bus.Event{
			Type:    bus.TypeGoalsReady,
			Source:  "conductor",
			Payload: map[string]any{"goals": goals, "restart": bus.RestartStage},
		})
	case session.StageTasks:
		c.setStage(session.StageTasks)
		c.b.Publish(bus.Event{
			Type:   bus.TypeTasksReady,
			Source: "conductor",
			Payload: map[string]any{
				"has_tasks": c.ctx().Organizer().HasTasks(),
				"restart":   bus.RestartStage,
			},
		})
	case session.StageWork:
		// Nothing to replay: the next student question flows normally.
		c.setStage(session.StageWork)
	case session.StageReflection:
		c.setStage(session.StageReflection)
		c.b.Publish(bus.Event{
			Type:    bus.TypeAskReflection,
			Source:  "conductor",
			Payload: map[string]any{"reason": "restart_stage"},
		})
	case session.StageWrapup:
		c.setStage(session.StageWrapup)
		c.finish()
	default:
		// finished or unknown: start over.
		c.setStage(session.StageStart)
		c.b.Publish(bus.Event{
			Type:    bus.TypeInit,
			Source:  "conductor",
			Payload: map[string]any{"restart": "from_finished"},
		})
	}
	c.log.Info("stage restarted", zap.String("previous", string(prev)), zap.String("stage", string(c.Stage())))
}

// restartFull resets the dialog and lifecycle state while preserving the
// motivation history, goals and tasks, then replays the init cycle.
func (c *Conductor) restartFull(reason string) {
	ctx := c.ctx()
	ctx.Expert().ResetDialog()

	slot := c.slot()
	slot.WorkTurns = 0
	slot.Summary = nil

	// The bus log restarts with the lesson; the session id survives.
	ctx.EventLog().Log = nil

	c.setStage(session.StageStart)
	c.b.Publish(bus.Event{
		Type:    bus.TypeInit,
		Source:  "conductor",
		Payload: map[string]any{"restart": bus.RestartFull, "reason": reason},
	})
	c.log.Info("full restart", zap.String("reason", reason))
}
