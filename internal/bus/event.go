// Package bus implements the in-process typed event bus: synchronous
// depth-first dispatch in registration order, a bounded per-session log,
// and panic isolation that turns handler failures into error events.
package bus

import "time"

// Canonical event types. Payload shapes are documented in the taxonomy;
// payload values travel as map entries and are never logged.
const (
	TypeInit              = "init"
	TypeStudentQuestion   = "student_question"
	TypeStudentReflection = "student_reflection"
	TypeExpertAnswer      = "expert_answer"
	TypeGoalsReady        = "goals_ready"
	TypeTasksReady        = "tasks_ready"
	TypeOrganizerUpdate   = "organizer_update"
	TypeMotivationUpdate  = "motivation_update"
	TypeAskReflection     = "ask_reflection"
	TypeReflectionAnswer  = "reflection_answer"
	TypeStageChanged      = "stage_changed"
	TypeLessonFinished    = "lesson_finished"
	TypeRestart           = "restart"
	TypeTTSDone           = "tts_done"
	TypeTTSFailed         = "tts_failed"
	TypeError             = "error"
	TypeWarning           = "warning"
)

// Restart modes carried in restart event payloads.
const (
	RestartStage = "stage"
	RestartFull  = "full"
)

// Event is one bus message.
type Event struct {
	Type    string
	Source  string
	Payload map[string]any
	TS      time.Time
}

// Handler consumes an event. Handlers may publish nested events; nested
// publishes complete before the outer publish returns.
type Handler func(Event)

// Text extracts the conventional "text" payload field.
func (e Event) Text() string {
	s, _ := e.Payload["text"].(string)
	return s
}

// String extracts a named string payload field.
func (e Event) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}
