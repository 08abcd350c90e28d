// Package session holds the per-session tutoring state: the Context and its
// typed slots. Every component owns exactly one slot and mutates only that
// slot; cross-slot reads are allowed and explicit.
package session

import (
	"fmt"
	"time"
)

// Mode selects how the session is driven.
type Mode string

const (
	ModeLive  Mode = "live"
	ModeAsync Mode = "async"
)

// DefaultLatencyWindow bounds the expert latency ring buffer.
const DefaultLatencyWindow = 8

// Context is the single-session state container. It is owned by one session
// and accessed from that session's goroutine only; slots are materialized
// lazily on first access.
type Context struct {
	Discipline   string
	LessonNumber int
	Topic        string
	StudentLevel int // 1..4
	Mode         Mode

	StudentID        string
	TaskID           string
	InputType        string
	Data             string
	LastUserQuestion string

	expert       *ExpertSlot
	motivator    *MotivatorSlot
	conductor    *ConductorSlot
	cartographer *CartographerSlot
	organizer    *OrganizerSlot
	eventLog     *EventLogSlot
	reflection   *ReflectionSlot
	tts          *TTSSlot
	tuner        *TunerSlot
}

// New constructs a session context. A topic is the only hard requirement:
// every downstream component derives goals, tasks and retrieval queries
// from it, so its absence is a construction-time misconfiguration.
func New(discipline string, lessonNumber int, topic string, studentLevel int) (*Context, error) {
	if topic == "" {
		return nil, fmt.Errorf("session: topic is required")
	}
	if studentLevel < 1 || studentLevel > 4 {
		return nil, fmt.Errorf("session: student level %d outside 1..4", studentLevel)
	}
	return &Context{
		Discipline:   discipline,
		LessonNumber: lessonNumber,
		Topic:        topic,
		StudentLevel: studentLevel,
		Mode:         ModeLive,
	}, nil
}

// Expert returns the expert slot, creating defaults on first access.
func (c *Context) Expert() *ExpertSlot {
	if c.expert == nil {
		c.expert = &ExpertSlot{
			Engagement:    0.5,
			Confidence:    0.5,
			latencyWindow: DefaultLatencyWindow,
		}
	}
	return c.expert
}

// Motivator returns the motivator slot, creating defaults on first access.
func (c *Context) Motivator() *MotivatorSlot {
	if c.motivator == nil {
		c.motivator = &MotivatorSlot{Level: 1}
	}
	return c.motivator
}

// Conductor returns the conductor slot, creating defaults on first access.
func (c *Context) Conductor() *ConductorSlot {
	if c.conductor == nil {
		c.conductor = &ConductorSlot{
			Stage:      StageStart,
			Timestamps: make(map[string]time.Time),
		}
	}
	return c.conductor
}

// Cartographer returns the cartographer slot.
func (c *Context) Cartographer() *CartographerSlot {
	if c.cartographer == nil {
		c.cartographer = &CartographerSlot{}
	}
	return c.cartographer
}

// Organizer returns the organizer slot.
func (c *Context) Organizer() *OrganizerSlot {
	if c.organizer == nil {
		c.organizer = &OrganizerSlot{}
	}
	return c.organizer
}

// EventLog returns the event bus slot.
func (c *Context) EventLog() *EventLogSlot {
	if c.eventLog == nil {
		c.eventLog = &EventLogSlot{}
	}
	return c.eventLog
}

// Reflection returns the reflection slot.
func (c *Context) Reflection() *ReflectionSlot {
	if c.reflection == nil {
		c.reflection = &ReflectionSlot{}
	}
	return c.reflection
}

// TTS returns the speech synthesis slot.
func (c *Context) TTS() *TTSSlot {
	if c.tts == nil {
		c.tts = &TTSSlot{Cache: make(map[string]TTSRecord)}
	}
	return c.tts
}

// Tuner returns the relational tuner slot.
func (c *Context) Tuner() *TunerSlot {
	if c.tuner == nil {
		c.tuner = &TunerSlot{}
	}
	return c.tuner
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
