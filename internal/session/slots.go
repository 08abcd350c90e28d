package session

import "time"

// =============================================================================
// EXPERT SLOT
// =============================================================================

// ExpertSlot is owned by the expert pipeline. The motivator and conductor
// read it; nobody else writes it.
type ExpertSlot struct {
	DialogHistory []*Answer
	LastAnswer    *Answer

	Engagement float64 // always clipped to [0,1]
	Confidence float64 // always clipped to [0,1]

	// LastInteraction is the previous turn's completion time. Zero means
	// no turn has completed yet and latency is undefined.
	LastInteraction time.Time

	// LatencySec / LatencyAvgSec mirror the latest envelope so readers do
	// not have to dig through the dialog history.
	LatencySec    float64
	LatencyAvgSec float64

	latencyBuffer []float64
	latencyWindow int
}

// AdjustEngagement shifts engagement by delta, clipping to [0,1].
func (s *ExpertSlot) AdjustEngagement(delta float64) {
	s.Engagement = clamp01(s.Engagement + delta)
}

// AdjustConfidence shifts confidence by delta, clipping to [0,1].
func (s *ExpertSlot) AdjustConfidence(delta float64) {
	s.Confidence = clamp01(s.Confidence + delta)
}

// PushLatency appends a latency sample, evicting the oldest once the ring
// is full, and returns the new rolling average.
func (s *ExpertSlot) PushLatency(sec float64) float64 {
	if s.latencyWindow <= 0 {
		s.latencyWindow = DefaultLatencyWindow
	}
	s.latencyBuffer = append(s.latencyBuffer, sec)
	if len(s.latencyBuffer) > s.latencyWindow {
		s.latencyBuffer = s.latencyBuffer[len(s.latencyBuffer)-s.latencyWindow:]
	}
	avg := s.latencyAvg()
	s.LatencySec = sec
	s.LatencyAvgSec = avg
	return avg
}

// LatencyBufferLen reports the current ring occupancy.
func (s *ExpertSlot) LatencyBufferLen() int { return len(s.latencyBuffer) }

func (s *ExpertSlot) latencyAvg() float64 {
	if len(s.latencyBuffer) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.latencyBuffer {
		sum += v
	}
	return sum / float64(len(s.latencyBuffer))
}

// AppendAnswer records the envelope so that LastAnswer always equals the
// tail of DialogHistory.
func (s *ExpertSlot) AppendAnswer(a *Answer) {
	s.DialogHistory = append(s.DialogHistory, a)
	s.LastAnswer = a
}

// ResetDialog clears the conversation memory while preserving metrics.
func (s *ExpertSlot) ResetDialog() {
	s.DialogHistory = nil
	s.LastAnswer = nil
}

// =============================================================================
// MOTIVATOR SLOT
// =============================================================================

const motivatorHistoryLimit = 20

// MotivatorSlot is owned by the motivation estimator.
type MotivatorSlot struct {
	Level     int // 1..4 situational level
	History   []*MotivationSnapshot
	Last      *MotivationSnapshot
	DropCount int // monotonically non-decreasing until full restart
	LastSeen  time.Time
}

// PushSnapshot records the snapshot, keeping the last 20.
func (s *MotivatorSlot) PushSnapshot(snap *MotivationSnapshot) {
	s.History = append(s.History, snap)
	if len(s.History) > motivatorHistoryLimit {
		s.History = s.History[len(s.History)-motivatorHistoryLimit:]
	}
	s.Last = snap
	s.Level = snap.Level
}

// =============================================================================
// CONDUCTOR SLOT
// =============================================================================

// Stage is a lifecycle stage of the lesson.
type Stage string

const (
	StageStart      Stage = "start"
	StageGoals      Stage = "goals"
	StageTasks      Stage = "tasks"
	StageWork       Stage = "work"
	StageReflection Stage = "reflection"
	StageWrapup     Stage = "wrapup"
	StageFinished   Stage = "finished"
)

// Summary is the lesson wrap-up computed at finish time.
type Summary struct {
	Topic           string `json:"topic"`
	AnswersCount    int    `json:"answers_count"`
	WorkTurns       int    `json:"work_turns"`
	TasksAvailable  bool   `json:"tasks_available"`
	MotivationLevel int    `json:"motivation_level"`
	Style           *Style `json:"style,omitempty"`
}

// ConductorSlot is owned by the lifecycle conductor.
type ConductorSlot struct {
	Stage      Stage
	WorkTurns  int
	Summary    *Summary
	Timestamps map[string]time.Time
}

// MarkTime stamps a named lifecycle moment.
func (s *ConductorSlot) MarkTime(key string) {
	if s.Timestamps == nil {
		s.Timestamps = make(map[string]time.Time)
	}
	s.Timestamps[key] = time.Now()
}

// =============================================================================
// CARTOGRAPHER / ORGANIZER SLOTS
// =============================================================================

// Goals is the pedagogical goal set for the lesson.
type Goals struct {
	MainGoal string   `json:"main_goal"`
	Subgoals []string `json:"subgoals"`
	Level    string   `json:"level"`
}

// KnowledgeTypes groups extracted sentences by knowledge kind.
type KnowledgeTypes struct {
	Facts      []string `json:"facts"`
	Procedures []string `json:"procedures"`
	Meta       []string `json:"meta"`
}

// CartographerSlot is owned by the cartographer.
type CartographerSlot struct {
	Goals          *Goals
	KnowledgeTypes *KnowledgeTypes
	TextMap        string
	DocCount       int
}

// OrganizerSlot is owned by the organizer.
type OrganizerSlot struct {
	Tasks []*Task
}

// HasTasks reports whether any tasks were derived.
func (s *OrganizerSlot) HasTasks() bool { return len(s.Tasks) > 0 }

// =============================================================================
// EVENT LOG SLOT
// =============================================================================

const eventLogLimit = 200

// LogRecord is a single bus log line. It carries payload keys only, never
// payload values, to keep the log small and free of student text.
type LogRecord struct {
	TS          time.Time `json:"ts"`
	Type        string    `json:"type"`
	Source      string    `json:"source"`
	PayloadKeys []string  `json:"payload_keys"`
}

// EventLogSlot is owned by the event bus.
type EventLogSlot struct {
	ID  string
	Log []LogRecord
}

// Append adds a record, truncating to the last 200.
func (s *EventLogSlot) Append(rec LogRecord) {
	s.Log = append(s.Log, rec)
	if len(s.Log) > eventLogLimit {
		s.Log = s.Log[len(s.Log)-eventLogLimit:]
	}
}

// Tail returns up to n most recent records.
func (s *EventLogSlot) Tail(n int) []LogRecord {
	if n >= len(s.Log) {
		return s.Log
	}
	return s.Log[len(s.Log)-n:]
}

// =============================================================================
// REFLECTION SLOT
// =============================================================================

// ReflectionPrompt records a reflection question offered to the student.
type ReflectionPrompt struct {
	TS          time.Time `json:"ts"`
	Question    string    `json:"question,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Turns       int       `json:"turns,omitempty"`
	TriggeredBy []string  `json:"triggered_by,omitempty"`
}

// ReflectionAnswer records the student's reflection reply.
type ReflectionAnswer struct {
	TS   time.Time `json:"ts"`
	Text string    `json:"text"`
}

// ReflectionSlot is written by the conductor and the motivator.
type ReflectionSlot struct {
	Asked   []ReflectionPrompt
	Answers []ReflectionAnswer
}

// =============================================================================
// TTS SLOT
// =============================================================================

// WordSpan is a word-level timestamp in synthesized audio.
type WordSpan struct {
	T0   float64 `json:"t0"`
	T1   float64 `json:"t1"`
	Word string  `json:"word"`
}

// TTSRecord is a cached synthesis result addressed by fingerprint.
type TTSRecord struct {
	Path     string     `json:"path"` // file:// URI
	SR       int        `json:"sr"`
	WordTS   []WordSpan `json:"word_ts"`
	Phonemes []string   `json:"phonemes"`
}

// TTSSlot is owned by the TTS service.
type TTSSlot struct {
	Cache map[string]TTSRecord
	Dir   string
}

// =============================================================================
// RELATIONAL TUNER SLOT
// =============================================================================

// TunerSlot exposes the latest empathy descriptor to the UI.
type TunerSlot struct {
	Last *Empathy
}
