package session

import "time"

// Style is the recommended communication style for a motivation level.
type Style struct {
	Style string `json:"style"`
	Tone  string `json:"tone"`
	Pace  string `json:"pace"`
}

// StyleUpdate is a scenario-triggered override of pace and tone.
type StyleUpdate struct {
	Pace string `json:"pace"`
	Tone string `json:"tone"`
}

// MotivationMetrics are the inputs the estimator saw at evaluation time.
type MotivationMetrics struct {
	Engagement    float64 `json:"engagement"`
	Confidence    float64 `json:"confidence"`
	LatencyAvgSec float64 `json:"latency_avg_sec"`
}

// MotivationSignals are the threshold crossings behind a level decision.
type MotivationSignals struct {
	LowConf bool `json:"low_conf"`
	LowEng  bool `json:"low_eng"`
	Slow    bool `json:"slow"`
	Fast    bool `json:"fast"`
	Success bool `json:"success"`
}

// Motivation is the phrase/challenge pair picked for the current level.
type Motivation struct {
	Phrase    string `json:"phrase"`
	Challenge string `json:"challenge"`
}

// MotivationSnapshot is one estimator evaluation.
type MotivationSnapshot struct {
	Level     int    `json:"level"`
	LevelName string `json:"level_name"`
	Event     string `json:"event,omitempty"`
	Question  string `json:"question,omitempty"`

	Style   Style             `json:"style"`
	Metrics MotivationMetrics `json:"metrics"`
	Signals MotivationSignals `json:"signals"`

	Triggered   []string     `json:"triggered,omitempty"`
	Reaction    string       `json:"reaction,omitempty"`
	StyleUpdate *StyleUpdate `json:"style_update,omitempty"`
	DropCount   int          `json:"drop_count"`

	Motivation         Motivation `json:"motivation"`
	ReflectionQuestion string     `json:"reflection_question,omitempty"`

	TS time.Time `json:"ts"`
}
