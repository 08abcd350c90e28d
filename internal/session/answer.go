package session

// Intent tags the question type detected by the expert pipeline.
type Intent string

const (
	IntentWhy      Intent = "why"
	IntentHow      Intent = "how"
	IntentWhatIf   Intent = "what_if"
	IntentExamples Intent = "examples"
)

// Detail selects how much of the retrieved material goes into the answer.
type Detail string

const (
	DetailShort Detail = "short"
	DetailLong  Detail = "long"
)

// StatusDialogCleared marks the envelope returned for a reset utterance.
const StatusDialogCleared = "dialog_cleared"

// Empathy describes the relational framing attached to an answer.
type Empathy struct {
	Situation string `json:"situation"`
	Tone      string `json:"tone"`
	Intro     string `json:"intro,omitempty"`
	Outro     string `json:"outro,omitempty"`
}

// Answer is the envelope produced by the expert pipeline for one turn.
type Answer struct {
	Question  string   `json:"question"`
	InReplyTo string   `json:"in_reply_to,omitempty"`
	Intents   []Intent `json:"intents"`
	Detail    Detail   `json:"detail"`

	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
	NextSteps   []string `json:"next_steps"`

	Pace string `json:"pace"`
	Tone string `json:"tone"`

	Engagement float64 `json:"engagement"`
	Confidence float64 `json:"confidence"`

	Empathy        *Empathy `json:"empathy,omitempty"`
	AnswerEmpathic string   `json:"answer_empathic,omitempty"`

	// LatencyKnown is false on the first turn of a session, when there is
	// no previous interaction to measure against.
	LatencyKnown  bool    `json:"-"`
	LatencySec    float64 `json:"latency_sec"`
	LatencyAvgSec float64 `json:"latency_avg_sec"`

	// Status is non-empty only for control envelopes (dialog reset).
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// IsReset reports whether the envelope is a dialog-cleared control envelope.
func (a *Answer) IsReset() bool { return a.Status == StatusDialogCleared }
