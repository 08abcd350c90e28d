package session

import (
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New("дизайн", 1, "", 2); err == nil {
		t.Fatal("empty topic must be rejected")
	}
	if _, err := New("дизайн", 1, "Тема", 0); err == nil {
		t.Fatal("level 0 must be rejected")
	}
	if _, err := New("дизайн", 1, "Тема", 5); err == nil {
		t.Fatal("level 5 must be rejected")
	}
	ctx, err := New("дизайн", 1, "Тема", 4)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Mode != ModeLive {
		t.Fatalf("mode = %s, want live", ctx.Mode)
	}
}

func TestSlotDefaults(t *testing.T) {
	t.Parallel()

	ctx, _ := New("дизайн", 1, "Тема", 1)
	if e := ctx.Expert(); e.Engagement != 0.5 || e.Confidence != 0.5 {
		t.Fatalf("expert defaults = %v/%v", e.Engagement, e.Confidence)
	}
	if ctx.Motivator().Level != 1 {
		t.Fatalf("motivator level = %d", ctx.Motivator().Level)
	}
	if ctx.Conductor().Stage != StageStart {
		t.Fatalf("stage = %s", ctx.Conductor().Stage)
	}
	// Accessors hand back the same slot on every call.
	if ctx.Expert() != ctx.Expert() {
		t.Fatal("expert slot must be stable")
	}
}

func TestMetricClipping(t *testing.T) {
	t.Parallel()

	ctx, _ := New("дизайн", 1, "Тема", 1)
	e := ctx.Expert()

	e.AdjustConfidence(10)
	if e.Confidence != 1 {
		t.Fatalf("confidence = %v, want 1", e.Confidence)
	}
	e.AdjustEngagement(-10)
	if e.Engagement != 0 {
		t.Fatalf("engagement = %v, want 0", e.Engagement)
	}
}

func TestLatencyRing(t *testing.T) {
	t.Parallel()

	ctx, _ := New("дизайн", 1, "Тема", 1)
	e := ctx.Expert()

	for i := 1; i <= 10; i++ {
		e.PushLatency(float64(i))
	}
	if got := e.LatencyBufferLen(); got != DefaultLatencyWindow {
		t.Fatalf("buffer len = %d, want %d", got, DefaultLatencyWindow)
	}
	// Last 8 samples are 3..10, average 6.5.
	if e.LatencyAvgSec != 6.5 {
		t.Fatalf("avg = %v, want 6.5", e.LatencyAvgSec)
	}
	if e.LatencySec != 10 {
		t.Fatalf("last = %v, want 10", e.LatencySec)
	}
}

func TestDialogHistoryInvariant(t *testing.T) {
	t.Parallel()

	ctx, _ := New("дизайн", 1, "Тема", 1)
	e := ctx.Expert()

	a1, a2 := &Answer{Question: "q1"}, &Answer{Question: "q2"}
	e.AppendAnswer(a1)
	e.AppendAnswer(a2)
	if e.LastAnswer != a2 || e.DialogHistory[len(e.DialogHistory)-1] != a2 {
		t.Fatal("last answer must equal history tail")
	}

	e.ResetDialog()
	if e.LastAnswer != nil || len(e.DialogHistory) != 0 {
		t.Fatal("reset must clear history and last answer")
	}
}

func TestMotivatorHistoryLimit(t *testing.T) {
	t.Parallel()

	ctx, _ := New("дизайн", 1, "Тема", 1)
	m := ctx.Motivator()
	for i := 0; i < 30; i++ {
		m.PushSnapshot(&MotivationSnapshot{Level: 1 + i%4})
	}
	if len(m.History) != 20 {
		t.Fatalf("history len = %d, want 20", len(m.History))
	}
	if m.Last != m.History[19] {
		t.Fatal("last must equal history tail")
	}
	if m.Level != m.Last.Level {
		t.Fatal("level must track the last snapshot")
	}
}

func TestEventLogLimit(t *testing.T) {
	t.Parallel()

	ctx, _ := New("дизайн", 1, "Тема", 1)
	slot := ctx.EventLog()
	for i := 0; i < 250; i++ {
		slot.Append(LogRecord{Type: "init", TS: time.Now()})
	}
	if len(slot.Log) != 200 {
		t.Fatalf("log len = %d, want 200", len(slot.Log))
	}
	if got := len(slot.Tail(10)); got != 10 {
		t.Fatalf("tail = %d, want 10", got)
	}
	if got := len(slot.Tail(500)); got != 200 {
		t.Fatalf("oversized tail = %d, want 200", got)
	}
}
