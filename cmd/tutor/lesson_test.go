package main

import (
	"testing"

	"tutorcore/internal/bus"
	"tutorcore/internal/session"
)

func newTaskBus(t *testing.T) *bus.Bus {
	t.Helper()
	ctx, err := session.New("дизайн", 1, "Инфографика", 2)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	ctx.Organizer().Tasks = []*session.Task{
		{ID: "task_1", Status: session.TaskNotStarted, Instruction: "Сделай макет"},
		{ID: "task_2", Status: session.TaskNotStarted, Instruction: "Сравни варианты"},
	}
	return bus.New(ctx, nil)
}

func TestHandleTaskTransitions(t *testing.T) {
	b := newTaskBus(t)
	ctx := b.Context()

	handleTask(b, "/task start task_1")
	if got := ctx.FindTask("task_1").Status; got != session.TaskInProgress {
		t.Fatalf("after start: %s", got)
	}

	handleTask(b, "/task done task_1")
	task := ctx.FindTask("task_1")
	if task.Status != session.TaskCompleted || !task.IsCompleted {
		t.Fatalf("after done: %+v", task)
	}

	handleTask(b, "/task review task_2 мой ответ по макету")
	task = ctx.FindTask("task_2")
	if task.Status != session.TaskNeedsReview || task.StudentAnswer != "мой ответ по макету" {
		t.Fatalf("after review: %+v", task)
	}
}

func TestHandleTaskErrorsBecomeWarnings(t *testing.T) {
	b := newTaskBus(t)

	var warned []bus.Event
	b.Subscribe(bus.TypeWarning, func(ev bus.Event) { warned = append(warned, ev) })

	handleTask(b, "/task start missing")
	if len(warned) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warned))
	}
	if warned[0].String("msg") == "" {
		t.Fatal("warning must carry the validation message")
	}
	// The failed operation leaves every task untouched.
	for _, task := range b.Context().Organizer().Tasks {
		if task.Status != session.TaskNotStarted {
			t.Fatalf("task %s status = %s", task.ID, task.Status)
		}
	}
}
