package session

import "testing"

func taskCtx(t *testing.T) *Context {
	t.Helper()
	ctx, err := New("дизайн", 1, "Тема", 1)
	if err != nil {
		t.Fatal(err)
	}
	ctx.Organizer().Tasks = []*Task{
		{ID: "task_1", Status: TaskNotStarted},
		{ID: "task_2", Status: TaskNotStarted},
	}
	return ctx
}

func TestStartAndCompleteTask(t *testing.T) {
	t.Parallel()

	ctx := taskCtx(t)
	if err := ctx.StartTask("task_1"); err != nil {
		t.Fatal(err)
	}
	task := ctx.FindTask("task_1")
	if task.Status != TaskInProgress || task.StartTime == nil {
		t.Fatalf("after start: %+v", task)
	}

	if err := ctx.CompleteTask("task_1"); err != nil {
		t.Fatal(err)
	}
	if task.Status != TaskCompleted || !task.IsCompleted || task.EndTime == nil {
		t.Fatalf("after complete: %+v", task)
	}
	if task.DurationSec < 0 {
		t.Fatalf("duration = %v", task.DurationSec)
	}
}

func TestUpdateTaskStatusValidation(t *testing.T) {
	t.Parallel()

	ctx := taskCtx(t)
	if err := ctx.UpdateTaskStatus("task_1", "bogus", ""); err == nil {
		t.Fatal("invalid status must error")
	}
	if err := ctx.UpdateTaskStatus("missing", TaskCompleted, ""); err == nil {
		t.Fatal("unknown id must error")
	}
	// Failed updates leave the task untouched.
	if got := ctx.FindTask("task_1").Status; got != TaskNotStarted {
		t.Fatalf("status = %s, want not_started", got)
	}

	if err := ctx.UpdateTaskStatus("task_2", TaskNeedsReview, "мой ответ"); err != nil {
		t.Fatal(err)
	}
	task := ctx.FindTask("task_2")
	if task.Status != TaskNeedsReview || task.StudentAnswer != "мой ответ" {
		t.Fatalf("after update: %+v", task)
	}
}

func TestLastTaskStatus(t *testing.T) {
	t.Parallel()

	ctx := taskCtx(t)
	if got := ctx.LastTaskStatus(); got != "" {
		t.Fatalf("status = %q, want empty", got)
	}
	ctx.FindTask("task_2").Status = TaskNeedsReview
	if got := ctx.LastTaskStatus(); got != TaskNeedsReview {
		t.Fatalf("status = %s", got)
	}
}

func TestAnswerIsReset(t *testing.T) {
	t.Parallel()

	if (&Answer{Status: StatusDialogCleared}).IsReset() == false {
		t.Fatal("reset envelope not detected")
	}
	if (&Answer{}).IsReset() {
		t.Fatal("plain answer misdetected as reset")
	}
}
