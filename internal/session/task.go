package session

import (
	"fmt"
	"time"
)

// TaskType classifies a derived task by the kind of student work it asks for.
type TaskType string

const (
	TaskText       TaskType = "text"
	TaskAction     TaskType = "action"
	TaskReflection TaskType = "reflection"
)

// TaskStatus is the lifecycle status of a task.
type TaskStatus string

const (
	TaskNotStarted  TaskStatus = "not_started"
	TaskInProgress  TaskStatus = "in_progress"
	TaskCompleted   TaskStatus = "completed"
	TaskNeedsReview TaskStatus = "needs_review"
)

// ValidTaskStatus reports whether s is one of the allowed statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskCompleted, TaskNeedsReview:
		return true
	}
	return false
}

// Task is one unit of student work derived from a subgoal.
type Task struct {
	ID                 string     `json:"id"`
	Goal               string     `json:"goal"`
	Type               TaskType   `json:"type"`
	Instruction        string     `json:"instruction"`
	Hints              []string   `json:"hints"`
	EvaluationCriteria []string   `json:"evaluation_criteria"`
	StartTime          *time.Time `json:"start_time,omitempty"`
	Status             TaskStatus `json:"status"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	DurationSec        float64    `json:"duration_sec,omitempty"`
	IsCompleted        bool       `json:"is_completed"`
	StudentAnswer      string     `json:"student_answer,omitempty"`
}

// FindTask looks a task up by id in the organizer slot.
func (c *Context) FindTask(id string) *Task {
	for _, t := range c.Organizer().Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// StartTask stamps a task as begun.
func (c *Context) StartTask(id string) error {
	t := c.FindTask(id)
	if t == nil {
		return fmt.Errorf("task %q not found", id)
	}
	now := time.Now()
	t.StartTime = &now
	t.Status = TaskInProgress
	t.IsCompleted = false
	return nil
}

// CompleteTask stamps a task as done, computing its duration when the task
// was started through StartTask.
func (c *Context) CompleteTask(id string) error {
	t := c.FindTask(id)
	if t == nil {
		return fmt.Errorf("task %q not found", id)
	}
	now := time.Now()
	t.EndTime = &now
	if t.StartTime != nil {
		t.DurationSec = now.Sub(*t.StartTime).Seconds()
	}
	t.Status = TaskCompleted
	t.IsCompleted = true
	return nil
}

// UpdateTaskStatus sets a task status, optionally recording the student's
// answer. Unknown statuses and ids are validation errors; the caller turns
// them into warning events.
func (c *Context) UpdateTaskStatus(id string, status TaskStatus, answer string) error {
	if !ValidTaskStatus(status) {
		return fmt.Errorf("invalid task status %q", status)
	}
	t := c.FindTask(id)
	if t == nil {
		return fmt.Errorf("task %q not found", id)
	}
	t.Status = status
	if answer != "" {
		t.StudentAnswer = answer
	}
	if status == TaskCompleted {
		t.IsCompleted = true
	}
	return nil
}

// LastTaskStatus returns the first terminal status (completed or
// needs_review) found among tasks, or "" when none reached one.
func (c *Context) LastTaskStatus() TaskStatus {
	for _, t := range c.Organizer().Tasks {
		if t.Status == TaskCompleted || t.Status == TaskNeedsReview {
			return t.Status
		}
	}
	return ""
}
