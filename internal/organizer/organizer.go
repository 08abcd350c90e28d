// Package organizer derives student tasks from the cartographer's
// subgoals: one task per subgoal, typed by the leading verb family.
package organizer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tutorcore/internal/session"
)

type taskTemplate struct {
	taskType session.TaskType
	hints    []string
	criteria []string
}

// Verb families deciding the task type. Unmatched subgoals get a basic
// text task.
var verbFamilies = []struct {
	verbs []string
	tmpl  taskTemplate
}{
	{
		verbs: []string{"объяснить", "описать", "перечислить"},
		tmpl: taskTemplate{
			taskType: session.TaskText,
			hints:    []string{"Используй термины из лекции", "Приведи простой пример"},
			criteria: []string{"Наличие ключевых понятий", "Связность объяснения"},
		},
	},
	{
		verbs: []string{"применить", "создать", "выполнить", "построить"},
		tmpl: taskTemplate{
			taskType: session.TaskAction,
			hints:    []string{"Вспомни алгоритм из базы знаний", "Сделай по шагам"},
			criteria: []string{"Завершённость работы", "Соответствие требованиям"},
		},
	},
	{
		verbs: []string{"оценить", "анализировать", "сравнить", "обосновать"},
		tmpl: taskTemplate{
			taskType: session.TaskReflection,
			hints:    []string{"Сравни два варианта", "Объясни свой выбор"},
			criteria: []string{"Обоснованность", "Логичность рассуждений"},
		},
	},
}

var defaultTemplate = taskTemplate{
	taskType: session.TaskText,
	hints:    []string{"Начни с базового объяснения"},
	criteria: []string{"Понятность ответа"},
}

// Organizer turns goals into tasks.
type Organizer struct {
	log *zap.Logger
}

// New creates an organizer.
func New(log *zap.Logger) *Organizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Organizer{log: log.Named("organizer")}
}

// Process derives tasks from the goals in the cartographer slot and stores
// them in the organizer slot. Goals must exist first.
func (o *Organizer) Process(ctx *session.Context) ([]*session.Task, error) {
	goals := ctx.Cartographer().Goals
	if goals == nil {
		return nil, fmt.Errorf("organizer: no goals; run the cartographer first")
	}
	tasks := GenerateTasks(goals)
	ctx.Organizer().Tasks = tasks
	o.log.Info("tasks derived", zap.Int("count", len(tasks)))
	return tasks, nil
}

// GenerateTasks builds one task per subgoal. Task ids are positional and
// stable across regeneration.
func GenerateTasks(goals *session.Goals) []*session.Task {
	tasks := make([]*session.Task, 0, len(goals.Subgoals))
	for i, subgoal := range goals.Subgoals {
		tmpl := pickTemplate(subgoal)
		tasks = append(tasks, &session.Task{
			ID:                 fmt.Sprintf("task_%d", i+1),
			Goal:               subgoal,
			Type:               tmpl.taskType,
			Instruction:        fmt.Sprintf("Задание: %s", subgoal),
			Hints:              tmpl.hints,
			EvaluationCriteria: tmpl.criteria,
			Status:             session.TaskNotStarted,
		})
	}
	return tasks
}

func pickTemplate(subgoal string) taskTemplate {
	s := strings.ToLower(subgoal)
	for _, fam := range verbFamilies {
		for _, v := range fam.verbs {
			if strings.Contains(s, v) {
				return fam.tmpl
			}
		}
	}
	return defaultTemplate
}
