package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tutorcore/internal/bus"
	"tutorcore/internal/cartographer"
	"tutorcore/internal/conductor"
	"tutorcore/internal/empathy"
	"tutorcore/internal/expert"
	"tutorcore/internal/knowledge"
	"tutorcore/internal/motivator"
	"tutorcore/internal/organizer"
	"tutorcore/internal/session"
	"tutorcore/internal/tts"
)

const defaultReflectionQuestion = "Давай подведём итог: что получилось хорошо, а что было сложно?"

// runLesson wires the full session and drives the interactive chat loop.
func runLesson(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := session.New(cfg.Session.Discipline, cfg.Session.LessonNumber, cfg.Session.Topic, cfg.Session.StudentLevel)
	if err != nil {
		return err
	}
	b := bus.New(sess, logger)

	index := knowledge.NewIndex(logger)
	docs, err := knowledge.LoadDir(runCtx, cfg.Knowledge.Dir, logger)
	if err != nil {
		return err
	}
	index.SetDocuments(docs)

	cart := cartographer.New(logger)
	cart.SetDocuments(docs)
	org := organizer.New(logger)
	mot := motivator.New(cfg.Motivator, logger)

	pipeline := expert.New(index, empathy.NewTuner(logger), cfg.Expert, logger)
	pipeline.Attach(b)
	mot.Attach(b)
	if cfg.TTS.Enabled {
		sess.TTS().Dir = cfg.TTS.CacheDir
		svc := tts.NewService(tts.NewAdapter(cfg.TTS.Engine), cfg.TTS.Voice, logger)
		svc.Attach(b)
	}
	cond := conductor.New(b, cart, org, mot, cfg.Conductor.MinWorkTurns, logger)
	cond.Attach()
	attachPrinters(b)

	var watch <-chan struct{}
	if cfg.Knowledge.Watch {
		w := knowledge.NewWatcher(cfg.Knowledge.Dir, logger)
		if err := w.Start(runCtx); err != nil {
			logger.Warn("document watch disabled", zap.Error(err))
		} else {
			watch = w.Changed()
		}
	}

	fmt.Println(titleStyle.Render("Занятие: " + sess.Topic))
	b.Publish(bus.Event{Type: bus.TypeInit, Source: "cli"})
	printPlan(sess)
	fmt.Println(stageStyle.Render("Напиши вопрос по теме. Команды: /task, /log, /restart, /restart full, выход."))

	lines := readLines(runCtx)
loop:
	for {
		fmt.Print(promptStyle.Render("вы> "))
		select {
		case <-runCtx.Done():
			fmt.Println()
			break loop
		case <-watch:
			docs, err := knowledge.LoadDir(runCtx, cfg.Knowledge.Dir, logger)
			if err != nil {
				logger.Warn("document reload failed", zap.Error(err))
				continue
			}
			index.SetDocuments(docs)
			cart.SetDocuments(docs)
			fmt.Println()
			fmt.Println(stageStyle.Render(fmt.Sprintf("· база знаний обновлена (%d документов)", len(docs))))
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if done := handleLine(b, cond, line); done {
				break loop
			}
		}
	}

	paths, err := b.Export(cfg.Export.Dir)
	if err != nil {
		return err
	}
	fmt.Println(stageStyle.Render("лог занятия: " + paths.JSON))
	return nil
}

// handleLine routes one line of input. It reports true when the student
// asked to leave.
func handleLine(b *bus.Bus, cond *conductor.Conductor, line string) bool {
	text := strings.TrimSpace(line)
	switch strings.ToLower(text) {
	case "":
		return false
	case "выход", "exit", "quit":
		return true
	case "/restart":
		b.Publish(bus.Event{Type: bus.TypeRestart, Source: "cli", Payload: map[string]any{"mode": bus.RestartStage}})
		return false
	case "/restart full":
		b.Publish(bus.Event{Type: bus.TypeRestart, Source: "cli", Payload: map[string]any{"mode": bus.RestartFull}})
		return false
	case "/log":
		for _, rec := range b.Context().EventLog().Tail(10) {
			fmt.Println(stageStyle.Render(fmt.Sprintf("%s  %-18s %-10s %s",
				rec.TS.Format("15:04:05"), rec.Type, rec.Source, strings.Join(rec.PayloadKeys, ","))))
		}
		return false
	}
	if strings.HasPrefix(text, "/task") {
		handleTask(b, text)
		return false
	}

	evType := bus.TypeStudentQuestion
	if cond.Stage() == session.StageReflection {
		evType = bus.TypeStudentReflection
	}
	b.Publish(bus.Event{Type: evType, Source: "cli", Payload: map[string]any{"text": text}})

	if cond.Stage() == session.StageFinished {
		fmt.Println(stageStyle.Render("Занятие завершено. Напиши /restart full, чтобы начать заново, или выход."))
	}
	return false
}

// handleTask drives the task status operations from chat commands:
// "/task" lists, "/task start|done <id>" stamps, "/task review <id>
// [ответ]" sends the task for review with the student's answer.
func handleTask(b *bus.Bus, line string) {
	ctx := b.Context()
	fields := strings.Fields(line)
	if len(fields) == 1 {
		tasks := ctx.Organizer().Tasks
		if len(tasks) == 0 {
			fmt.Println(stageStyle.Render("заданий пока нет"))
			return
		}
		for _, task := range tasks {
			fmt.Println(tutorStyle.Render(fmt.Sprintf("  %s [%s] %s", task.ID, task.Status, task.Instruction)))
		}
		return
	}
	if len(fields) < 3 {
		fmt.Println(warnStyle.Render("формат: /task start|done|review <id> [ответ]"))
		return
	}

	verb, id := fields[1], fields[2]
	var err error
	switch verb {
	case "start":
		err = ctx.StartTask(id)
	case "done":
		err = ctx.CompleteTask(id)
	case "review":
		err = ctx.UpdateTaskStatus(id, session.TaskNeedsReview, strings.Join(fields[3:], " "))
	default:
		fmt.Println(warnStyle.Render("неизвестная операция: " + verb))
		return
	}
	if err != nil {
		b.Warn("cli", err.Error())
		return
	}
	fmt.Println(stageStyle.Render(fmt.Sprintf("· задание %s → %s", id, ctx.FindTask(id).Status)))
}

// attachPrinters renders bus traffic for the terminal.
func attachPrinters(b *bus.Bus) {
	b.Subscribe(bus.TypeStageChanged, func(ev bus.Event) {
		fmt.Println(stageStyle.Render("· этап: " + ev.String("stage")))
	})
	b.Subscribe(bus.TypeExpertAnswer, func(ev bus.Event) {
		a, _ := ev.Payload["answer"].(*session.Answer)
		if a == nil {
			return
		}
		if a.IsReset() {
			fmt.Println(stageStyle.Render("· " + a.Message))
			return
		}
		text := a.AnswerEmpathic
		if text == "" {
			text = a.Answer
		}
		fmt.Println(tutorStyle.Render(text))
		for _, step := range a.NextSteps {
			fmt.Println(tutorStyle.Render("  → " + step))
		}
	})
	b.Subscribe(bus.TypeAskReflection, func(ev bus.Event) {
		q := defaultReflectionQuestion
		if last := b.Context().Motivator().Last; last != nil && last.ReflectionQuestion != "" {
			q = last.ReflectionQuestion
		}
		fmt.Println(tutorStyle.Render(q))
	})
	b.Subscribe(bus.TypeLessonFinished, func(ev bus.Event) {
		s, _ := ev.Payload["summary"].(*session.Summary)
		if s == nil {
			return
		}
		fmt.Println(titleStyle.Render("Итоги занятия"))
		fmt.Printf("  тема: %s\n  ответов: %d\n  рабочих ходов: %d\n  уровень мотивации: %d\n",
			s.Topic, s.AnswersCount, s.WorkTurns, s.MotivationLevel)
	})
	b.Subscribe(bus.TypeTTSDone, func(ev bus.Event) {
		fmt.Println(stageStyle.Render("· аудио: " + ev.String("audio")))
	})
	b.Subscribe(bus.TypeTTSFailed, func(ev bus.Event) {
		fmt.Println(warnStyle.Render("озвучка недоступна: " + ev.String("reason")))
	})
	b.Subscribe(bus.TypeWarning, func(ev bus.Event) {
		fmt.Println(warnStyle.Render(ev.String("msg")))
	})
	b.Subscribe(bus.TypeError, func(ev bus.Event) {
		fmt.Println(errStyle.Render("ошибка: " + ev.String("reason")))
	})
}

// printPlan shows the lesson goals and tasks produced during init.
func printPlan(sess *session.Context) {
	if goals := sess.Cartographer().Goals; goals != nil {
		fmt.Println(tutorStyle.Render(goals.MainGoal))
		for _, sg := range goals.Subgoals {
			fmt.Println(tutorStyle.Render("  • " + sg))
		}
	}
	tasks := sess.Organizer().Tasks
	if len(tasks) == 0 {
		return
	}
	fmt.Println(tutorStyle.Render("Задания:"))
	for _, task := range tasks {
		fmt.Println(tutorStyle.Render(fmt.Sprintf("  %s [%s] %s", task.ID, task.Type, task.Instruction)))
	}
}

// readLines feeds stdin lines into a channel so the chat loop can also
// react to watcher and shutdown signals.
func readLines(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
