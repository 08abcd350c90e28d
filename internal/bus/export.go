package bus

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tutorcore/internal/session"
)

// ExportPaths names the artifacts written by Export.
type ExportPaths struct {
	JSON string `json:"json"`
	CSV  string `json:"csv"`
}

// ExportMeta is the diagnostic header of the JSON artifact.
type ExportMeta struct {
	SessionID    string         `json:"session_id"`
	SavedAtTS    float64        `json:"saved_at_ts"`
	SavedAt      string         `json:"saved_at"`
	Discipline   string         `json:"discipline"`
	Topic        string         `json:"topic"`
	LessonNumber int            `json:"lesson_number"`
	Modules      ModuleSnapshot `json:"modules"`
}

// ModuleSnapshot is a per-module digest included in the export meta.
type ModuleSnapshot struct {
	Expert struct {
		HistoryLen   int              `json:"history_len"`
		LastQuestion string           `json:"last_question,omitempty"`
		LastIntents  []session.Intent `json:"last_intents,omitempty"`
		LastDetail   session.Detail   `json:"last_detail,omitempty"`
	} `json:"Expert"`
	Motivator struct {
		Level     int                         `json:"level"`
		Last      *session.MotivationSnapshot `json:"last,omitempty"`
		DropCount int                         `json:"drop_count"`
	} `json:"Motivator"`
	Organizer struct {
		TasksCount int `json:"tasks_count"`
	} `json:"Organizer"`
	Conductor struct {
		Stage     session.Stage    `json:"stage"`
		WorkTurns int              `json:"work_turns"`
		Summary   *session.Summary `json:"summary,omitempty"`
	} `json:"Conductor"`
}

type exportDoc struct {
	Meta ExportMeta          `json:"meta"`
	Log  []session.LogRecord `json:"eventbus_log"`
}

// Export writes the JSON and CSV log artifacts into dir, one pair per
// call, named after the session id and the export time.
func (b *Bus) Export(dir string) (ExportPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportPaths{}, fmt.Errorf("export dir: %w", err)
	}
	stamp := time.Now().Unix()
	paths := ExportPaths{
		JSON: filepath.Join(dir, fmt.Sprintf("logs_%s_%d.json", b.SessionID(), stamp)),
		CSV:  filepath.Join(dir, fmt.Sprintf("logs_%s_%d.csv", b.SessionID(), stamp)),
	}
	if err := b.ExportJSON(paths.JSON); err != nil {
		return ExportPaths{}, err
	}
	if err := b.ExportCSV(paths.CSV); err != nil {
		return ExportPaths{}, err
	}
	return paths, nil
}

// ExportJSON writes {meta, eventbus_log} to path.
func (b *Bus) ExportJSON(path string) error {
	doc := exportDoc{
		Meta: b.meta(),
		Log:  b.ctx.EventLog().Log,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}

// ExportCSV writes one row per log record: ts, ts_human, type, source,
// payload_keys.
func (b *Bus) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ts", "ts_human", "type", "source", "payload_keys"}); err != nil {
		return err
	}
	for _, rec := range b.ctx.EventLog().Log {
		row := []string{
			strconv.FormatFloat(float64(rec.TS.UnixNano())/1e9, 'f', 6, 64),
			rec.TS.Format("2006-01-02 15:04:05"),
			rec.Type,
			rec.Source,
			strings.Join(rec.PayloadKeys, ","),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (b *Bus) meta() ExportMeta {
	ctx := b.ctx
	now := time.Now()
	meta := ExportMeta{
		SessionID:    b.SessionID(),
		SavedAtTS:    float64(now.UnixNano()) / 1e9,
		SavedAt:      now.Format("2006-01-02 15:04:05"),
		Discipline:   ctx.Discipline,
		Topic:        ctx.Topic,
		LessonNumber: ctx.LessonNumber,
	}

	expert := ctx.Expert()
	meta.Modules.Expert.HistoryLen = len(expert.DialogHistory)
	if last := expert.LastAnswer; last != nil {
		meta.Modules.Expert.LastQuestion = last.Question
		meta.Modules.Expert.LastIntents = last.Intents
		meta.Modules.Expert.LastDetail = last.Detail
	}

	mot := ctx.Motivator()
	meta.Modules.Motivator.Level = mot.Level
	meta.Modules.Motivator.Last = mot.Last
	meta.Modules.Motivator.DropCount = mot.DropCount

	meta.Modules.Organizer.TasksCount = len(ctx.Organizer().Tasks)

	cond := ctx.Conductor()
	meta.Modules.Conductor.Stage = cond.Stage
	meta.Modules.Conductor.WorkTurns = cond.WorkTurns
	meta.Modules.Conductor.Summary = cond.Summary

	return meta
}
