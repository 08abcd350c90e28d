package bus

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"tutorcore/internal/session"
)

func TestExportArtifacts(t *testing.T) {
	t.Parallel()

	ctx, err := session.New("дизайн", 3, "Инфографика", 2)
	if err != nil {
		t.Fatal(err)
	}
	b := New(ctx, nil)

	ctx.Expert().AppendAnswer(&session.Answer{
		Question: "как построить диаграмму",
		Intents:  []session.Intent{session.IntentHow},
		Detail:   session.DetailShort,
	})
	ctx.Motivator().Level = 2
	ctx.Organizer().Tasks = []*session.Task{{ID: "task_1"}}
	b.Publish(Event{Type: TypeInit, Source: "cli"})
	b.Publish(Event{Type: TypeStudentQuestion, Source: "cli", Payload: map[string]any{"text": "q"}})

	paths, err := b.Export(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// JSON: {meta, eventbus_log} with module snapshots.
	raw, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Meta ExportMeta          `json:"meta"`
		Log  []session.LogRecord `json:"eventbus_log"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Meta.SessionID != b.SessionID() {
		t.Fatalf("session id = %q", doc.Meta.SessionID)
	}
	if doc.Meta.Topic != "Инфографика" || doc.Meta.LessonNumber != 3 {
		t.Fatalf("meta = %+v", doc.Meta)
	}
	if doc.Meta.Modules.Expert.HistoryLen != 1 || doc.Meta.Modules.Expert.LastQuestion != "как построить диаграмму" {
		t.Fatalf("expert snapshot = %+v", doc.Meta.Modules.Expert)
	}
	if doc.Meta.Modules.Motivator.Level != 2 {
		t.Fatalf("motivator snapshot = %+v", doc.Meta.Modules.Motivator)
	}
	if doc.Meta.Modules.Organizer.TasksCount != 1 {
		t.Fatalf("organizer snapshot = %+v", doc.Meta.Modules.Organizer)
	}
	if len(doc.Log) != 2 {
		t.Fatalf("log len = %d, want 2", len(doc.Log))
	}

	// CSV: header plus one row per record, keys only.
	f, err := os.Open(paths.CSV)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("csv rows = %d, want header + 2", len(rows))
	}
	header := strings.Join(rows[0], ",")
	if header != "ts,ts_human,type,source,payload_keys" {
		t.Fatalf("header = %q", header)
	}
	if rows[2][2] != TypeStudentQuestion || rows[2][4] != "text" {
		t.Fatalf("row = %v", rows[2])
	}
	for _, row := range rows[1:] {
		if strings.Contains(strings.Join(row, ","), "секрет") {
			t.Fatal("payload values leaked into csv")
		}
	}
}
