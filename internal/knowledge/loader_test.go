package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDirMissingFolderIsNotAnError(t *testing.T) {
	t.Parallel()

	docs, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if docs != nil {
		t.Fatalf("docs = %v, want nil", docs)
	}
}

func TestLoadDirFiltersAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"b_charts.txt":       "диаграммы",
		"a_colors.md":        "палитра",
		"notes.pdf":          "ignored",
		"nested/c_fonts.txt": "шрифты",
		"nested/image.png":   "ignored",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := LoadDir(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []Document{
		{Name: "a_colors.md", Text: "палитра"},
		{Name: "b_charts.txt", Text: "диаграммы"},
		{Name: "c_fonts.txt", Text: "шрифты"},
	}
	if diff := cmp.Diff(want, docs); diff != "" {
		t.Fatalf("documents mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDirHonorsCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadDir(ctx, dir, nil); err == nil {
		t.Fatal("cancelled context must abort the load")
	}
}

func TestWatcherSignalsAfterWrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, nil)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("текст"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal after write")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, nil)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "burst.txt")
		if err := os.WriteFile(path, []byte{byte('0' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal after burst")
	}
	// The burst settles into a single pending signal at most.
	select {
	case <-w.Changed():
		t.Fatal("burst produced more than one buffered signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err == nil {
		t.Fatal("watching a missing directory must fail")
	}
}
