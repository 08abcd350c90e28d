package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// loadConcurrency bounds parallel file reads.
const loadConcurrency = 4

// LoadDir reads every .txt and .md file under dir (recursively) and
// returns them sorted by name. A missing directory is not an error: the
// session degrades to the fixed apology answer.
func LoadDir(ctx context.Context, dir string, log *zap.Logger) ([]Document, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Warn("knowledge folder not found", zap.String("dir", dir))
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	docs := make([]Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			docs[i] = Document{Name: filepath.Base(path), Text: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("loaded documents", zap.String("dir", dir), zap.Int("count", len(docs)))
	return docs, nil
}
