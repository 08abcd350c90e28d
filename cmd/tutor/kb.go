package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutorcore/internal/knowledge"
)

const kbSnippetLimit = 160

// runKB ranks the knowledge base against a query and prints the results.
func runKB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	docs, err := knowledge.LoadDir(context.Background(), cfg.Knowledge.Dir, logger)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println(warnStyle.Render("база знаний пуста: " + cfg.Knowledge.Dir))
		return nil
	}

	index := knowledge.NewIndex(logger)
	index.SetDocuments(docs)

	query := strings.Join(args, " ")
	results := index.Search(query, kbTopK)
	for i, r := range results {
		fmt.Printf("%d. %s (%.3f)\n", i+1, titleStyle.Render(r.Source), r.Score)
		fmt.Println("   " + snippet(r.Text))
	}
	return nil
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= kbSnippetLimit {
		return text
	}
	return string(runes[:kbSnippetLimit]) + "…"
}
