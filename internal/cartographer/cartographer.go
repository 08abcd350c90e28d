// Package cartographer derives the lesson structure: pedagogical goals for
// the topic, knowledge-type extraction from the loaded documents, and a
// human-readable text map of both.
package cartographer

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"tutorcore/internal/knowledge"
	"tutorcore/internal/session"
)

// knowledgeTypeCap bounds each extracted category.
const knowledgeTypeCap = 5

// Trigger word lists for sentence classification. A sentence matches the
// first category whose trigger it contains.
var (
	FactTriggers      = []string{"это", "называется", "является", "определяется как"}
	ProcedureTriggers = []string{"сделайте", "выполните", "используйте", "шаг", "процесс", "алгоритм", "нужно"}
	MetaTriggers      = []string{"оцените", "сравните", "выберите", "зачем", "почему", "что лучше", "преимущество"}
)

var sentenceSplit = regexp.MustCompile(`[.!?]`)

// Cartographer builds goals and the knowledge map from loaded documents.
type Cartographer struct {
	log  *zap.Logger
	docs []knowledge.Document
}

// New creates a cartographer.
func New(log *zap.Logger) *Cartographer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cartographer{log: log.Named("cartographer")}
}

// SetDocuments replaces the document corpus the map is built from.
func (c *Cartographer) SetDocuments(docs []knowledge.Document) { c.docs = docs }

// Process fills the cartographer slot: goals, knowledge types and the text
// map. An empty corpus is an error; the conductor falls back to the basic
// goal set in that case.
func (c *Cartographer) Process(ctx *session.Context) (*session.Goals, error) {
	if len(c.docs) == 0 {
		return nil, fmt.Errorf("cartographer: no documents loaded")
	}
	goals := GenerateGoals(ctx.Topic)
	kt := ExtractKnowledgeTypes(c.docs)

	slot := ctx.Cartographer()
	slot.Goals = goals
	slot.KnowledgeTypes = kt
	slot.TextMap = GenerateTextMap(goals, kt)
	slot.DocCount = len(c.docs)

	c.log.Info("lesson map built",
		zap.String("topic", ctx.Topic),
		zap.Int("docs", len(c.docs)),
		zap.Int("subgoals", len(goals.Subgoals)))
	return goals, nil
}

// GenerateGoals builds the comprehension → application → evaluation goal
// ladder for a topic.
func GenerateGoals(topic string) *session.Goals {
	return &session.Goals{
		MainGoal: fmt.Sprintf("Изучить тему: %s", topic),
		Subgoals: []string{
			fmt.Sprintf("Объяснить ключевые понятия, связанные с темой «%s»", topic),
			"Применить знания для выполнения задания по теме",
			"Оценить примеры/результаты на основе полученных знаний",
		},
		Level: "понимание → применение → оценка",
	}
}

// ExtractKnowledgeTypes segments documents into sentences and sorts them
// into facts, procedures and meta-knowledge by trigger words, keeping at
// most five of each.
func ExtractKnowledgeTypes(docs []knowledge.Document) *session.KnowledgeTypes {
	kt := &session.KnowledgeTypes{}
	for _, doc := range docs {
		for _, sent := range sentenceSplit.Split(doc.Text, -1) {
			trimmed := strings.TrimSpace(sent)
			if trimmed == "" {
				continue
			}
			s := strings.ToLower(trimmed)
			switch {
			case containsAny(s, FactTriggers):
				kt.Facts = appendCapped(kt.Facts, trimmed)
			case containsAny(s, ProcedureTriggers):
				kt.Procedures = appendCapped(kt.Procedures, trimmed)
			case containsAny(s, MetaTriggers):
				kt.Meta = appendCapped(kt.Meta, trimmed)
			}
		}
	}
	return kt
}

// GenerateTextMap renders the goals and knowledge types as a readable
// lesson map.
func GenerateTextMap(goals *session.Goals, kt *session.KnowledgeTypes) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Главная цель занятия: %s\n", goals.MainGoal)
	b.WriteString("\nПодцели:\n")
	for i, g := range goals.Subgoals {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, g)
	}
	fmt.Fprintf(&b, "\nУровень сложности: %s\n", goals.Level)

	b.WriteString("\nТипы знаний:\n")
	writeCategory(&b, "Факты", kt.Facts)
	writeCategory(&b, "Процедуры", kt.Procedures)
	writeCategory(&b, "Мета-знания", kt.Meta)
	return strings.TrimRight(b.String(), "\n")
}

func writeCategory(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", label)
	for _, it := range items {
		fmt.Fprintf(b, "    - %s\n", it)
	}
}

func containsAny(s string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func appendCapped(list []string, s string) []string {
	if len(list) >= knowledgeTypeCap {
		return list
	}
	return append(list, s)
}
