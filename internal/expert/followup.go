package expert

import (
	"fmt"
	"regexp"
	"strings"

	"tutorcore/internal/session"
)

const followupSnippetLimit = 200

var (
	followupLead    = regexp.MustCompile(`^(?:а|и)(?:[^\p{L}\p{N}]|$)`)
	followupMarkers = wordAlt("подробнее", "поясни", "уточни", "разверни")
)

// isFollowup reports whether the question continues the previous exchange:
// very short utterances, conjunction-led ones, and explicit elaboration
// requests all count.
func isFollowup(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if len(strings.Fields(q)) <= 4 {
		return true
	}
	if followupLead.MatchString(q) {
		return true
	}
	return followupMarkers.MatchString(q)
}

// augmentQuery builds the retrieval query for a follow-up: the previous
// question, the new one, and a snippet of the previous answer as context.
// It returns the query and the question being replied to.
func augmentQuery(question string, last *session.Answer) (string, string) {
	snippet := []rune(last.Answer)
	if len(snippet) > followupSnippetLimit {
		snippet = snippet[:followupSnippetLimit]
	}
	return fmt.Sprintf("%s. %s. Контекст: %s", last.Question, question, string(snippet)), last.Question
}
