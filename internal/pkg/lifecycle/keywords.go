package lifecycle

import (
	"strings"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

// Keyword lists driving priority escalation. A match against the urgent list
// wins outright; otherwise a high-list match sets high; no match leaves the
// given default. These are substring heuristics, not NLP.
var (
	urgentKeywords = []string{
		"urgent", "emergency", "immediately", "asap", "critical", "life threatening",
	}
	highKeywords = []string{
		"important", "serious", "help needed", "complaint", "refund", "failed payment", "not working",
	}
)

// EscalatePriority scans subject and body against the urgent and high
// keyword lists and returns the resulting priority together with the
// estimated response time in hours. The result is computed fresh from the
// text each call; it does not ratchet across saves.
func EscalatePriority(subject, body string, def models.Priority) (models.Priority, int) {
	text := strings.ToLower(subject + " " + body)

	priority := def
	for _, kw := range urgentKeywords {
		if strings.Contains(text, kw) {
			priority = models.PriorityUrgent
			return priority, models.EstimatedResponseHours[priority]
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(text, kw) {
			priority = models.PriorityHigh
			return priority, models.EstimatedResponseHours[priority]
		}
	}
	return priority, models.EstimatedResponseHours[priority]
}

// NeedsHumanEscalation reports whether a chat message should be flagged for
// a human agent, which happens exactly when it escalates to urgent.
func NeedsHumanEscalation(content string) bool {
	p, _ := EscalatePriority("", content, models.PriorityMedium)
	return p == models.PriorityUrgent
}

// ExtractKeywords returns the de-duplicated lower-cased tokens of text that
// are longer than three characters, in order of first appearance.
func ExtractKeywords(text string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, token := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if len(token) <= 3 || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}
	return keywords
}
