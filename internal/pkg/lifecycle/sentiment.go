package lifecycle

import (
	"strings"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

// Word lists for the crude sentiment count. Deliberately small; the chat
// service exposes this behind an interface so a real classifier can replace
// it without touching call sites.
var (
	positiveWords = []string{
		"thank", "great", "good", "happy", "appreciate", "wonderful", "excellent", "love", "helpful",
	}
	negativeWords = []string{
		"bad", "angry", "terrible", "disappointed", "worst", "awful", "refund", "complaint", "hate", "frustrated",
	}
)

// ClassifySentiment counts substring occurrences of the positive and
// negative word lists in the lower-cased text. More positive hits means
// positive, more negative means negative, ties are neutral.
func ClassifySentiment(text string) models.Sentiment {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}

	switch {
	case pos > neg:
		return models.SentimentPositive
	case neg > pos:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
