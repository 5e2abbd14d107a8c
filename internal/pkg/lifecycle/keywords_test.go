package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

func TestEscalatePriority(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		body      string
		want      models.Priority
		wantHours int
	}{
		{"urgent in body", "", "this is urgent please respond", models.PriorityUrgent, 2},
		{"urgent in subject", "EMERGENCY at the shelter", "details follow", models.PriorityUrgent, 2},
		{"urgent beats high", "complaint", "urgent complaint about my refund", models.PriorityUrgent, 2},
		{"high keyword", "", "I have a complaint about the event", models.PriorityHigh, 8},
		{"refund is high", "refund request", "please process", models.PriorityHigh, 8},
		{"no keywords stays default", "hello", "just saying thanks for the work you do", models.PriorityMedium, 24},
		{"case insensitive", "", "URGENT: water supply", models.PriorityUrgent, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hours := EscalatePriority(tt.subject, tt.body, models.PriorityMedium)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantHours, hours)
		})
	}
}

func TestEscalatePriorityKeepsLowDefault(t *testing.T) {
	got, hours := EscalatePriority("newsletter", "please add me to the list", models.PriorityLow)
	assert.Equal(t, models.PriorityLow, got)
	assert.Equal(t, 72, hours)
}

func TestNeedsHumanEscalation(t *testing.T) {
	assert.True(t, NeedsHumanEscalation("I need help immediately"))
	assert.False(t, NeedsHumanEscalation("what are your office hours"))
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("How can I donate blankets? Donate before winter!")
	assert.Equal(t, []string{"donate", "blankets", "before", "winter"}, got)
}

func TestExtractKeywordsSkipsShortTokens(t *testing.T) {
	assert.Nil(t, ExtractKeywords("hi it is me"))
}
