package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparisonText(t *testing.T) {
	n := New(0)

	tests := []struct {
		name     string
		subject  string
		question string
		want     string
		usable   bool
	}{
		{
			name:     "subject_and_question",
			subject:  "Cannot log in",
			question: "I keep getting an invalid password error on the app.",
			want:     "Cannot log in I keep getting an invalid password error on the app.",
			usable:   true,
		},
		{
			name:     "empty_everything",
			subject:  "",
			question: "   ",
			want:     EmptySentinel,
			usable:   false,
		},
		{
			name:     "auto_reply_filtered",
			subject:  "Automatic reply: your request",
			question: "I am out of office until Monday.",
			want:     EmptySentinel,
			usable:   false,
		},
		{
			name:     "confirmation_only",
			subject:  "",
			question: "Thank you!",
			want:     EmptySentinel,
			usable:   false,
		},
		{
			name:     "short_body_no_subject",
			subject:  "",
			question: "help",
			want:     EmptySentinel,
			usable:   false,
		},
		{
			name:     "whitespace_collapsed",
			subject:  "QR  tag \n lost",
			question: "My tag\t\tstopped working",
			want:     "QR tag lost My tag stopped working",
			usable:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, usable := n.ComparisonText(tt.subject, tt.question)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.usable, usable)
		})
	}
}

func TestComparisonTextTruncation(t *testing.T) {
	n := New(0)
	long := strings.Repeat("broken charging cable ", 60)
	got, usable := n.ComparisonText("Charger issue", long)
	assert.True(t, usable)
	assert.LessOrEqual(t, len(got), DefaultMaxChars)
}

func TestComparisonTextTruncationMultibyte(t *testing.T) {
	n := New(20)
	got, usable := n.ComparisonText("", strings.Repeat("ladestation kaputt é", 10))
	assert.True(t, usable)
	assert.LessOrEqual(t, len(got), 20)
	// Never split a rune in half.
	for _, r := range got {
		assert.NotEqual(t, '�', r)
	}
}
