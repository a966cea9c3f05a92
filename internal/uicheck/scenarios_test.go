package uicheck

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestReturnToFirstTabRecordsFailure(t *testing.T) {
	// A closed session errors on every action, standing in for a page
	// where the tab button cannot be clicked.
	s := &Session{closed: true}
	r := NewReport("demo-walkthrough")

	returnToFirstTab(s, r)

	if !r.Failed() {
		t.Fatal("Expected a failed click to fail the report")
	}
	if len(r.Steps) != 1 || r.Steps[0].Name != "return to first tab" {
		t.Fatalf("Expected a single 'return to first tab' step, got %+v", r.Steps)
	}
	if !strings.Contains(r.Steps[0].Detail, "not clickable") {
		t.Errorf("Expected the step detail to carry the click error, got %q", r.Steps[0].Detail)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{
			name:  "short string unchanged",
			input: "short",
			n:     10,
			want:  "short",
		},
		{
			name:  "long string cut with ellipsis",
			input: "a rather long console message",
			n:     13,
			want:  "a rather long...",
		},
		{
			name:  "multi-byte runes stay intact",
			input: "mRS 0–2 primär endpunkt",
			n:     8,
			want:  "mRS 0–2 ...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.input, tt.n)
			}
		})
	}
}
