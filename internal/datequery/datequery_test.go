package datequery

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	p := New()

	tests := []struct {
		text string
		want time.Time
	}{
		{"2024-04-01", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-04-01T09:30", time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-04-01T09:30:00Z", time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := p.Parse(tt.text, base)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseNaturalLanguage(t *testing.T) {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	got, err := New().Parse("tomorrow", base)
	if err != nil {
		t.Fatalf("Parse(tomorrow): %v", err)
	}
	if y, m, d := got.Date(); y != 2024 || m != time.March || d != 16 {
		t.Fatalf("tomorrow = %v, want 2024-03-16", got)
	}
}

func TestParseNoDate(t *testing.T) {
	p := New()
	for _, text := range []string{"", "   ", "purple elephants"} {
		if _, err := p.Parse(text, time.Now()); !errors.Is(err, ErrNoDate) {
			t.Errorf("Parse(%q) err = %v, want ErrNoDate", text, err)
		}
	}
}
