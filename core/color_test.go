package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{1, 0, 0, 1}},
		{"00ff00", Color{0, 1, 0, 1}},
		{"#fff", Color{1, 1, 1, 1}},
		{" #000000 ", Color{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestParseHexRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gg0000", "red"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("ParseHex(%q): expected ErrInvalidHex, got %v", in, err)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, in := range []string{"#17172b", "#ffffff", "#b3fffe", "#fff7b3"} {
		if got := MustParseHex(in).Hex(); got != in {
			t.Errorf("Hex: expected %s, got %s", in, got)
		}
	}
}

func TestClockElapsed(t *testing.T) {
	start := time.Unix(100, 0)
	now := start
	c := &Clock{start: start, now: func() time.Time { return now }}

	if got := c.Elapsed(); got != 0 {
		t.Errorf("Elapsed at start: expected 0, got %v", got)
	}
	now = start.Add(1500 * time.Millisecond)
	if got := c.Elapsed(); got != 1.5 {
		t.Errorf("Elapsed: expected 1.5, got %v", got)
	}
}
