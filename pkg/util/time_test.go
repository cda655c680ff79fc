package util

import (
	"math"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"45.5", 45.5},
		{"1:05", 65},
		{"01:12.250", 72.25},
		{"1:02:03", 3723},
		{" 10 ", 10},
	}
	for _, tt := range tests {
		d, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if math.Abs(d.Seconds()-tt.want) > 1e-9 {
			t.Errorf("ParseTimestamp(%q) = %v, want %vs", tt.in, d, tt.want)
		}
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1:2:3:4", "1:xx"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestParseFrameRate(t *testing.T) {
	if got := ParseFrameRate("30/1"); got != 30 {
		t.Errorf("ParseFrameRate(30/1) = %v", got)
	}
	if got := ParseFrameRate("30000/1001"); math.Abs(got-29.97) > 0.01 {
		t.Errorf("ParseFrameRate(30000/1001) = %v", got)
	}
	if got := ParseFrameRate("bogus"); got != 0 {
		t.Errorf("ParseFrameRate(bogus) = %v", got)
	}
	if got := ParseFrameRate("30/0"); got != 0 {
		t.Errorf("ParseFrameRate(30/0) = %v", got)
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	d, err := ParseTimestamp("00:01:30.500")
	if err != nil {
		t.Fatal(err)
	}
	if d != 90500*time.Millisecond {
		t.Errorf("got %v", d)
	}
}
