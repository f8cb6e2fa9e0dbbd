package duration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{"1h30m", 90 * time.Minute, true},
		{"2d", 172800000 * time.Millisecond, true},
		{"10m", 10 * time.Minute, true},
		{"45s", 45 * time.Second, true},
		{"1w", 604800000 * time.Millisecond, true},
		{"1mo", 2592000000 * time.Millisecond, true},
		{"1y", 31536000000 * time.Millisecond, true},
		{"1MO2M", 2592000000*time.Millisecond + 2*time.Minute, true},
		{"2d2d", 4 * Day, true},
		{"1h and then 5m", time.Hour + 5*time.Minute, true},
		{"0s", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
		{"15", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMonthBeforeMinute(t *testing.T) {
	got, ok := Parse("3mo")
	assert.True(t, ok)
	assert.Equal(t, 3*Month, got, "mo must not be read as minutes")
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, ""},
		{999 * time.Millisecond, ""},
		{61 * time.Second, "1m 1s"},
		{90 * time.Second, "1m 30s"},
		{time.Hour, "1h"},
		{Day + 30*time.Second, "1d 30s"},
		{3*Day + 4*time.Hour + 5*time.Minute + 6*time.Second + 700*time.Millisecond, "3d 4h 5m 6s"},
		{-time.Minute, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.input))
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, d := range []int{0, 1, 12} {
		for _, h := range []int{0, 5, 23} {
			for _, m := range []int{0, 1, 59} {
				for _, s := range []int{0, 30, 59} {
					if d+h+m+s == 0 {
						continue
					}
					text := ""
					want := ""
					appendPart := func(n int, unit string) {
						if n == 0 {
							return
						}
						text += fmt.Sprintf("%d%s", n, unit)
						if want != "" {
							want += " "
						}
						want += fmt.Sprintf("%d%s", n, unit)
					}
					appendPart(d, "d")
					appendPart(h, "h")
					appendPart(m, "m")
					appendPart(s, "s")

					parsed, ok := Parse(text)
					assert.True(t, ok, text)
					assert.Equal(t, want, Format(parsed), text)
				}
			}
		}
	}
}
