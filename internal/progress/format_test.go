package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBytes(tt.n))
		})
	}
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "100.0 B/s", FormatSpeed(100))
	assert.Equal(t, "1.5 KB/s", FormatSpeed(1536))
	assert.Equal(t, "2.0 MB/s", FormatSpeed(2*1024*1024))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{125, "2:05"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-3, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSeconds(tt.seconds))
		})
	}
}

func TestFormatETA(t *testing.T) {
	assert.Equal(t, "--", FormatETA(ETAUnknownSeconds))
	assert.Equal(t, "2m 5s", FormatETA(125))
	assert.Equal(t, "0m 0s", FormatETA(0))
}
