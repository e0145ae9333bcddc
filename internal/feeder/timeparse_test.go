package feeder

import (
	"testing"

	"github.com/petprotect/hub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"4:30 PM", "16:30"},
		{"16:30", "16:30"},
		{"7:00 AM", "07:00"},
		{"07:00", "07:00"},
		{"12:00 AM", "00:00"},
		{"12:00 PM", "12:00"},
		{"12:15 pm", "12:15"},
		{"11:59 PM", "23:59"},
		{"0:05", "00:05"},
		{"23:59", "23:59"},
		{"  9:30 am  ", "09:30"},
		{"9:30AM", "09:30"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEquivalentTimesAgree(t *testing.T) {
	a, err := Normalize("4:30 PM")
	require.NoError(t, err)
	b, err := Normalize("16:30")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalizeInvalid(t *testing.T) {
	inputs := []string{
		"",
		"noon",
		"25:00",
		"24:00",
		"12:60",
		"13:00 PM",
		"0:30 AM",
		"7:5 AM",
		"7 AM",
		"07:00:00",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Normalize(input)
			require.Error(t, err)
			assert.True(t, errors.IsFormat(err), "expected format error, got %v", err)
		})
	}
}
