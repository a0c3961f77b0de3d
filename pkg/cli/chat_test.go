package cli

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestIsExitCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"exit", true},
		{"quit", true},
		{"bye", true},
		{"EXIT", true},
		{"  Bye  ", true},
		{"exit now", false},
		{"goodbye", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			gt.Equal(t, isExitCommand(tc.input), tc.expected)
		})
	}
}
