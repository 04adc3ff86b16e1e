package menu

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Line(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  Assam \n"), &out)

	got, err := p.Line("State: ")
	require.NoError(t, err)
	assert.Equal(t, "Assam", got)
	assert.Equal(t, "State: ", out.String())

	_, err = p.Line("again: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_Choice(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("5\n\n2\n"), &out)

	got, err := p.Choice("> ", "1", "2", "0")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, 2, strings.Count(out.String(), "❌ Invalid choice. Please select one of: 1, 2, 0."))
}

func TestPrompter_ChoiceEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("x\n"), io.Discard)
	_, err := p.Choice("> ", "1")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := NewPrompter(strings.NewReader(tt.input), &out).Confirm("Continue? (y/n):")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Continue? (y/n):\n> ", out.String())
	}
}

func TestBanner(t *testing.T) {
	b := Banner("https://api.data.gov.in")
	assert.Contains(t, b, "DhartiMetrics")
	assert.Contains(t, b, "https://api.data.gov.in")
}
