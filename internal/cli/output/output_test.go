package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"table":    ModeText,
		"TEXT":     ModeText,
		"md":       ModeMarkdown,
		"markdown": ModeMarkdown,
		"json":     ModeJSON,
		"bogus":    ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), "Mode(%q)", in)
	}
}

func TestEffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &errOut, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &errOut, true, ModeJSON).EffectiveMode())
	assert.False(t, NewRenderer(&out, &errOut, ModeAuto).IsTTY(), "buffers are never terminals")
}

func TestRenderer_Writes(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Header("History")
	r.Printf("%d entries\n", 2)
	r.Success("done")
	r.Error("boom")
	r.Warning("careful")

	assert.Equal(t, "## History\n2 entries\ndone\n", out.String())
	assert.Equal(t, "Error: boom\nWarning: careful\n", errOut.String())
}

func TestRenderer_BadgeIsPlainWithoutTTY(t *testing.T) {
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeText)
	assert.Equal(t, "Query Succeeded", r.Badge("Query Succeeded", true))
	assert.Equal(t, "Query Failed", r.Badge("Query Failed", false))
}

func TestFormatCodeBlock(t *testing.T) {
	assert.Equal(t, "```sql\nSELECT 1\n```", FormatCodeBlock("sql", "SELECT 1\n"))
}
