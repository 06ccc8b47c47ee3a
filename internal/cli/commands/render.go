package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/nlnotebook/internal/cli/output"
	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/reply"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/notebooks/components"
)

// EntryJSON is the machine-readable form of a history entry.
type EntryJSON struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Status      string    `json:"status"`
	Succeeded   bool      `json:"succeeded"`
	Explanation string    `json:"explanation"`
	SQL         string    `json:"sql"`
	Attempts    int       `json:"attempts"`
	Rows        [][]any   `json:"rows,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func toEntryJSON(e history.Entry) EntryJSON {
	return EntryJSON{
		ID:          e.ID.String(),
		Query:       e.Query,
		Status:      e.Reply.Status.String(),
		Succeeded:   e.Reply.Succeeded(),
		Explanation: e.Reply.Explanation,
		SQL:         e.Reply.SQL,
		Attempts:    e.Reply.Attempts,
		Rows:        e.Reply.Rows,
		Reason:      e.Reply.Reason,
		RecordedAt:  e.RecordedAt,
	}
}

// renderEntry writes one entry in the renderer's effective mode.
func renderEntry(r *output.Renderer, e history.Entry) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(toEntryJSON(e))
	case output.ModeMarkdown:
		return renderEntryMarkdown(r, e)
	default:
		renderEntryText(r, e)
		return nil
	}
}

// renderEntryMarkdown converts the web result card so both front-ends show
// the same content.
func renderEntryMarkdown(r *output.Renderer, e history.Entry) error {
	var buf bytes.Buffer
	if err := components.ResultCard(e).Render(context.Background(), &buf); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return fmt.Errorf("failed to convert result to markdown: %w", err)
	}
	r.Println(strings.TrimSpace(md))
	r.Println("")
	return nil
}

func renderEntryText(r *output.Renderer, e history.Entry) {
	s := r.Styles()
	r.Printf("%s %s\n", r.Badge(e.Reply.Status.String(), e.Reply.Succeeded()), s.Bold.Render(e.Query))
	if e.Reply.Explanation != "" {
		r.Println(e.Reply.Explanation)
	}
	if e.Reply.Reason != "" {
		r.Println(s.Error.Render(e.Reply.Reason))
	}
	if e.Reply.SQL != "" {
		r.Println(s.Code.Render(e.Reply.SQL))
	}

	header, rows, ok := e.Reply.Table()
	if !ok {
		r.Println("")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(formatRow(header))
	for _, row := range rows {
		t.AppendRow(formatRow(row))
	}
	t.Render()
	r.Printf("(%d rows)\n\n", len(rows))
}

func formatRow(cells []any) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = reply.FormatCell(c)
	}
	return row
}
