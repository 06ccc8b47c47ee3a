// Package components renders the notebook page's feed: one result card per
// history entry plus the sticky query bar.
package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/reply"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	ui "github.com/leapstack-labs/nlnotebook/internal/ui/features/common/components"
)

// FeedID is the DOM id of the feed container.
const FeedID = "feed"

// ResultCard renders one history entry. The output depends only on the entry.
func ResultCard(e history.Entry) templ.Component {
	return ui.Func(func(_ context.Context, h *ui.HTML) {
		r := e.Reply

		h.Raw(`<article class="result-card"`).Attr("id", "entry-"+e.ID.String()).Raw(`>`)
		h.Raw(`<div class="result-card__header"><h3 class="result-card__query">`).Text(e.Query).Raw(`</h3>`)
		if r.Succeeded() {
			h.Raw(`<span class="badge badge--success">`)
		} else {
			h.Raw(`<span class="badge badge--failure">`)
		}
		h.Text(r.Status.String()).Raw(`</span></div>`)

		h.Raw(`<p class="result-card__explanation">`).Text(r.Explanation).Raw(`</p>`)
		if r.Reason != "" {
			h.Raw(`<p class="result-card__reason">`).Text(r.Reason).Raw(`</p>`)
		}

		h.Raw(`<div class="result-card__sql"><code>`).Text(r.SQL).Raw(`</code></div>`)

		if header, rows, ok := r.Table(); ok {
			writeTable(h, header, rows)
		}

		h.Raw(`</article>`)
	})
}

func writeTable(h *ui.HTML, header []any, rows [][]any) {
	h.Raw(`<div class="result-card__table"><table><thead><tr>`)
	for _, col := range header {
		h.Raw(`<th>`).Text(reply.FormatCell(col)).Raw(`</th>`)
	}
	h.Raw(`</tr></thead><tbody>`)
	for _, row := range rows {
		h.Raw(`<tr>`)
		for _, cell := range row {
			h.Raw(`<td>`).Text(reply.FormatCell(cell)).Raw(`</td>`)
		}
		h.Raw(`</tr>`)
	}
	h.Raw(`</tbody></table></div>`)
}

// Feed renders the entries newest first inside a reverse-flow container, so
// the newest card sits next to the input bar.
func Feed(entries []history.Entry) templ.Component {
	return ui.Func(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<section class="feed"`).Attr("id", FeedID).Attr("aria-live", "polite").Raw(`>`)
		if len(entries) == 0 {
			h.Raw(`<p class="feed__empty">No queries yet. Ask a question below.</p>`)
		}
		for _, e := range entries {
			h.Render(ctx, ResultCard(e))
		}
		h.Raw(`</section>`)
	})
}

// QueryInput renders the sticky query bar posting to the notebook's query
// endpoint. The busy signal disables the input while a query is in flight.
func QueryInput(notebookID string) templ.Component {
	return ui.Func(func(_ context.Context, h *ui.HTML) {
		action := "@post('" + common.NotebookAPIPath(notebookID) + "/query')"

		h.Raw(`<div class="query-bar" data-signals="{query: '', busy: false}">`)
		h.Raw(`<form id="query-form"`).Attr("data-on:submit", action).Raw(`>`)
		h.Raw(`<input id="query-input" class="input input--lg" type="text" name="query" autocomplete="off"`)
		h.Raw(` placeholder="Enter your query here" data-bind:query data-attr:disabled="$busy">`)
		h.Raw(`</form>`)
		h.Raw(`<p class="query-bar__status" data-show="$busy">Running query...</p>`)
		h.Raw(`</div>`)
	})
}
