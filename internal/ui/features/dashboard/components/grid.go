// Package components renders the dashboard's notebook grid and create form.
package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	ui "github.com/leapstack-labs/nlnotebook/internal/ui/features/common/components"
)

// GridID is the element patched when the catalog changes.
const GridID = "notebook-grid"

// NotebookGrid renders one card per notebook.
func NotebookGrid(notebooks []notebook.Notebook) templ.Component {
	return ui.Func(func(_ context.Context, h *ui.HTML) {
		h.Raw(`<section class="notebook-grid"`).Attr("id", GridID).Raw(`>`)
		for _, nb := range notebooks {
			h.Raw(`<a class="notebook-card"`).Attr("href", common.NotebookPath(nb.ID)).Raw(`>`)
			h.Raw(`<h3 class="notebook-card__title">`).Text(nb.Name).Raw(`</h3>`)
			h.Raw(`<p class="notebook-card__description">`).Text(nb.Description).Raw(`</p>`)
			h.Raw(`</a>`)
		}
		h.Raw(`</section>`)
	})
}

// CreateForm renders the "Create Notebook" form.
func CreateForm() templ.Component {
	return ui.Func(func(_ context.Context, h *ui.HTML) {
		h.Raw(`<form class="create-notebook" data-signals="{notebookName: '', notebookDescription: '', creating: false}"`).
			Attr("data-on:submit", "@post('/api/notebooks')").Raw(`>`)
		h.Raw(`<input class="input" type="text" placeholder="Notebook name" data-bind="notebookName">`)
		h.Raw(`<input class="input" type="text" placeholder="Description (optional)" data-bind="notebookDescription">`)
		h.Raw(`<button type="submit" class="btn btn--primary" data-indicator="creating" data-attr:disabled="$creating">Create Notebook</button>`)
		h.Raw(`</form>`)
	})
}
