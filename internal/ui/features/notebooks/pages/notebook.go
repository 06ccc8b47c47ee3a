// Package pages renders the full notebook page.
package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	ui "github.com/leapstack-labs/nlnotebook/internal/ui/features/common/components"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/notebooks/components"
)

// NotebookPage renders a notebook with its history feed and query bar.
func NotebookPage(page common.PageData, sidebar common.SidebarData, nb notebook.Notebook, entries []history.Entry) templ.Component {
	crumbs := []common.Crumb{
		{Label: "Dashboard", Href: common.DashboardPath},
		{Label: "Notebooks", Href: common.DashboardPath},
		{Label: common.NotebookLabel(nb.ID)},
	}
	return ui.Layout(page, ui.AppShell(sidebar, crumbs, notebookMain(nb, entries)))
}

func notebookMain(nb notebook.Notebook, entries []history.Entry) templ.Component {
	return ui.Func(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="notebook">`)
		h.Raw(`<div class="notebook__header"><div>`)
		h.Raw(`<h1 class="page-title">`).Text(common.NotebookLabel(nb.ID)).Raw(`</h1>`)
		h.Raw(`<p class="page-subtitle">`).Text(nb.Name).Raw(`</p>`)
		h.Raw(`<p class="muted">Manage your notebooks and queries here.</p>`)
		h.Raw(`</div><button type="button" class="btn btn--outline btn--sm"`)
		h.Attr("data-on:click", "@get('"+common.NotebookAPIPath(nb.ID)+"/feed')")
		h.Raw(`>Refresh</button></div>`)

		h.Render(ctx, components.Feed(entries))

		h.Raw(`<div class="notebook__input">`)
		h.Render(ctx, components.QueryInput(nb.ID))
		h.Raw(`</div></div>`)
	})
}
