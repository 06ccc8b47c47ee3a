// Package pages renders the dashboard page.
package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	ui "github.com/leapstack-labs/nlnotebook/internal/ui/features/common/components"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/dashboard/components"
)

// DashboardPage renders the notebook grid. The page keeps an updates stream
// open so notebooks created elsewhere appear without a reload.
func DashboardPage(page common.PageData, sidebar common.SidebarData) templ.Component {
	crumbs := []common.Crumb{{Label: "Dashboard"}}
	return ui.Layout(page, ui.AppShell(sidebar, crumbs, dashboardMain(sidebar.Notebooks)))
}

func dashboardMain(notebooks []notebook.Notebook) templ.Component {
	return ui.Func(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="dashboard" data-init="@get('/api/dashboard/updates', {openWhenHidden: true})">`)
		h.Raw(`<div class="dashboard__header"><div>`)
		h.Raw(`<h1 class="page-title">Your Notebooks</h1>`)
		h.Raw(`<p class="muted">Manage your notebooks and queries here.</p>`)
		h.Raw(`</div>`)
		h.Render(ctx, components.CreateForm())
		h.Raw(`</div>`)
		h.Render(ctx, components.NotebookGrid(notebooks))
		h.Raw(`</div>`)
	})
}
