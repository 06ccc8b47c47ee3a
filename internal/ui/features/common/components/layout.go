package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	"github.com/leapstack-labs/nlnotebook/internal/ui/resources"
)

// DatastarScript is the client runtime loaded by every page.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// AppName is shown in titles and the sidebar.
const AppName = "NL Notebook"

// Layout renders a full HTML document around body.
func Layout(page common.PageData, body templ.Component) templ.Component {
	return Func(func(ctx context.Context, h *HTML) {
		h.Raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`).Text(page.Title + " - " + AppName).Raw(`</title>`)
		h.Raw(`<link rel="stylesheet"`).Attr("href", resources.StaticPath(resources.Stylesheet)).Raw(`>`)
		h.Raw(`<script type="module"`).Attr("src", DatastarScript).Raw(`></script>`)
		h.Raw(`</head><body>`)
		if page.IsDev {
			h.Raw(`<div id="hot-reload" data-init="@get('/reload', {openWhenHidden: true})"></div>`)
		}
		h.Render(ctx, body)
		h.Raw(`</body></html>`)
	})
}

// AppShell renders the sidebar, the breadcrumb header and the main content.
func AppShell(sidebar common.SidebarData, crumbs []common.Crumb, main templ.Component) templ.Component {
	return Func(func(ctx context.Context, h *HTML) {
		h.Raw(`<div id="app" class="app-shell">`)
		h.Render(ctx, Sidebar(sidebar))
		h.Raw(`<div class="app-inset"><header class="app-header">`)
		h.Render(ctx, Breadcrumb(crumbs))
		h.Raw(`</header><main class="app-main">`)
		h.Render(ctx, main)
		h.Raw(`</main></div></div>`)
	})
}

// Breadcrumb renders a trail of links ending with the current page.
func Breadcrumb(crumbs []common.Crumb) templ.Component {
	return Func(func(_ context.Context, h *HTML) {
		h.Raw(`<nav aria-label="breadcrumb"><ol class="breadcrumb">`)
		for i, c := range crumbs {
			if i > 0 {
				h.Raw(`<li class="breadcrumb__sep" role="presentation">/</li>`)
			}
			if i == len(crumbs)-1 || c.Href == "" {
				h.Raw(`<li class="breadcrumb__page" aria-current="page">`).Text(c.Label).Raw(`</li>`)
				continue
			}
			h.Raw(`<li class="breadcrumb__item"><a`).Attr("href", c.Href).Raw(`>`).Text(c.Label).Raw(`</a></li>`)
		}
		h.Raw(`</ol></nav>`)
	})
}

// Sidebar renders navigation and the notebook list.
func Sidebar(data common.SidebarData) templ.Component {
	return Func(func(ctx context.Context, h *HTML) {
		h.Raw(`<aside id="sidebar" class="sidebar">`)
		h.Raw(`<a class="sidebar__brand" href="/">`).Text(AppName).Raw(`</a>`)
		h.Raw(`<nav class="sidebar__nav">`)
		navLink(h, common.DashboardPath, "Dashboard", data.CurrentPath == common.DashboardPath)
		h.Raw(`</nav>`)

		h.Render(ctx, NotebookNav(data))

		h.Raw(`<div class="sidebar__footer">`)
		if data.User != nil {
			h.Raw(`<div class="sidebar__user"><span class="sidebar__user-name">`).Text(displayName(data.User)).Raw(`</span>`)
			h.Raw(`<span class="sidebar__user-email">`).Text(data.User.Email).Raw(`</span></div>`)
			h.Raw(`<button type="button" class="btn btn--ghost btn--sm" data-on:click="@post('/api/auth/sign-out')">Sign out</button>`)
		} else {
			h.Raw(`<a class="btn btn--outline btn--sm" href="/">Sign in</a>`)
		}
		h.Raw(`</div></aside>`)
	})
}

// NotebookNav renders the sidebar's notebook list. It is patched on its own
// when a notebook is created.
func NotebookNav(data common.SidebarData) templ.Component {
	return Func(func(_ context.Context, h *HTML) {
		h.Raw(`<nav id="sidebar-notebooks" class="sidebar__section"><h2 class="sidebar__heading">Notebooks</h2><ul>`)
		for _, nb := range data.Notebooks {
			h.Raw(`<li>`)
			path := common.NotebookPath(nb.ID)
			navLink(h, path, nb.Name, data.CurrentPath == path)
			h.Raw(`</li>`)
		}
		h.Raw(`</ul></nav>`)
	})
}

func navLink(h *HTML, href, label string, active bool) {
	h.Raw(`<a class="sidebar__link`)
	if active {
		h.Raw(` is-active" aria-current="page`)
	}
	h.Raw(`"`).Attr("href", href).Raw(`>`).Text(label).Raw(`</a>`)
}

func displayName(u *common.SessionUser) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
