// Package pages renders the landing page.
package pages

import (
	"context"

	"github.com/a-h/templ"

	auth "github.com/leapstack-labs/nlnotebook/internal/ui/features/auth/components"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	ui "github.com/leapstack-labs/nlnotebook/internal/ui/features/common/components"
)

// Feature is one item of the landing page's feature list.
type Feature struct {
	Title       string
	Description string
}

// Features are shown under the hero.
var Features = []Feature{
	{"Plain English queries", "Type a question and get the SQL that answers it."},
	{"Readable results", "Every answer shows the explanation, the generated SQL and the returned rows."},
	{"Notebook history", "Each notebook keeps a running feed of the questions you asked."},
}

// LandingPage renders the public landing page. Signed-out visitors get the
// sign-in and sign-up dialogs.
func LandingPage(page common.PageData, user *common.SessionUser) templ.Component {
	return ui.Layout(page, ui.Func(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="landing"`).Attr("data-signals", auth.Signals).Raw(`>`)
		h.Raw(`<header class="navbar"><a class="navbar__brand" href="/">`).Text(ui.AppName).Raw(`</a>`)
		if user != nil {
			h.Raw(`<div class="navbar__actions"><a class="btn btn--primary"`).
				Attr("href", common.DashboardPath).Raw(`>Go to dashboard</a></div>`)
		} else {
			h.Render(ctx, auth.NavbarActions())
		}
		h.Raw(`</header>`)

		h.Raw(`<main class="hero"><h1 class="hero__title">Ask your database questions in plain English</h1>`)
		h.Raw(`<p class="hero__subtitle muted">Write a question, get the SQL, see the rows.</p>`)
		h.Raw(`<a class="btn btn--primary btn--lg"`).Attr("href", common.DashboardPath).Raw(`>Open your notebooks</a></main>`)

		h.Raw(`<section class="features">`)
		for _, f := range Features {
			h.Raw(`<div class="feature"><h3>`).Text(f.Title).Raw(`</h3><p class="muted">`).Text(f.Description).Raw(`</p></div>`)
		}
		h.Raw(`</section>`)

		if user == nil {
			h.Render(ctx, auth.SignInModal())
			h.Render(ctx, auth.SignUpModal())
		}
		h.Raw(`</div>`)
	}))
}
