// Package components renders the sign-in and sign-up dialogs.
package components

import (
	"context"

	"github.com/a-h/templ"

	ui "github.com/leapstack-labs/nlnotebook/internal/ui/features/common/components"
)

// Element IDs targeted by auth patches.
const (
	SignInDialogID = "signin-dialog"
	SignUpDialogID = "signup-dialog"
	SignInErrorID  = "signin-error"
	SignUpErrorID  = "signup-error"
)

// Signals lists the client-side state of both forms.
const Signals = `{signinEmail: '', signinPassword: '', signinLoading: false, ` +
	`signupName: '', signupEmail: '', signupPassword: '', signupLoading: false}`

// NavbarActions renders the buttons that open the dialogs.
func NavbarActions() templ.Component {
	return ui.Func(func(_ context.Context, h *ui.HTML) {
		h.Raw(`<div class="navbar__actions">`)
		h.Raw(`<button type="button" class="btn btn--ghost"`).
			Attr("data-on:click", "document.getElementById('"+SignInDialogID+"').showModal()").
			Raw(`>Sign in</button>`)
		h.Raw(`<button type="button" class="btn btn--primary"`).
			Attr("data-on:click", "document.getElementById('"+SignUpDialogID+"').showModal()").
			Raw(`>Sign up</button>`)
		h.Raw(`</div>`)
	})
}

// SignInModal renders the sign-in dialog.
func SignInModal() templ.Component {
	return ui.Func(func(ctx context.Context, h *ui.HTML) {
		openDialog(h, SignInDialogID, "Sign in", "Enter your email and password to access your notebooks.")
		h.Raw(`<form class="form"`).Attr("data-on:submit", "@post('/api/auth/sign-in')").Raw(`>`)
		field(h, "signin-email", "Email", "email", "signinEmail", "signinLoading", "m@example.com")
		field(h, "signin-password", "Password", "password", "signinPassword", "signinLoading", "")
		h.Render(ctx, AuthError(SignInErrorID, ""))
		submitButton(h, "signinLoading", "Sign in", "Signing in...")
		h.Raw(`</form>`)
		closeDialog(h, SignInDialogID)
	})
}

// SignUpModal renders the sign-up dialog.
func SignUpModal() templ.Component {
	return ui.Func(func(ctx context.Context, h *ui.HTML) {
		openDialog(h, SignUpDialogID, "Create an account", "Enter your details to get started.")
		h.Raw(`<form class="form"`).Attr("data-on:submit", "@post('/api/auth/sign-up')").Raw(`>`)
		field(h, "signup-name", "Name", "text", "signupName", "signupLoading", "Jane Doe")
		field(h, "signup-email", "Email", "email", "signupEmail", "signupLoading", "m@example.com")
		field(h, "signup-password", "Password", "password", "signupPassword", "signupLoading", "")
		h.Render(ctx, AuthError(SignUpErrorID, ""))
		submitButton(h, "signupLoading", "Sign up", "Creating account...")
		h.Raw(`</form>`)
		closeDialog(h, SignUpDialogID)
	})
}

// AuthError renders the inline error line of a form. An empty message renders
// an empty placeholder so the element can be patched later.
func AuthError(id, message string) templ.Component {
	return ui.Func(func(_ context.Context, h *ui.HTML) {
		h.Raw(`<p class="form-error" role="alert"`).Attr("id", id).Raw(`>`).Text(message).Raw(`</p>`)
	})
}

func openDialog(h *ui.HTML, id, title, description string) {
	h.Raw(`<dialog class="modal"`).Attr("id", id).Raw(`><div class="modal__content">`)
	h.Raw(`<header class="modal__header"><h2 class="modal__title">`).Text(title).Raw(`</h2>`)
	h.Raw(`<p class="muted">`).Text(description).Raw(`</p></header>`)
}

func closeDialog(h *ui.HTML, id string) {
	h.Raw(`<button type="button" class="modal__close" aria-label="Close"`).
		Attr("data-on:click", "document.getElementById('"+id+"').close()").
		Raw(`>&times;</button></div></dialog>`)
}

func field(h *ui.HTML, id, label, kind, signal, loading, placeholder string) {
	h.Raw(`<div class="form__field"><label`).Attr("for", id).Raw(`>`).Text(label).Raw(`</label>`)
	h.Raw(`<input class="input" required`).
		Attr("id", id).
		Attr("type", kind).
		Attr("data-bind", signal).
		Attr("data-attr:disabled", "$"+loading)
	if placeholder != "" {
		h.Attr("placeholder", placeholder)
	}
	h.Raw(`></div>`)
}

func submitButton(h *ui.HTML, loading, label, busyLabel string) {
	h.Raw(`<button type="submit" class="btn btn--primary btn--block"`).
		Attr("data-indicator", loading).
		Attr("data-attr:disabled", "$"+loading).
		Raw(`><span`).Attr("data-show", "!$"+loading).Raw(`>`).Text(label).Raw(`</span>`)
	h.Raw(`<span`).Attr("data-show", "$"+loading).Raw(`>`).Text(busyLabel).Raw(`</span></button>`)
}
