// Package common provides shared types and utilities for UI features.
package common

import "github.com/leapstack-labs/nlnotebook/internal/notebook"

// PageData holds what every full page needs.
type PageData struct {
	Title string
	IsDev bool
}

// SessionUser is the signed-in account kept in the session cookie.
type SessionUser struct {
	ID    string
	Email string
	Name  string
}

// SidebarData holds data needed for the sidebar/shell rendering.
type SidebarData struct {
	CurrentPath string
	Notebooks   []notebook.Notebook
	User        *SessionUser
}

// Crumb is one breadcrumb entry. The last crumb is the current page and has
// no link.
type Crumb struct {
	Label string
	Href  string
}
