package common

import "strconv"

// DashboardPath is the landing route after sign-in.
const DashboardPath = "/dashboard"

// NotebookPath returns the page route of a notebook.
func NotebookPath(id string) string {
	return DashboardPath + "/notebooks/" + id
}

// NotebookAPIPath returns the API route prefix of a notebook.
func NotebookAPIPath(id string) string {
	return "/api/notebooks/" + id
}

// NotebookLabel is the short label used in breadcrumbs and headings.
func NotebookLabel(id string) string {
	return "Notebook " + id
}

// Plural formats a count with a singular or plural noun.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
