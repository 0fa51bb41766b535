package handlers

import (
	"unicode/utf8"

	"blogpanel/internal/form"
)

// Length limits for submitted form fields. Required-field checks live in
// the form buffer; these caps just keep pathological payloads out of the
// data service.
const (
	maxTitleLen       = 300
	maxAuthorLen      = 100
	maxCategoryLen    = 50
	maxDescriptionLen = 10_000
)

// validateLengths checks submitted field lengths and returns the first
// problem found, or "" when the values are acceptable.
func validateLengths(v form.Values) string {
	if utf8.RuneCountInString(v.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(v.Author) > maxAuthorLen {
		return "Author is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(v.Category) > maxCategoryLen {
		return "Category is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(v.Description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	return ""
}
