package posts

import (
	"strings"
	"unicode/utf8"
)

// Messages shared by the service and the editor so both sides report the same text.
const (
	MsgTitleRequired   = "Title is required"
	MsgTitleTooLong    = "Title must be under 120 characters"
	MsgContentRequired = "Content is required"
	MsgTagTooLong      = "Each tag must be under 30 characters"
)

// ValidateFields checks title and content the way the server enforces them.
// The returned map is empty when both are valid.
func ValidateFields(title, content string) map[string]string {
	errs := make(map[string]string)

	title = strings.TrimSpace(title)
	switch {
	case title == "":
		errs["title"] = MsgTitleRequired
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs["title"] = MsgTitleTooLong
	}
	if strings.TrimSpace(content) == "" {
		errs["content"] = MsgContentRequired
	}
	return errs
}

// ValidateTags reports whether every tag of a comma-separated list fits MaxTagLength.
func ValidateTags(csv string) bool {
	for _, tag := range SplitTags(csv) {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return false
		}
	}
	return true
}

// SplitTags splits a comma-separated list and trims every segment. Order is
// kept and nothing is deduplicated. Empty input yields an empty slice.
func SplitTags(csv string) []string {
	if csv == "" {
		return []string{}
	}
	parts := strings.Split(csv, ",")
	tags := make([]string, len(parts))
	for i, p := range parts {
		tags[i] = strings.TrimSpace(p)
	}
	return tags
}

// JoinTags is the inverse used to put stored tags back into a form field.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
