package domain

import "strings"

// Sentinel select values that mean "no reference".
const (
	NoParent   = "no-parent"
	NoCategory = "no-category"
)

// OptionalText trims value and maps a blank result to nil.
func OptionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// OptionalRef maps blank values and the given sentinel to nil.
func OptionalRef(value, sentinel string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == sentinel {
		return nil
	}
	return &trimmed
}

// TextValue dereferences an optional text, returning "" for nil.
func TextValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// SplitOptions turns "red, green ,blue" into [red green blue]. Empty pieces are dropped.
func SplitOptions(text string) []string {
	var options []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			options = append(options, p)
		}
	}
	return options
}

// JoinOptions renders options back into the editable comma-separated form.
func JoinOptions(options []string) string {
	return strings.Join(options, ", ")
}
