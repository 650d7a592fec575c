package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// surfaceIDRegex matches identifiers usable both as a CSS class and an XML id.
var surfaceIDRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateSurfaceID validates a drawing surface identifier.
//
// Surface ids end up in class attributes and HTTP paths, so the rules are
// conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - Must start with a letter or underscore
//   - Only letters, digits, underscores and hyphens
func ValidateSurfaceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "surface id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "surface id too long (max 128 characters)")
	}
	if !surfaceIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid surface id: %q", id)
	}
	return nil
}

// ValidateItemName validates a bar name.
// Names are rendered as axis labels, so control characters are rejected.
func ValidateItemName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name %q contains control characters", name)
		}
	}
	return nil
}

// hexColorRegex matches #rgb, #rrggbb and #rrggbbaa colours.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// cssNameRegex matches bare CSS colour keywords such as "steelblue".
var cssNameRegex = regexp.MustCompile(`^[a-zA-Z]+$`)

// ValidateColor validates a fill colour.
// Accepted forms are hex colours and bare CSS keywords; anything that could
// break out of a style attribute is rejected.
func ValidateColor(c string) error {
	if c == "" {
		return New(ErrCodeInvalidConfig, "color cannot be empty")
	}
	if strings.ContainsAny(c, `;"'<>`) {
		return New(ErrCodeInvalidConfig, "color %q contains invalid characters", c)
	}
	if !hexColorRegex.MatchString(c) && !cssNameRegex.MatchString(c) {
		return New(ErrCodeInvalidConfig, "invalid color: %q", c)
	}
	return nil
}

// ValidateWidth validates a chart width in pixels.
func ValidateWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return New(ErrCodeInvalidConfig, "width must be a positive number, got %v", w)
	}
	return nil
}
