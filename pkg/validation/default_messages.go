package validation

import (
	"fmt"
	"strings"
)

// DefaultMessage renders a human-readable message for a failed validation tag
func DefaultMessage(field, tag string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "numeric":
		return fmt.Sprintf("%s must be a number", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
