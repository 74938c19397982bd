package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingErrorMessages converts a gin binding error into field-level
// messages. Non-validator errors (malformed JSON, wrong types) collapse into
// a single generic message.
func BindingErrorMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"invalid request body"}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, DefaultMessage(fe.Field(), fe.Tag()))
	}
	return messages
}

// BindingErrorMessage flattens the field messages into one string
func BindingErrorMessage(err error) string {
	return strings.Join(BindingErrorMessages(err), "; ")
}
