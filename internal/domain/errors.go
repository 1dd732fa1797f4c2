package domain

import "strings"

// FieldError is a single inline message attached to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is an ordered set of field messages. It is returned as an error
// when a transfer form fails validation.
type FieldErrors []FieldError

// Add records msg for field unless the field already has a message.
func (e *FieldErrors) Add(field, msg string) {
	if _, ok := e.Get(field); ok {
		return
	}
	*e = append(*e, FieldError{Field: field, Message: msg})
}

// Get returns the message recorded for field.
func (e FieldErrors) Get(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid transfer form: " + strings.Join(parts, "; ")
}
