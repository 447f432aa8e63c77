package grade

import "fmt"

// ValidationError reports an input that is out of domain. Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// UndefinedResultError is returned when the inputs are individually valid
// but collectively insufficient to produce a number (eg. no eligible course).
type UndefinedResultError struct {
	Reason string
}

func (e *UndefinedResultError) Error() string {
	return "not enough data: " + e.Reason
}
