package validation

// Error is a local validation failure. It never reaches the network and is
// shown next to the offending field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func newError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}
