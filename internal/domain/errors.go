package domain

// NoConversationError signals that a lookup matched no stored conversation,
// for example when a session has no history yet.
type NoConversationError struct{}

func (e NoConversationError) Error() string {
	return "no conversation found"
}

// IsNoConversationError reports whether err is a NoConversationError.
func IsNoConversationError(err error) bool {
	_, ok := err.(NoConversationError)
	return ok
}
