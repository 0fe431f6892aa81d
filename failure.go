package rehearse

// Failure is a recoverable domain failure raised by command handling. Two
// failures are considered equal when their dynamic type, message, and code
// all match.
type Failure interface {
	error

	// FailureCode returns the numeric code identifying the failure.
	FailureCode() int
}

// DomainError is a ready-made Failure implementation carrying a message and
// a numeric code. Domain packages may define their own Failure types
// instead; matching is by dynamic type.
type DomainError struct {
	Message string
	Code    int
}

// NewDomainError creates a new DomainError.
func NewDomainError(message string, code int) *DomainError {
	return &DomainError{Message: message, Code: code}
}

// Error returns the failure message.
func (e *DomainError) Error() string {
	return e.Message
}

// FailureCode returns the numeric failure code.
func (e *DomainError) FailureCode() int {
	return e.Code
}
