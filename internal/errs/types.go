package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type UnauthorizedError struct {
	ErrorMessage
}

// BadLinkError marks a shared report payload that cannot be decoded.
type BadLinkError struct {
	ErrorMessage
	Err error
}

func (e *BadLinkError) Unwrap() error { return e.Err }

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError is a failure talking to an upstream dependency.
// Transient failures (timeouts, 429, 5xx) may succeed on a later attempt.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

type EncryptionError struct {
	ErrorMessage
	Err error
}

func (e *EncryptionError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewBadLinkError(err error) *BadLinkError {
	return &BadLinkError{
		ErrorMessage: ErrorMessage{Message: "shared link is invalid or corrupted"},
		Err:          err,
	}
}

func NewDatabaseError(operation string, err error) *DatabaseError {
	msg := operation + " failed"
	if err != nil {
		msg += ": " + err.Error()
	}
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: msg},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service string, transient bool, message string, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewEncryptionError(message string, err error) *EncryptionError {
	return &EncryptionError{
		ErrorMessage: ErrorMessage{Message: message},
		Err:          err,
	}
}
