package apierrors

import (
	"fmt"
	"net/http"
)

// Error type identifiers returned to clients alongside the HTTP status.
const (
	TypeValidation             = "VALIDATION_ERROR"
	TypeEmailInUse             = "EMAIL_IN_USE"
	TypeInvalidCredentials     = "INVALID_CREDENTIALS"
	TypeAccountLocked          = "ACCOUNT_LOCKED"
	TypeAccountLockedNoQA      = "ACCOUNT_LOCKED_NO_QA"
	TypeNotFound               = "NOT_FOUND"
	TypeSecurityQANotSet       = "SECURITY_QA_NOT_SET"
	TypeInvalidSecurityAnswer  = "INVALID_SECURITY_ANSWER"
	TypeUnauthorized           = "UNAUTHORIZED"
	TypeAssistantNotConfigured = "ASSISTANT_NOT_CONFIGURED"
	TypeAssistantUnavailable   = "ASSISTANT_UNAVAILABLE"
	TypeInternal               = "INTERNAL_ERROR"
)

// APIError is an error that maps directly onto an HTTP response:
// status code, machine-readable type and human-readable message.
type APIError struct {
	Status  int
	Type    string
	Message string
	// SecurityQuestion is populated on ACCOUNT_LOCKED responses when the
	// account has a recovery question configured.
	SecurityQuestion string
	// Err is the underlying cause, exposed in 5xx payloads for diagnostics.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewErrValidation reports missing or malformed input.
func NewErrValidation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Type: TypeValidation, Message: message}
}

// NewErrEmailIsTaken reports a registration attempt with an existing email.
func NewErrEmailIsTaken() *APIError {
	return &APIError{Status: http.StatusBadRequest, Type: TypeEmailInUse, Message: "Email already in use"}
}

// NewErrInvalidCredentials reports a failed login without revealing whether
// the account exists. attemptsLeft < 0 omits the remaining-attempts hint
// (unknown email: there is no counter to report).
func NewErrInvalidCredentials(attemptsLeft int) *APIError {
	msg := "Invalid credentials"
	if attemptsLeft >= 0 {
		msg = fmt.Sprintf("Invalid credentials. You have %d attempts left.", attemptsLeft)
	}
	return &APIError{Status: http.StatusBadRequest, Type: TypeInvalidCredentials, Message: msg}
}

// NewErrAccountLocked reports the locked state for an account with a
// configured security question.
func NewErrAccountLocked(securityQuestion string) *APIError {
	return &APIError{
		Status:           http.StatusForbidden,
		Type:             TypeAccountLocked,
		Message:          "Account locked due to too many failed login attempts. Answer your security question to reset your password.",
		SecurityQuestion: securityQuestion,
	}
}

// NewErrAccountLockedNoRecovery reports the locked state for an account
// without a recovery path.
func NewErrAccountLockedNoRecovery() *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Type:    TypeAccountLockedNoQA,
		Message: "Account locked due to too many failed login attempts. No security question is set for this account.",
	}
}

// NewErrNotFound reports a missing resource.
func NewErrNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Type: TypeNotFound, Message: message}
}

// NewErrSecurityQANotSet reports a reset attempt on an account without a
// configured security question.
func NewErrSecurityQANotSet() *APIError {
	return &APIError{Status: http.StatusBadRequest, Type: TypeSecurityQANotSet, Message: "No security question is set for this account"}
}

// NewErrInvalidSecurityAnswer reports a failed security-answer check.
func NewErrInvalidSecurityAnswer() *APIError {
	return &APIError{Status: http.StatusBadRequest, Type: TypeInvalidSecurityAnswer, Message: "Incorrect security answer"}
}

// NewErrUnauthorized reports a missing or invalid bearer token.
func NewErrUnauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Type: TypeUnauthorized, Message: message}
}

// NewErrAssistantNotConfigured reports a missing assistant credential.
func NewErrAssistantNotConfigured() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Type: TypeAssistantNotConfigured, Message: "Chat assistant is not configured"}
}

// NewErrAssistantUnavailable reports a generative delegate failure with the
// underlying cause attached.
func NewErrAssistantUnavailable(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Type: TypeAssistantUnavailable, Message: "Failed to process message", Err: err}
}

// NewErrInternal wraps an unexpected failure.
func NewErrInternal(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Type: TypeInternal, Message: "Internal server error", Err: err}
}
