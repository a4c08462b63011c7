package providers

import (
	"errors"
	"fmt"
)

// ErrorType classifies a provider failure into the normalized taxonomy.
type ErrorType string

const (
	// ErrorTypeConfiguration: invalid or contradictory client options
	ErrorTypeConfiguration ErrorType = "configuration"

	// ErrorTypeUnknownProvider: provider name or base URL resolves to no known vendor
	ErrorTypeUnknownProvider ErrorType = "unknown_provider"

	// ErrorTypeAuthentication: vendor rejected the API key or banned the account
	ErrorTypeAuthentication ErrorType = "authentication"

	// ErrorTypeProtocol: vendor response had an unrecognized shape
	ErrorTypeProtocol ErrorType = "protocol"

	// ErrorTypeUnsupportedService: no vendor mapping for the canonical service code
	ErrorTypeUnsupportedService ErrorType = "unsupported_service"

	// ErrorTypeUnsupportedOperation: vendor has no endpoint for the operation
	ErrorTypeUnsupportedOperation ErrorType = "unsupported_operation"

	// ErrorTypeNoNumbers: vendor has no numbers for the service/country; retryable
	ErrorTypeNoNumbers ErrorType = "no_numbers"

	// ErrorTypeInsufficientBalance: not retryable without caller action
	ErrorTypeInsufficientBalance ErrorType = "insufficient_balance"

	// ErrorTypeActivationNotFound: vendor does not recognize the activation id
	ErrorTypeActivationNotFound ErrorType = "activation_not_found"

	// ErrorTypeActivationFailed: vendor declared the activation dead during polling
	ErrorTypeActivationFailed ErrorType = "activation_failed"
)

// ProviderError is a vendor failure translated into the normalized taxonomy.
// Raw keeps the verbatim vendor payload for diagnostics.
type ProviderError struct {
	Provider string
	Type     ErrorType
	Message  string
	Raw      string
	Err      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Provider, e.Type, e.Message)
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches on Type so errors.Is works against the exported sentinels
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewProviderError creates a new provider error
func NewProviderError(provider string, errType ErrorType, message, raw string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Type:     errType,
		Message:  message,
		Raw:      raw,
		Err:      err,
	}
}

// Sentinels for errors.Is checks.
var (
	ErrConfiguration        = &ProviderError{Type: ErrorTypeConfiguration, Message: "invalid client configuration"}
	ErrUnknownProvider      = &ProviderError{Type: ErrorTypeUnknownProvider, Message: "unknown provider"}
	ErrAuthentication       = &ProviderError{Type: ErrorTypeAuthentication, Message: "authentication failed"}
	ErrProtocol             = &ProviderError{Type: ErrorTypeProtocol, Message: "unexpected vendor response"}
	ErrUnsupportedService   = &ProviderError{Type: ErrorTypeUnsupportedService, Message: "service not supported by vendor"}
	ErrUnsupportedOperation = &ProviderError{Type: ErrorTypeUnsupportedOperation, Message: "operation not supported by vendor"}
	ErrNoNumbers            = &ProviderError{Type: ErrorTypeNoNumbers, Message: "no numbers available"}
	ErrInsufficientBalance  = &ProviderError{Type: ErrorTypeInsufficientBalance, Message: "insufficient balance"}
	ErrActivationNotFound   = &ProviderError{Type: ErrorTypeActivationNotFound, Message: "activation not found"}
	ErrActivationFailed     = &ProviderError{Type: ErrorTypeActivationFailed, Message: "activation failed"}
)

// GetErrorType returns the ErrorType of a provider error, or empty string
// for any other error.
func GetErrorType(err error) ErrorType {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type
	}
	return ""
}

// Retryable reports whether the caller may usefully retry the same
// operation (possibly with a different country). Only the no-numbers state
// qualifies; everything else needs caller action or a new purchase.
func Retryable(err error) bool {
	return GetErrorType(err) == ErrorTypeNoNumbers
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	return GetErrorType(err) == ErrorTypeAuthentication
}

// IsProtocolError checks if an error is a protocol error
func IsProtocolError(err error) bool {
	return GetErrorType(err) == ErrorTypeProtocol
}

// IsNoNumbersError checks if an error is a no-numbers error
func IsNoNumbersError(err error) bool {
	return GetErrorType(err) == ErrorTypeNoNumbers
}

// IsActivationFailedError checks if an error is an activation-failed error
func IsActivationFailedError(err error) bool {
	return GetErrorType(err) == ErrorTypeActivationFailed
}

// IsActivationNotFoundError checks if an error is an activation-not-found error
func IsActivationNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeActivationNotFound
}
