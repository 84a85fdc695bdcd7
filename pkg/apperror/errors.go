package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Payment Flow (PAY) ----

func ErrInvalidAmount(message string) *AppError {
	if message == "" {
		message = "Invalid amount"
	}
	return New("PAY_001", message, http.StatusBadRequest)
}

func ErrUnknownPayment(paymentID string) *AppError {
	return New("PAY_002", fmt.Sprintf("No pending payment found for id %q", paymentID), http.StatusNotFound)
}

func ErrMissingInteractionRef() *AppError {
	return New("PAY_003", "Payment requires user confirmation: interactionRef is missing", http.StatusBadRequest)
}

// ---- Wallet Resolution (WAL) ----

func ErrWalletResolution(walletURL string, err error) *AppError {
	return Wrap("WAL_001", fmt.Sprintf("Could not resolve wallet address %s", walletURL), http.StatusBadGateway, err)
}

// ---- Grants (GRANT) ----

func ErrGrantNotFinalized(grantType string) *AppError {
	return New("GRANT_001", fmt.Sprintf("%s grant was not successfully finalized", grantType), http.StatusBadGateway)
}

func ErrGrantFinalizationTimeout(attempts int) *AppError {
	return New("GRANT_002", fmt.Sprintf("Could not finalize the grant after %d attempts", attempts), http.StatusGatewayTimeout)
}

// ErrRateLimited is the authorization server's too_fast signal during grant
// continuation. The continuation engine absorbs it; it never reaches HTTP callers.
func ErrRateLimited(err error) *AppError {
	return Wrap("GRANT_003", "Authorization server requested a slower polling pace", http.StatusServiceUnavailable, err)
}

// IsRateLimited reports whether err carries the too_fast condition.
func IsRateLimited(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "GRANT_003"
}

// ---- Resource Servers (RES) ----

func ErrResourceCreation(resource string, err error) *AppError {
	return Wrap("RES_001", fmt.Sprintf("Resource server rejected %s creation", resource), http.StatusBadGateway, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("PAY_000", message, http.StatusBadRequest)
}
