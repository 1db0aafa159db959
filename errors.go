package chainassure

import (
	"errors"
	"fmt"
)

// FlowError is a verification-flow error with a stable machine code.
type FlowError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Flow error codes.
const (
	// ErrCodeProviderMissing: no wallet provider is available. Fatal for
	// the whole flow; the user needs to install or start a wallet.
	ErrCodeProviderMissing = "provider_missing"
	// ErrCodeChainMismatch: the wallet could not be brought onto the
	// target chain (declined, timed out, or moved out-of-band).
	ErrCodeChainMismatch = "chain_mismatch"
	// ErrCodeDeclined: the user declined the verification prompt.
	ErrCodeDeclined = "declined"
	// ErrCodeProviderError: the provider rejected a request for a reason
	// other than a user decline.
	ErrCodeProviderError = "provider_error"
	// ErrCodeTxFailed: the verification transaction reverted or was
	// dropped.
	ErrCodeTxFailed = "tx_failed"
	// ErrCodeNotConnected: no wallet connection or account to act on.
	ErrCodeNotConnected = "not_connected"
	// ErrCodeNotVerified: an action gated on the verified flag was
	// requested before verification completed.
	ErrCodeNotVerified = "not_verified"
	// ErrCodeAttemptInFlight: a verification attempt is already running.
	ErrCodeAttemptInFlight = "attempt_in_flight"
)

// NewFlowError creates a new flow error.
func NewFlowError(code, message string, details map[string]interface{}) *FlowError {
	return &FlowError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// IsFlowCode reports whether err is (or wraps) a FlowError with the
// given code.
func IsFlowCode(err error, code string) bool {
	var fe *FlowError
	return errors.As(err, &fe) && fe.Code == code
}

// ProviderError is the {code, message} pair injected wallet providers
// reject requests with.
type ProviderError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Provider error codes this flow matches on explicitly (EIP-1193 /
// EIP-1474 numbering as implemented by the common wallets).
const (
	// ProviderCodeUserRejected: the user declined the wallet prompt.
	ProviderCodeUserRejected int64 = 4001
	// ProviderCodeUnrecognizedChain: the wallet has no registration for
	// the requested chain; add it and retry.
	ProviderCodeUnrecognizedChain int64 = 4902
	// ProviderCodeInternal: generic failure. Some wallets hide an
	// "already exists" condition behind this code; see
	// chainAlreadyRegistered.
	ProviderCodeInternal int64 = -32603
)

// providerCode extracts the wallet error code from err, if any.
func providerCode(err error) (int64, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}

// userRejected reports whether err means the user declined a prompt.
func userRejected(err error) bool {
	code, ok := providerCode(err)
	return ok && code == ProviderCodeUserRejected
}
