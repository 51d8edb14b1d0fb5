package errors

import (
	"fmt"
)

// ErrorCode tags the kind of failure so callers can tell "bad input" apart
// from "retry later" apart from "decoder and ledger have drifted".
type ErrorCode string

const (
	// ErrCodeValidation indicates a request parameter was rejected before any ledger call
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeDecode indicates malformed hex, address or hash input
	ErrCodeDecode ErrorCode = "DECODE"

	// ErrCodeInvalidContractAddress indicates the address does not resolve to an ecosystem
	ErrCodeInvalidContractAddress ErrorCode = "INVALID_CONTRACT_ADDRESS"

	// ErrCodeMalformedLog indicates a fetched log does not match its entity layout
	ErrCodeMalformedLog ErrorCode = "MALFORMED_LOG"

	// ErrCodeNotFound indicates the ledger has no record yet (e.g. unmined transaction)
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeTransactionRejected indicates the ledger refused a submitted transaction
	ErrCodeTransactionRejected ErrorCode = "TRANSACTION_REJECTED"

	// ErrCodeRPC indicates the ledger endpoint failed to answer
	ErrCodeRPC ErrorCode = "RPC"

	// ErrCodeTimeout indicates timeout errors
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeConfig indicates configuration errors
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeDatabase indicates database operation errors
	ErrCodeDatabase ErrorCode = "DATABASE"

	// ErrCodeInternal indicates internal system errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Severity represents the severity level of an error
type Severity string

const (
	// SeverityCritical indicates critical errors that require immediate attention
	SeverityCritical Severity = "CRITICAL"

	// SeverityHigh indicates high priority errors
	SeverityHigh Severity = "HIGH"

	// SeverityMedium indicates medium priority errors
	SeverityMedium Severity = "MEDIUM"

	// SeverityLow indicates low priority errors
	SeverityLow Severity = "LOW"

	// SeverityInfo indicates informational errors
	SeverityInfo Severity = "INFO"
)

// LedgerError is the tagged error carried from the decoding core up to the HTTP layer.
type LedgerError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Contract string                 `json:"contract,omitempty"`
	Severity Severity               `json:"severity"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// NewLedgerError creates a new LedgerError
func NewLedgerError(code ErrorCode, contract, message string, cause error) *LedgerError {
	return &LedgerError{
		Code:     code,
		Message:  message,
		Contract: contract,
		Severity: determineSeverity(code),
		Cause:    cause,
		Context:  make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Contract != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Contract, e.Code, e.Severity, msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, msg)
}

// Unwrap returns the underlying cause
func (e *LedgerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *LedgerError) WithContext(key string, value interface{}) *LedgerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the default severity
func (e *LedgerError) WithSeverity(severity Severity) *LedgerError {
	e.Severity = severity
	return e
}

// IsRetryable returns true if the error is retryable
func (e *LedgerError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeRPC, ErrCodeTimeout, ErrCodeNotFound:
		return true
	case ErrCodeDatabase:
		return e.Severity != SeverityCritical
	default:
		return false
	}
}

func determineSeverity(code ErrorCode) Severity {
	switch code {
	case ErrCodeInternal:
		return SeverityCritical
	case ErrCodeMalformedLog, ErrCodeDatabase:
		return SeverityHigh
	case ErrCodeTransactionRejected, ErrCodeRPC, ErrCodeTimeout:
		return SeverityMedium
	case ErrCodeValidation, ErrCodeDecode, ErrCodeInvalidContractAddress, ErrCodeConfig:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// ErrorGroup represents a collection of errors
type ErrorGroup struct {
	Errors []error
}

// NewErrorGroup creates a new error group
func NewErrorGroup() *ErrorGroup {
	return &ErrorGroup{
		Errors: make([]error, 0),
	}
}

// Add adds an error to the group
func (eg *ErrorGroup) Add(err error) {
	if err != nil {
		eg.Errors = append(eg.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (eg *ErrorGroup) HasErrors() bool {
	return len(eg.Errors) > 0
}

// Error implements the error interface
func (eg *ErrorGroup) Error() string {
	if len(eg.Errors) == 0 {
		return ""
	}
	if len(eg.Errors) == 1 {
		return eg.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred: %v", len(eg.Errors), eg.Errors[0])
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *LedgerError {
	return NewLedgerError(ErrCodeValidation, "", message, nil)
}

// NewDecodeError creates an error for malformed hex/address/hash input
func NewDecodeError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeDecode, "", message, cause)
}

// NewInvalidContractAddressError reports an address that is not part of any ecosystem
func NewInvalidContractAddressError(contract string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeInvalidContractAddress, contract,
		"the contract address provided does not belong to an insurance pool ecosystem", cause)
}

// NewMalformedLogError reports a log whose shape does not match its entity layout
func NewMalformedLogError(event, message string) *LedgerError {
	return NewLedgerError(ErrCodeMalformedLog, "", message, nil).WithContext("event", event)
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string) *LedgerError {
	return NewLedgerError(ErrCodeNotFound, "", message, nil)
}

// NewTransactionRejectedError creates an error for a transaction the ledger refused
func NewTransactionRejectedError(contract, message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeTransactionRejected, contract, message, cause)
}

// NewRPCError creates an RPC error
func NewRPCError(contract, message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeRPC, contract, message, cause)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(message string) *LedgerError {
	return NewLedgerError(ErrCodeTimeout, "", message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string) *LedgerError {
	return NewLedgerError(ErrCodeConfig, "", message, nil)
}

// NewDatabaseError creates a database error
func NewDatabaseError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeDatabase, "", message, cause)
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeInternal, "", message, cause)
}
