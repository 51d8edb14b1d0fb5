package errors

import (
	"errors"
	"strings"
)

// WrapLedgerError wraps an error as a LedgerError if it isn't already one.
// An existing LedgerError keeps its code.
func WrapLedgerError(err error, code ErrorCode, contract, message string) *LedgerError {
	if err == nil {
		return nil
	}

	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		ledgerErr.WithContext("wrapped_message", message)
		if contract != "" && ledgerErr.Contract == "" {
			ledgerErr.Contract = contract
		}
		return ledgerErr
	}

	return NewLedgerError(code, contract, message, err)
}

// As checks if an error can be assigned to a target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// HasCode checks if an error is a LedgerError with the given code
func HasCode(err error, code ErrorCode) bool {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Code == code
	}
	return false
}

// CodeOf returns the code of a LedgerError, or ErrCodeInternal for anything else.
func CodeOf(err error) ErrorCode {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Code
	}
	return ErrCodeInternal
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.IsRetryable()
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"too many requests",
		"rate limit",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// GetSeverity returns the severity of an error
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}

	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Severity
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "panic") || strings.Contains(errStr, "fatal") {
		return SeverityCritical
	}
	if strings.Contains(errStr, "failed") || strings.Contains(errStr, "error") {
		return SeverityHigh
	}
	if strings.Contains(errStr, "warning") {
		return SeverityMedium
	}

	return SeverityLow
}
