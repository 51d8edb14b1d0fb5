package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerError(t *testing.T) {
	t.Run("message includes contract and cause", func(t *testing.T) {
		cause := stderrors.New("execution reverted")
		err := NewInvalidContractAddressError("0xabc", cause)

		assert.Equal(t, ErrCodeInvalidContractAddress, err.Code)
		assert.Equal(t, SeverityLow, err.Severity)
		assert.Contains(t, err.Error(), "[0xabc:INVALID_CONTRACT_ADDRESS]")
		assert.Contains(t, err.Error(), "execution reverted")
		assert.True(t, stderrors.Is(err, cause))
	})

	t.Run("malformed log carries event context", func(t *testing.T) {
		err := NewMalformedLogError("LogBond", "expected 4 topics, got 2")
		assert.Equal(t, SeverityHigh, err.Severity)
		assert.Equal(t, "LogBond", err.Context["event"])
		assert.False(t, err.IsRetryable())
	})

	t.Run("codes survive fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("bond detail: %w", NewDecodeError("odd length hex", nil))
		assert.True(t, HasCode(err, ErrCodeDecode))
		assert.Equal(t, ErrCodeDecode, CodeOf(err))
		assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("plain")))
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rpc", NewRPCError("", "dial", nil), true},
		{"not found", NewNotFoundError("receipt"), true},
		{"validation", NewValidationError("bad"), false},
		{"transaction rejected", NewTransactionRejectedError("", "nonce too low", nil), false},
		{"plain timeout text", stderrors.New("i/o Timeout"), true},
		{"plain other", stderrors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWrapLedgerError(t *testing.T) {
	assert.Nil(t, WrapLedgerError(nil, ErrCodeRPC, "", "x"))

	original := NewMalformedLogError("LogBank", "short data")
	wrapped := WrapLedgerError(original, ErrCodeInternal, "0x1", "bank logs")
	assert.Equal(t, ErrCodeMalformedLog, wrapped.Code)
	assert.Equal(t, "0x1", wrapped.Contract)
	assert.Equal(t, "bank logs", wrapped.Context["wrapped_message"])

	plain := WrapLedgerError(stderrors.New("eof"), ErrCodeRPC, "", "call failed")
	assert.Equal(t, ErrCodeRPC, plain.Code)
}

func TestRetry(t *testing.T) {
	backoff := Backoff{Attempts: 3, Base: time.Millisecond, Cap: 5 * time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		var seen []int
		err := Retry(context.Background(), backoff, func(attempt int) error {
			seen = append(seen, attempt)
			if attempt < 3 {
				return NewRPCError("", "unavailable", nil)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, seen)
	})

	t.Run("stops on non retryable error", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), backoff, func(int) error {
			calls++
			return NewValidationError("bad input")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.True(t, HasCode(err, ErrCodeValidation))
	})

	t.Run("exhausted keeps the code", func(t *testing.T) {
		err := Retry(context.Background(), backoff, func(int) error {
			return NewRPCError("", "unavailable", nil)
		})
		var ledgerErr *LedgerError
		require.True(t, As(err, &ledgerErr))
		assert.Equal(t, ErrCodeRPC, ledgerErr.Code)
		assert.Equal(t, 3, ledgerErr.Context["attempts"])
	})

	t.Run("plain timeouts are retried", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), backoff, func(int) error {
			calls++
			return stderrors.New("dial tcp: i/o timeout")
		})
		assert.Equal(t, 3, calls)
		assert.True(t, HasCode(err, ErrCodeRPC))
	})

	t.Run("zero attempts still calls once", func(t *testing.T) {
		calls := 0
		require.NoError(t, Retry(context.Background(), Backoff{}, func(int) error {
			calls++
			return nil
		}))
		assert.Equal(t, 1, calls)
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Retry(ctx, backoff, func(int) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBackoffDelay(t *testing.T) {
	b := Backoff{Base: time.Second, Cap: time.Minute}
	assert.Equal(t, time.Second, b.Delay(1))
	assert.Equal(t, 4*time.Second, b.Delay(3))
	assert.Equal(t, time.Minute, b.Delay(20))
	assert.Equal(t, 10*time.Second, Backoff{Base: time.Second, Cap: 10 * time.Second}.Delay(10))
	assert.Equal(t, DialBackoff.Cap, DialBackoff.Delay(100))
}
