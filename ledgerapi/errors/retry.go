package errors

import (
	"context"
	"time"
)

// Backoff is a doubling delay between attempts, capped at Cap.
type Backoff struct {
	Attempts int
	Base     time.Duration
	Cap      time.Duration
}

// DialBackoff paces the startup connection to the web3 endpoints.
var DialBackoff = Backoff{Attempts: 3, Base: time.Second, Cap: 30 * time.Second}

// Delay is the wait after failed attempt n, counting from 1.
func (b Backoff) Delay(n int) time.Duration {
	d := b.Base
	for i := 1; i < n && (b.Cap <= 0 || d < b.Cap); i++ {
		d *= 2
	}
	if b.Cap > 0 && d > b.Cap {
		return b.Cap
	}
	return d
}

// Retry calls fn until it succeeds, fails with an error IsRetryable
// rejects, or b.Attempts calls were made. The last retryable error keeps
// its code and records the number of attempts.
func Retry(ctx context.Context, b Backoff, fn func(attempt int) error) error {
	attempts := max(b.Attempts, 1)

	var err error
	for n := 1; n <= attempts; n++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(n); err == nil || !IsRetryable(err) {
			return err
		}
		if n == attempts {
			break
		}

		wait := time.NewTimer(b.Delay(n))
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-wait.C:
		}
	}

	return WrapLedgerError(err, ErrCodeRPC, "", "retries exhausted").WithContext("attempts", attempts)
}
