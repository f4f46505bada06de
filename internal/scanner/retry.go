package scanner

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sys/unix"

	"github.com/owatch/dupescan/internal/errors"
)

const retryAttempts = 5

// transientError reports whether err is a temporary kernel condition
// that a short retry can outlast: an interrupted syscall or exhausted
// file descriptors.
func transientError(err error) bool {
	for _, errno := range []unix.Errno{unix.EINTR, unix.EAGAIN, unix.EMFILE, unix.ENFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func newRetryPolicy(ctx context.Context) backoff.BackOffContext {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	return backoff.WithContext(backoff.WithMaxRetries(policy, retryAttempts), ctx)
}

// retryTransient runs op, retrying while it fails with a transient
// error. Any other error stops the retries immediately and is returned
// unchanged.
func retryTransient(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !transientError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, newRetryPolicy(ctx))
}
