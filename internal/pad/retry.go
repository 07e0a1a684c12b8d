package pad

import "time"

// RetryPolicy bounds how feedback delivery to the physical pad is retried.
// A momentarily disconnected pad is normal (wireless dropouts); giving up
// after a few attempts is fine because the next rumble notification
// supersedes this one anyway.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetry is used when the caller does not configure one.
var DefaultRetry = RetryPolicy{Attempts: 3, Backoff: 250 * time.Millisecond}

// Do runs fn up to Attempts times, sleeping Backoff between failures, and
// returns the last error if all attempts fail.
func (p RetryPolicy) Do(fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Backoff > 0 {
			time.Sleep(p.Backoff)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
