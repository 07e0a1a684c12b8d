package pad

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{Attempts: 3}

	calls := 0
	err := p.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = p.Do(func() error {
		calls++
		return errors.New("down")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyAtLeastOnce(t *testing.T) {
	p := RetryPolicy{}
	calls := 0
	_ = p.Do(func() error { calls++; return nil })
	assert.Equal(t, 1, calls)
}
