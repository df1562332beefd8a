package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"timberlogs/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     4 * time.Millisecond,
	}
}

func TestBackoffSchedule(t *testing.T) {
	p := Policy{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     2000 * time.Millisecond,
	}

	assert.Equal(t, 500*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 1000*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 2000*time.Millisecond, p.Backoff(3))
	// Stays capped past the doubling point
	assert.Equal(t, 2000*time.Millisecond, p.Backoff(4))
	assert.Equal(t, 2000*time.Millisecond, p.Backoff(10))
}

func TestDoSucceedsImmediately(t *testing.T) {
	calls := 0
	err := testPolicy().Do(context.Background(), log.NewLogger(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientFailures(t *testing.T) {
	calls := 0
	err := testPolicy().Do(context.Background(), log.NewLogger(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	terminal := &core.HTTPError{Status: 500, Body: "boom"}
	err := testPolicy().Do(context.Background(), log.NewLogger(), func(context.Context) error {
		calls++
		return terminal
	})
	require.Error(t, err)
	// Initial attempt plus MaxRetries
	assert.Equal(t, 4, calls)

	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Status)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := testPolicy().Do(context.Background(), log.NewLogger(), func(context.Context) error {
		calls++
		return &core.HTTPError{Status: 400, Body: "bad payload"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "client errors must not consume retry budget")
}

func TestDoZeroRetries(t *testing.T) {
	p := Policy{MaxRetries: 0, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), log.NewLogger(), func(context.Context) error {
		calls++
		return errors.New("network down")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoAbortsWaitOnCancel(t *testing.T) {
	p := Policy{
		MaxRetries:   3,
		InitialDelay: 10 * time.Second,
		MaxDelay:     10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	err := p.Do(ctx, log.NewLogger(), func(context.Context) error {
		cancel()
		return errors.New("network down")
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "cancellation must abort the backoff wait")
	assert.Contains(t, err.Error(), "network down")
}
