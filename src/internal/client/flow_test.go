package client

import (
	"context"
	"sync"
	"testing"

	"timberlogs/src/internal/config"
	"timberlogs/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowSteps(t *testing.T) {
	srv := newIngestServer()
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.BatchSize = 100
	c := newTestClient(t, opts)

	flow, err := c.Flow(context.Background(), "checkout")
	require.NoError(t, err)
	assert.Equal(t, "flow_1", flow.ID())
	assert.Equal(t, "checkout", flow.Name())

	require.NoError(t, flow.Info("cart opened", nil))
	require.NoError(t, flow.Info("payment entered", nil))
	require.NoError(t, flow.Info("order placed", nil))
	require.NoError(t, c.Flush(context.Background()))

	records := srv.allRecords()
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, "flow_1", rec.FlowID)
		require.NotNil(t, rec.StepIndex)
		assert.Equal(t, i, *rec.StepIndex)
	}
}

func TestFlowCreationFailure(t *testing.T) {
	srv := newIngestServer()
	defer srv.Close()

	c := newTestClient(t, testOptions(srv.URL))

	srv.failRemaining.Store(1000)
	_, err := c.Flow(context.Background(), "doomed")
	require.Error(t, err)

	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Status)
}

func TestFlowCreationRetries(t *testing.T) {
	srv := newIngestServer()
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.Retry = config.RetryOptions{MaxRetries: 1, InitialDelayMS: 1, MaxDelayMS: 4}
	c := newTestClient(t, opts)

	srv.failRemaining.Store(1)
	flow, err := c.Flow(context.Background(), "resilient")
	require.NoError(t, err)
	assert.Equal(t, "flow_1", flow.ID())
	assert.Equal(t, int32(2), srv.requests.Load())
}

func TestFlowEmptyName(t *testing.T) {
	srv := newIngestServer()
	defer srv.Close()

	c := newTestClient(t, testOptions(srv.URL))
	_, err := c.Flow(context.Background(), "")

	var valErr *core.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, int32(0), srv.requests.Load())
}

func TestFlowLevelsAndTags(t *testing.T) {
	srv := newIngestServer()
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.BatchSize = 100
	c := newTestClient(t, opts)

	flow, err := c.Flow(context.Background(), "deploy")
	require.NoError(t, err)

	require.NoError(t, flow.Debug("starting", nil))
	require.NoError(t, flow.Warn("slow step", nil))
	require.NoError(t, flow.Error("rollback", nil))
	require.NoError(t, flow.LogWithLevel(core.LevelInfo, "tagged", nil, []string{"deploy", "ci"}))
	require.NoError(t, c.Flush(context.Background()))

	records := srv.allRecords()
	require.Len(t, records, 4)
	assert.Equal(t, core.LevelDebug, records[0].Level)
	assert.Equal(t, core.LevelWarn, records[1].Level)
	assert.Equal(t, core.LevelError, records[2].Level)
	assert.Equal(t, core.LevelInfo, records[3].Level)
	assert.Equal(t, []string{"deploy", "ci"}, records[3].Tags)
}

func TestFlowConcurrentStepsUnique(t *testing.T) {
	srv := newIngestServer()
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.BatchSize = 1000
	c := newTestClient(t, opts)

	flow, err := c.Flow(context.Background(), "concurrent")
	require.NoError(t, err)

	const workers = 10
	const perWorker = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				assert.NoError(t, flow.Info("step", nil))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, c.Flush(context.Background()))

	records := srv.allRecords()
	require.Len(t, records, workers*perWorker)

	seen := make(map[int]bool)
	for _, rec := range records {
		require.NotNil(t, rec.StepIndex)
		assert.False(t, seen[*rec.StepIndex], "step %d emitted twice", *rec.StepIndex)
		seen[*rec.StepIndex] = true
	}
	for step := 0; step < workers*perWorker; step++ {
		assert.True(t, seen[step], "step %d missing", step)
	}
}

func TestSeparateFlowsHaveIndependentSteps(t *testing.T) {
	srv := newIngestServer()
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.BatchSize = 100
	c := newTestClient(t, opts)

	first, err := c.Flow(context.Background(), "first")
	require.NoError(t, err)
	second, err := c.Flow(context.Background(), "second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	require.NoError(t, first.Info("a", nil))
	require.NoError(t, second.Info("b", nil))
	require.NoError(t, first.Info("c", nil))
	require.NoError(t, c.Flush(context.Background()))

	records := srv.allRecords()
	require.Len(t, records, 3)
	assert.Equal(t, 0, *records[0].StepIndex)
	assert.Equal(t, 0, *records[1].StepIndex)
	assert.Equal(t, 1, *records[2].StepIndex)
	assert.Equal(t, first.ID(), records[0].FlowID)
	assert.Equal(t, second.ID(), records[1].FlowID)
}
