package client

import (
	"context"
	"sync/atomic"

	"timberlogs/src/internal/core"
)

// Flow groups related entries under a server-assigned id with a strictly
// increasing step counter. A Flow owns only its counter; buffering and
// flushing belong to the client it was created from.
type Flow struct {
	id     string
	name   string
	client *Client
	step   atomic.Int64
}

// Flow registers a named flow with the ingestion service and returns a
// handle starting at step 0. The registration request goes through the
// same retry policy as submissions.
func (c *Client) Flow(ctx context.Context, name string) (*Flow, error) {
	if name == "" {
		return nil, core.Validationf("flow name must not be empty")
	}

	var info core.FlowInfo
	err := c.retry.Do(ctx, c.logger, func(context.Context) error {
		var err error
		info, err = c.transport.CreateFlow(name)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Flow{id: info.FlowID, name: info.Name, client: c}, nil
}

// ID returns the server-assigned flow id.
func (f *Flow) ID() string {
	return f.id
}

// Name returns the flow name as registered by the server.
func (f *Flow) Name() string {
	return f.name
}

// Debug queues a debug-level entry in this flow.
func (f *Flow) Debug(message string, data map[string]any) error {
	return f.LogWithLevel(core.LevelDebug, message, data, nil)
}

// Info queues an info-level entry in this flow.
func (f *Flow) Info(message string, data map[string]any) error {
	return f.LogWithLevel(core.LevelInfo, message, data, nil)
}

// Warn queues a warn-level entry in this flow.
func (f *Flow) Warn(message string, data map[string]any) error {
	return f.LogWithLevel(core.LevelWarn, message, data, nil)
}

// Error queues an error-level entry in this flow.
func (f *Flow) Error(message string, data map[string]any) error {
	return f.LogWithLevel(core.LevelError, message, data, nil)
}

// LogWithLevel queues an entry tagged with the flow id and the next step.
// The step fetch-and-increment is atomic, so concurrent calls on one flow
// never emit the same step value. Steps are consumed even when the entry
// fails validation; the sequence is never reused.
func (f *Flow) LogWithLevel(level core.Level, message string, data map[string]any, tags []string) error {
	step := int(f.step.Add(1) - 1)
	return f.client.Log(core.Entry{
		Level:     level,
		Message:   message,
		Data:      data,
		Tags:      tags,
		FlowID:    f.id,
		StepIndex: &step,
	})
}
