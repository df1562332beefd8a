// The timberlogs shipping client: queues structured log entries, flushes
// them in batches on a size threshold, a periodic timer, or an explicit
// call, and retries failed submissions with exponential backoff.
package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"timberlogs/src/internal/config"
	"timberlogs/src/internal/core"
	"timberlogs/src/internal/retry"
	"timberlogs/src/internal/transport"

	"github.com/lixenwraith/log"
)

// Client buffers log entries and ships them to the ingestion service.
// All methods are safe for concurrent use. A Client keeps accepting
// entries after Disconnect, but only an explicit Flush ships them.
type Client struct {
	opts      *config.ClientOptions
	transport *transport.Transport
	retry     retry.Policy
	logger    *log.Logger

	// Pending entries, FIFO. Guarded separately from the default context
	// so context mutation never delays an append.
	bufMu  sync.Mutex
	buffer []core.Record

	// Mutable default context applied to entries at queue time.
	ctxMu     sync.Mutex
	userID    string
	sessionID string
	dataset   string

	// Guarantees a single flush cycle in flight. Held for the whole
	// cycle including retry waits; never held while appending.
	flushMu sync.Mutex

	// Background flush loop lifecycle.
	flushCh  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Statistics
	totalQueued   atomic.Uint64
	totalBatches  atomic.Uint64
	failedBatches atomic.Uint64
}

// Stats is a point-in-time snapshot of the client's counters.
type Stats struct {
	Pending       int
	TotalQueued   uint64
	TotalBatches  uint64
	FailedBatches uint64
}

// New validates the options, starts the background flush loop, and
// returns a ready client. A nil logger disables diagnostics.
func New(opts *config.ClientOptions, logger *log.Logger) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewLogger()
	}

	c := &Client{
		opts:      opts,
		transport: transport.New(opts, logger),
		retry: retry.Policy{
			MaxRetries:   opts.Retry.MaxRetries,
			InitialDelay: opts.Retry.InitialDelay(),
			MaxDelay:     opts.Retry.MaxDelay(),
		},
		logger:    logger,
		buffer:    make([]core.Record, 0, opts.BatchSize),
		userID:    opts.UserID,
		sessionID: opts.SessionID,
		dataset:   opts.Dataset,
		flushCh:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	c.wg.Add(1)
	go c.flushLoop()

	logger.Info("msg", "Client started",
		"component", "client",
		"source", opts.Source,
		"environment", string(opts.Environment),
		"batch_size", opts.BatchSize,
		"flush_interval_ms", opts.FlushIntervalMS)
	return c, nil
}

// Debug queues a debug-level entry.
func (c *Client) Debug(message string, data map[string]any) error {
	return c.Log(core.Entry{Level: core.LevelDebug, Message: message, Data: data})
}

// Info queues an info-level entry.
func (c *Client) Info(message string, data map[string]any) error {
	return c.Log(core.Entry{Level: core.LevelInfo, Message: message, Data: data})
}

// Warn queues a warn-level entry.
func (c *Client) Warn(message string, data map[string]any) error {
	return c.Log(core.Entry{Level: core.LevelWarn, Message: message, Data: data})
}

// Error queues an error-level entry.
func (c *Client) Error(message string, data map[string]any) error {
	return c.Log(core.Entry{Level: core.LevelError, Message: message, Data: data})
}

// Log validates an entry, merges the default context into unset fields,
// stamps a missing timestamp, and appends it to the buffer. Reaching the
// batch-size threshold triggers a background flush; the append itself
// never waits on the network. Validation failures are returned
// immediately and the entry is not buffered.
func (c *Client) Log(entry core.Entry) error {
	if entry.Level == "" {
		entry.Level = core.LevelInfo
	}
	if !entry.Level.Known() {
		return core.Validationf("unrecognized level %q", entry.Level)
	}
	if !entry.Level.AtLeast(c.opts.MinLevel) {
		return core.Validationf("level %q is below the configured minimum %q", entry.Level, c.opts.MinLevel)
	}
	if err := core.ValidateEntry(entry); err != nil {
		return err
	}

	rec := c.toRecord(entry)

	c.bufMu.Lock()
	c.buffer = append(c.buffer, rec)
	full := len(c.buffer) >= c.opts.BatchSize
	c.bufMu.Unlock()

	c.totalQueued.Add(1)
	if full {
		c.requestFlush()
	}
	return nil
}

// toRecord shapes an entry for the wire, filling unset fields from the
// default context and configuration.
func (c *Client) toRecord(entry core.Entry) core.Record {
	c.ctxMu.Lock()
	if entry.UserID == "" {
		entry.UserID = c.userID
	}
	if entry.SessionID == "" {
		entry.SessionID = c.sessionID
	}
	if entry.Dataset == "" {
		entry.Dataset = c.dataset
	}
	c.ctxMu.Unlock()

	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	return core.Record{
		Level:       entry.Level,
		Message:     entry.Message,
		Source:      c.opts.Source,
		Environment: c.opts.Environment,
		Version:     c.opts.Version,
		UserID:      entry.UserID,
		SessionID:   entry.SessionID,
		RequestID:   entry.RequestID,
		Data:        entry.Data,
		ErrorName:   entry.ErrorName,
		ErrorStack:  entry.ErrorStack,
		Tags:        entry.Tags,
		FlowID:      entry.FlowID,
		StepIndex:   entry.StepIndex,
		Dataset:     entry.Dataset,
		Timestamp:   entry.Timestamp,
		IPAddress:   entry.IPAddress,
		Country:     entry.Country,
	}
}

// SetUserID sets the default user id merged into subsequent entries.
// An empty id clears the default. Already-buffered entries keep the
// context they were queued with.
func (c *Client) SetUserID(id string) {
	c.ctxMu.Lock()
	c.userID = id
	c.ctxMu.Unlock()
}

// SetSessionID sets the default session id. An empty id clears it.
func (c *Client) SetSessionID(id string) {
	c.ctxMu.Lock()
	c.sessionID = id
	c.ctxMu.Unlock()
}

// SetDataset sets the default dataset. An empty name clears it.
func (c *Client) SetDataset(name string) {
	c.ctxMu.Lock()
	c.dataset = name
	c.ctxMu.Unlock()
}

// IngestRaw submits a pre-formatted payload directly to the endpoint,
// bypassing the buffer. The retry policy applies; the terminal outcome is
// returned to the caller.
func (c *Client) IngestRaw(ctx context.Context, body []byte, format core.RawFormat, opts core.RawOptions) error {
	return c.retry.Do(ctx, c.logger, func(context.Context) error {
		return c.transport.SubmitRaw(body, format, opts)
	})
}

// Flush forces one flush cycle and returns its outcome. An empty buffer
// flushes successfully without a network call.
func (c *Client) Flush(ctx context.Context) error {
	return c.flushOnce(ctx)
}

// Disconnect stops the background flush loop and performs one final
// flush of everything buffered at that point. Safe to call more than
// once; repeat calls only re-flush whatever accumulated since.
func (c *Client) Disconnect(ctx context.Context) error {
	c.stopOnce.Do(func() {
		close(c.done)
	})
	c.wg.Wait()

	err := c.flushOnce(ctx)
	c.logger.Info("msg", "Client disconnected",
		"component", "client",
		"total_queued", c.totalQueued.Load(),
		"total_batches", c.totalBatches.Load(),
		"failed_batches", c.failedBatches.Load())
	return err
}

// GetStats returns a snapshot of the client's counters.
func (c *Client) GetStats() Stats {
	c.bufMu.Lock()
	pending := len(c.buffer)
	c.bufMu.Unlock()

	return Stats{
		Pending:       pending,
		TotalQueued:   c.totalQueued.Load(),
		TotalBatches:  c.totalBatches.Load(),
		FailedBatches: c.failedBatches.Load(),
	}
}

// requestFlush nudges the background loop. The 1-slot channel coalesces
// triggers that arrive while a cycle is pending.
func (c *Client) requestFlush() {
	select {
	case c.flushCh <- struct{}{}:
	default:
	}
}

// flushLoop services timer ticks and threshold triggers. All background
// cycles run here, so they can never overlap each other; explicit
// flushes serialize against them through the flush mutex.
func (c *Client) flushLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.opts.FlushInterval())
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		case <-c.flushCh:
		}

		if err := c.flushOnce(context.Background()); err != nil {
			c.logger.Warn("msg", "Background flush failed",
				"component", "client",
				"error", err.Error())
			if c.opts.OnError != nil {
				c.opts.OnError(err)
			}
		}
	}
}

// flushOnce drains the buffer and submits the batch through the retry
// policy. The buffer lock is released before any network activity, so
// appends proceed during a slow cycle. On exhausted retries the batch is
// discarded: memory stays bounded against a dead endpoint and the error
// reaches the caller or the OnError callback instead.
func (c *Client) flushOnce(ctx context.Context) error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.bufMu.Lock()
	if len(c.buffer) == 0 {
		c.bufMu.Unlock()
		return nil
	}
	batch := c.buffer
	c.buffer = make([]core.Record, 0, c.opts.BatchSize)
	c.bufMu.Unlock()

	c.totalBatches.Add(1)
	err := c.retry.Do(ctx, c.logger, func(context.Context) error {
		return c.transport.SubmitBatch(batch)
	})
	if err != nil {
		c.failedBatches.Add(1)
		c.logger.Error("msg", "Batch lost after exhausting retries",
			"component", "client",
			"batch_size", len(batch),
			"max_retries", c.opts.Retry.MaxRetries,
			"error", err.Error())
		return err
	}
	return nil
}
