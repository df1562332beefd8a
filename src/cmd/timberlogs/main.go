// timberlogs ships lines from stdin to the timberlogs ingestion service.
// Each non-empty line becomes one structured log entry; batching, periodic
// flushing and retries are handled by the client engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"timberlogs/src/internal/client"
	"timberlogs/src/internal/config"
	"timberlogs/src/internal/core"
	"timberlogs/src/internal/version"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

var logger *log.Logger

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Println(version.String())
			os.Exit(0)
		}
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := initializeLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer shutdownLogger()

	// A session id ties together everything shipped by this invocation.
	if cfg.Client.SessionID == "" {
		cfg.Client.SessionID = uuid.NewString()
	}

	level, ok := core.ParseLevel(cfg.Input.Level)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid input.level %q\n", cfg.Input.Level)
		os.Exit(1)
	}

	c, err := client.New(&cfg.Client, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("msg", "Shipper starting",
		"version", version.String(),
		"source", cfg.Client.Source,
		"session_id", cfg.Client.SessionID,
		"rate_limit", cfg.Input.RateLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("msg", "Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	exitCode := ship(ctx, c, level, cfg.Input)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := c.Disconnect(shutdownCtx); err != nil {
		logger.Error("msg", "Final flush failed", "error", err.Error())
		exitCode = 1
	}

	stats := c.GetStats()
	logger.Info("msg", "Shipper finished",
		"total_queued", stats.TotalQueued,
		"total_batches", stats.TotalBatches,
		"failed_batches", stats.FailedBatches)
	os.Exit(exitCode)
}

// ship reads stdin until EOF or cancellation, queueing one entry per line.
func ship(ctx context.Context, c *client.Client, level core.Level, input config.InputConfig) int {
	var limiter *rate.Limiter
	if input.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(input.RateLimit), input.RateBurst)
	}

	lines := readLines(ctx)
	for {
		select {
		case <-ctx.Done():
			return 0
		case line, ok := <-lines:
			if !ok {
				return 0
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return 0
				}
			}
			if err := c.Log(core.Entry{Level: level, Message: line}); err != nil {
				logger.Warn("msg", "Line rejected", "error", err.Error())
			}
		}
	}
}

func readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := newStdinScanner()
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
