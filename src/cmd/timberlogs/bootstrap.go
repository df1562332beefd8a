package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"timberlogs/src/internal/config"

	"github.com/lixenwraith/log"
)

// initializeLogger configures the shipper's diagnostic logger. This is
// the tool's own telemetry on stderr/stdout, separate from the entries
// being shipped.
func initializeLogger(cfg *config.ShipperConfig) error {
	logger = log.NewLogger()

	configArgs := []string{
		fmt.Sprintf("level=%s", cfg.Logging.Level),
		"disable_file=true",
	}

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "enable_console=false")
	case "stdout":
		configArgs = append(configArgs, "enable_console=true", "console_target=stdout")
	case "stderr":
		configArgs = append(configArgs, "enable_console=true", "console_target=stderr")
	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if err := logger.ApplyConfigString(configArgs...); err != nil {
		return err
	}
	return logger.Start()
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
		}
	}
}

func newStdinScanner() *bufio.Scanner {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
