package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultLogLines is used when a caller does not bound the tail.
	DefaultLogLines = 100
	// MaxLogLines bounds any single tail request.
	MaxLogLines = 1000

	logCommandTimeout = 10 * time.Second
	tailReadWindow    = 1 << 20 // read at most 1 MiB from the file end
)

// logFiles maps a log type to candidate file paths, first readable wins.
var logFiles = map[string][]string{
	"syslog": {"/var/log/syslog", "/var/log/messages"},
	"auth":   {"/var/log/auth.log", "/var/log/secure"},
	"kernel": {"/var/log/kern.log"},
}

// LogTypes lists the accepted log_type values in schema order.
func LogTypes() []string {
	return []string{"syslog", "auth", "kernel", "dmesg"}
}

// File open wrapper for testing
var openFile = func(path string) (*os.File, error) { return os.Open(path) }

// GetLogs returns the last lines of the requested system log. A missing or
// unreadable log yields an empty bundle, never an error.
func (m *Monitor) GetLogs(ctx context.Context, logType string, lines int) LogBundle {
	if lines <= 0 {
		lines = DefaultLogLines
	}
	if lines > MaxLogLines {
		lines = MaxLogLines
	}

	bundle := LogBundle{
		LogType:        logType,
		LinesRequested: lines,
		CollectedAt:    nowFn(),
	}

	collectCtx, cancel := context.WithTimeout(ctx, logCommandTimeout)
	defer cancel()

	if logType == "dmesg" {
		bundle.Lines = m.readKernelRingBuffer(collectCtx, lines)
		bundle.LinesReturned = len(bundle.Lines)
		return bundle
	}

	for _, path := range logFiles[logType] {
		entries, err := tailFile(path, lines)
		if errors.Is(err, os.ErrPermission) {
			// Unreadable for us; tail(1) may still be allowed to read it.
			entries, err = m.tailCommand(collectCtx, path, lines)
		}
		if err != nil {
			continue
		}
		bundle.LogFile = path
		bundle.Lines = entries
		bundle.LinesReturned = len(entries)
		return bundle
	}

	log.Debug().Str("logType", logType).Msg("No readable log file found")
	return bundle
}

func (m *Monitor) readKernelRingBuffer(ctx context.Context, lines int) []string {
	out, err := runCommand(ctx, "dmesg", "--time-format=iso")
	if err != nil || out == "" {
		return nil
	}
	entries := strings.Split(out, "\n")
	if len(entries) > lines {
		entries = entries[len(entries)-lines:]
	}
	return entries
}

func (m *Monitor) tailCommand(ctx context.Context, path string, lines int) ([]string, error) {
	out, err := runCommand(ctx, "tail", fmt.Sprintf("-%d", lines), path)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// tailFile reads the last n lines of a file without slurping the whole
// thing: only a bounded window at the end is read.
func tailFile(path string, n int) ([]string, error) {
	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	offset := int64(0)
	if info.Size() > tailReadWindow {
		offset = info.Size() - tailReadWindow
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}

	entries := strings.Split(text, "\n")
	if offset > 0 && len(entries) > 0 {
		// The window likely starts mid-line; drop the partial first entry.
		entries = entries[1:]
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
