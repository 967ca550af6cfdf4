package sinks

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"interact-nearest/addon/logging"
)

// DebugFile is the classic line-oriented addon log: one timestamped
// line per event, rotated at open so each session starts a fresh file
// while the previous few sessions stay readable as .1/.2/.3.
type DebugFile struct {
	mu        sync.Mutex
	file      *os.File
	writer    *bufio.Writer
	flushLine bool
}

// NewDebugFile rotates any existing logs at path and opens a new one.
func NewDebugFile(cfg logging.DebugConfig) (*DebugFile, error) {
	path := cfg.FilePath
	if path == "" {
		path = "Logs/interact_debug.log"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("debug log dir: %w", err)
		}
	}
	rotateDebugLogs(path, cfg.KeepRotated)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return &DebugFile{
		file:      file,
		writer:    bufio.NewWriter(file),
		flushLine: cfg.FlushEachLine,
	}, nil
}

// rotateDebugLogs shifts path.N-1 -> path.N and path -> path.1. The
// oldest file falls off. Failures are ignored: a missing predecessor
// is the common case and a locked file must not block logging init.
func rotateDebugLogs(path string, keep int) {
	if keep <= 0 {
		keep = 3
	}
	os.Remove(fmt.Sprintf("%s.%d", path, keep))
	for i := keep - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	os.Rename(path, path+".1")
}

func (s *DebugFile) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return nil
	}
	stamp := event.Time.Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("%s [%s] inv=%d sev=%s actor=%s%s%s\n",
		stamp, event.Type, event.Invocation, event.Severity,
		formatEntity(event.Actor), formatTargets(event.Targets), formatPayload(event.Payload))
	if _, err := s.writer.WriteString(line); err != nil {
		return err
	}
	if s.flushLine {
		return s.writer.Flush()
	}
	return nil
}

func (s *DebugFile) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return nil
	}
	flushErr := s.writer.Flush()
	closeErr := s.file.Close()
	s.writer = nil
	s.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
