package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"interact-nearest/addon/logging"
)

// ZstdFile writes compressed NDJSON, one file per UTC hour. These are
// the archives the replay tool reads back, so the format stays plain
// one-event-per-line JSON under the compression.
type ZstdFile struct {
	path string

	mu      sync.Mutex
	curHour string
	file    *os.File
	enc     *zstd.Encoder
	writer  *bufio.Writer
	nowFn   func() time.Time
}

// NewZstdFile derives hourly file names from path: a configured
// "Logs/interact_events.jsonl" becomes
// "Logs/interact_events-2026-01-02-15.jsonl.zst".
func NewZstdFile(path string) *ZstdFile {
	if path == "" {
		path = "Logs/interact_events.jsonl"
	}
	return &ZstdFile{path: path, nowFn: time.Now}
}

func (s *ZstdFile) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hour := s.nowFn().UTC().Format("2006-01-02-15")
	if hour != s.curHour {
		if err := s.rotateLocked(hour); err != nil {
			return err
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return err
	}
	return s.writer.Flush()
}

func (s *ZstdFile) rotateLocked(hour string) error {
	if err := s.closeLocked(); err != nil {
		return err
	}
	path := s.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		file.Close()
		return err
	}
	s.file = file
	s.enc = enc
	s.writer = bufio.NewWriterSize(enc, 128*1024)
	s.curHour = hour
	return nil
}

func (s *ZstdFile) closeLocked() error {
	var encErr error
	if s.writer != nil {
		s.writer.Flush()
	}
	if s.enc != nil {
		encErr = s.enc.Close()
		s.enc = nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.writer = nil
	return encErr
}

func (s *ZstdFile) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *ZstdFile) pathForHour(hour string) string {
	dir := filepath.Dir(s.path)
	base := filepath.Base(s.path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, fmt.Sprintf("%s-%s.jsonl.zst", base, hour))
}
