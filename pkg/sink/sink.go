// Package sink implements the miner's only durable, cross-process shared
// resource: the append-only output file (spec.md §4.6). Two miners can
// safely share one output path because every write is wrapped in an
// OS-level exclusive lock acquired and released around that single write.
package sink

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// Sink is an open-append-create file guarded by an advisory exclusive lock.
// The lock is taken and released per Append call rather than held for the
// Sink's lifetime, so other processes (or other miners pointed at the same
// path) interleave at line granularity.
type Sink struct {
	path string
	file *os.File
	lock *flock.Flock
}

// Open opens (creating if necessary) the file at path in append mode.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	return &Sink{
		path: path,
		file: f,
		lock: flock.New(path),
	}, nil
}

// Append acquires an exclusive lock on the output file, writes line
// followed by a newline, and releases the lock.
func (s *Sink) Append(line string) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("sink: lock %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	if _, err := s.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("sink: write %s: %w", s.path, err)
	}
	return nil
}

// Close closes the underlying file. The lock is always released after each
// Append, so Close has nothing further to unlock.
func (s *Sink) Close() error {
	return s.file.Close()
}
