// Package state persists the cross-invocation playback session record: the
// pid file and the now-playing marker. Every invocation of tradio reads
// these files to agree on what is currently playing.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	pidFileName    = "tradio.pid"
	markerFileName = "tradio.station"
)

// Session is the system-wide record of the single playing station.
type Session struct {
	// ID identifies the session in log lines. In-memory only.
	ID string
	// PID of the spawned player process.
	PID int
	// Station is the display name of the playing station.
	Station string
	// StartedAt is when the session was confirmed alive. In-memory only.
	StartedAt time.Time
}

// FileStore keeps the session in two flat files: the pid file holds the raw
// pid integer, the marker file the raw station name. The bare formats are
// kept for compatibility with earlier tooling that reads them directly.
type FileStore struct {
	dir string
}

// NewFileStore creates a store writing into dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// PIDPath returns the path of the pid file.
func (s *FileStore) PIDPath() string {
	return filepath.Join(s.dir, pidFileName)
}

// MarkerPath returns the path of the now-playing marker file.
func (s *FileStore) MarkerPath() string {
	return filepath.Join(s.dir, markerFileName)
}

// Read loads the persisted session. The second return is false when no
// session is recorded. A pid file with unparseable content is cleared and
// reported as no session.
func (s *FileStore) Read() (Session, bool, error) {
	data, err := os.ReadFile(s.PIDPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to read pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		// Corrupt pid file. Nothing we can act on; drop it.
		s.Clear()
		return Session{}, false, nil
	}

	sess := Session{PID: pid}
	if marker, err := os.ReadFile(s.MarkerPath()); err == nil {
		sess.Station = strings.TrimSpace(string(marker))
	}
	return sess, true, nil
}

// Write persists the session. Both files are owner-only: the pid grants
// kill rights over the player process.
func (s *FileStore) Write(sess Session) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}
	if err := os.WriteFile(s.PIDPath(), []byte(strconv.Itoa(sess.PID)), 0600); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	if err := os.WriteFile(s.MarkerPath(), []byte(sess.Station), 0600); err != nil {
		os.Remove(s.PIDPath())
		return fmt.Errorf("failed to write marker file: %w", err)
	}
	return nil
}

// Clear removes both session files. Missing files are fine.
func (s *FileStore) Clear() error {
	var firstErr error
	for _, path := range []string{s.PIDPath(), s.MarkerPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
		}
	}
	return firstErr
}
