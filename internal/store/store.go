// Package store persists the playback history log and the favorites set as
// flat text files in the tradio config directory.
package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	historyFileName   = "history"
	favoritesFileName = "favorites"

	// historyTimeLayout is the timestamp format of history lines:
	// "2024-05-01 18:03:12 - Rock FM".
	historyTimeLayout = "2006-01-02 15:04:05"
)

// HistoryEntry is one line of the history log.
type HistoryEntry struct {
	Time    time.Time
	Station string
}

// Store reads and writes the history and favorites files. Missing files are
// treated as empty; the directory is created lazily on first write.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// AppendHistory appends one play event to the history log.
func (s *Store) AppendHistory(stationName string, t time.Time) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, historyFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s - %s\n", t.Format(historyTimeLayout), stationName)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// ReadHistory returns history entries oldest first. When limit > 0, only the
// most recent limit entries are returned. Lines that don't parse are kept
// with a zero timestamp rather than dropped, so external edits never lose
// play events.
func (s *Store) ReadHistory(limit int) ([]HistoryEntry, error) {
	f, err := os.Open(filepath.Join(s.dir, historyFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, parseHistoryLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func parseHistoryLine(line string) HistoryEntry {
	ts, name, ok := strings.Cut(line, " - ")
	if !ok {
		return HistoryEntry{Station: line}
	}
	t, err := time.ParseInLocation(historyTimeLayout, ts, time.Local)
	if err != nil {
		return HistoryEntry{Station: line}
	}
	return HistoryEntry{Time: t, Station: name}
}

// AddFavorite adds a station to the favorites set. It reports whether the
// name was newly added; adding an existing favorite is a no-op.
func (s *Store) AddFavorite(name string) (bool, error) {
	favs, err := s.readFavorites()
	if err != nil {
		return false, err
	}
	for _, f := range favs {
		if f == name {
			return false, nil
		}
	}
	favs = append(favs, name)
	if err := s.writeFavorites(favs); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFavorite removes a station from the favorites set. Removing a
// non-member is a no-op.
func (s *Store) RemoveFavorite(name string) error {
	favs, err := s.readFavorites()
	if err != nil {
		return err
	}
	kept := favs[:0]
	for _, f := range favs {
		if f != name {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(favs) {
		return nil
	}
	return s.writeFavorites(kept)
}

// ListFavorites returns the favorites set.
func (s *Store) ListFavorites() (map[string]bool, error) {
	favs, err := s.readFavorites()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(favs))
	for _, f := range favs {
		set[f] = true
	}
	return set, nil
}

// IsFavorite reports whether name is in the favorites set.
func (s *Store) IsFavorite(name string) (bool, error) {
	set, err := s.ListFavorites()
	if err != nil {
		return false, err
	}
	return set[name], nil
}

func (s *Store) readFavorites() ([]string, error) {
	f, err := os.Open(filepath.Join(s.dir, favoritesFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open favorites: %w", err)
	}
	defer f.Close()

	var favs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			favs = append(favs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	return favs, nil
}

func (s *Store) writeFavorites(favs []string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	var b strings.Builder
	for _, f := range favs {
		b.WriteString(f)
		b.WriteByte('\n')
	}

	path := filepath.Join(s.dir, favoritesFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace favorites: %w", err)
	}
	return nil
}
