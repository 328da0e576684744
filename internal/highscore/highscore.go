// Package highscore persists finished-game HighScore records to a
// versioned, append-only text file (spec.md §6, grounded on
// original_source/src/high_scores.rs).
package highscore

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// FileVersion is written as the first line of a fresh high-score file, so a
// later format change can detect and migrate older files.
const FileVersion = 1

// HighScore is the record an engine surfaces when a game ends.
type HighScore struct {
	Score       int
	Duration    time.Duration
	PlayerNames []string
}

// Store writes HighScore records to a single append-only file, serialising
// concurrent writers from different games with one mutex (the teacher's
// original used a lock around the whole file for the same reason).
type Store struct {
	mu       sync.Mutex
	filePath string
}

// NewStore creates a Store targeting filePath, creating it with a version
// header if it doesn't already exist.
func NewStore(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}
	if err := s.ensureFileExists(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureFileExists() error {
	f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "blockarena high scores file v%d\n", FileVersion)
	return err
}

// Add appends hs to the store. Persistence errors are returned to the
// caller, who per spec.md §7 logs them to operator output and continues —
// a failed write never aborts the engine.
func (s *Store) Add(hs HighScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%d\t%s\t%v\n", hs.Score, hs.Duration.Round(time.Second), hs.PlayerNames)
	return err
}
