// Package journalstore persists journal documents as one JSON file per
// calendar date. The web UI and agent tooling edit the same files, so
// the store watches its directory and drops cached documents when their
// backing file changes on disk.
package journalstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/journal"
)

// datePattern validates ISO date keys before they touch the filesystem.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ErrInvalidDate reports a date key that is not an ISO calendar date.
var ErrInvalidDate = errors.New("invalid date: must be YYYY-MM-DD")

// FileStore implements journal.Store over a directory of per-date files.
type FileStore struct {
	dir    string
	logger *zap.Logger

	mu      sync.RWMutex
	cache   map[string]*journal.Document
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a file store rooted at dir, defaulting to
// ~/.config/daybook/journal. The directory is created with owner-only
// permissions.
func New(dir string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "daybook", "journal")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		logger: logger,
		cache:  make(map[string]*journal.Document),
		done:   make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create journal watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch journal directory: %w", err)
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

// watch invalidates cached documents whose files change underneath us.
func (s *FileStore) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			date := strings.TrimSuffix(filepath.Base(event.Name), ".json")
			if !datePattern.MatchString(date) {
				continue
			}
			s.mu.Lock()
			if _, cached := s.cache[date]; cached {
				delete(s.cache, date)
				s.logger.Debug("evicted journal from cache",
					zap.String("date", date),
					zap.String("op", event.Op.String()),
				)
			}
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("journal watcher error", zap.Error(err))
		}
	}
}

func (s *FileStore) path(date string) (string, error) {
	if !datePattern.MatchString(date) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return filepath.Join(s.dir, date+".json"), nil
}

// Read loads the document for a date, or returns nil when none exists.
func (s *FileStore) Read(date string) (*journal.Document, error) {
	s.mu.RLock()
	if doc, ok := s.cache[date]; ok {
		s.mu.RUnlock()
		return cloneDocument(doc)
	}
	s.mu.RUnlock()

	path, err := s.path(date)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal %s: %w", date, err)
	}

	var doc journal.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("journal %s corrupted: %w", date, err)
	}
	if doc.Date == "" {
		doc.Date = date
	}

	s.mu.Lock()
	s.cache[date] = &doc
	s.mu.Unlock()

	return cloneDocument(&doc)
}

// Write persists the whole document in one atomic rename.
func (s *FileStore) Write(date string, doc *journal.Document) error {
	path, err := s.path(date)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode journal %s: %w", date, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write journal %s: %w", date, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace journal %s: %w", date, err)
	}

	// The file is durable from here on; caching is best effort. On a
	// clone failure drop any stale entry so the next Read hits disk.
	s.mu.Lock()
	if cached, cloneErr := cloneForCache(doc); cloneErr == nil {
		s.cache[date] = cached
	} else {
		delete(s.cache, date)
		s.logger.Warn("failed to cache journal after write",
			zap.String("date", date),
			zap.Error(cloneErr),
		)
	}
	s.mu.Unlock()
	return nil
}

// Dates lists the ISO dates that have a persisted document, unsorted.
func (s *FileStore) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal directory: %w", err)
	}
	var dates []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".json")
		if !e.IsDir() && datePattern.MatchString(name) && strings.HasSuffix(e.Name(), ".json") {
			dates = append(dates, name)
		}
	}
	return dates, nil
}

// Close stops the directory watcher.
func (s *FileStore) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	return s.watcher.Close()
}

// cloneForCache is swappable in tests to exercise the cache-miss path
// after a durable write.
var cloneForCache = cloneDocument

// cloneDocument deep-copies through JSON so callers never share entry
// pointers with the cache.
func cloneDocument(doc *journal.Document) (*journal.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to clone journal document: %w", err)
	}
	var out journal.Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to clone journal document: %w", err)
	}
	return &out, nil
}
