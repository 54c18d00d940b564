package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

var (
	ErrInvalidName = errors.New("invalid media name")
	ErrTooLarge    = errors.New("media too large")
)

// generated names only, so the static route can never leave the media dir
var namePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.[a-z0-9]{1,5}$`)

type Stored struct {
	Name string
	Path string
	// URL is empty when no public host is configured.
	URL string
}

type Store struct {
	dir       string
	host      string
	retention time.Duration
	maxSize   int64
	logger    logger.Logger
}

func NewStore(cfg config.MediaConfig, publicHost string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{
		dir:       cfg.Dir,
		host:      publicHost,
		retention: cfg.Retention,
		maxSize:   cfg.MaxSize,
		logger:    log.WithField("component", "media"),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a fresh name with the given extension (".jpg").
func (s *Store) Save(data []byte, ext string) (Stored, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return Stored{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Stored{}, fmt.Errorf("write media: %w", err)
	}

	stored := Stored{Name: name, Path: path, URL: s.URL(name)}
	s.logger.WithFields(logger.Fields{
		"name": name,
		"size": len(data),
		"url":  stored.URL,
	}).Info("Media stored")
	return stored, nil
}

func (s *Store) URL(name string) string {
	if s.host == "" {
		return ""
	}
	return "https://" + s.host + "/images/" + name
}

// Open resolves a stored file by name.
func (s *Store) Open(name string) (string, error) {
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return path, nil
}

// Sweep removes stored files older than the retention window and returns how
// many were deleted. A zero retention keeps everything.
func (s *Store) Sweep(now time.Time) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read media dir: %w", err)
	}

	cutoff := now.Add(-s.retention)
	var removed int
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !namePattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Expired media swept")
	}
	return removed, errors.Join(errs...)
}
