package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultArtifactMaxAge is how long synthesized clips stay on disk
	// before the cleanup sweep removes them.
	DefaultArtifactMaxAge = 10 * time.Minute
	// DefaultCleanupInterval is how often the cleanup sweep runs.
	DefaultCleanupInterval = 5 * time.Minute

	artifactPrefix = "tts_"
)

// ArtifactStore keeps synthesized audio clips in a local directory so
// the HTTP layer can serve them by URL. Clips are ephemeral: a periodic
// sweep deletes anything older than the configured age.
type ArtifactStore struct {
	dir    string
	maxAge time.Duration
	logger *logrus.Logger
}

// NewArtifactStore creates the artifact directory if needed.
func NewArtifactStore(dir string, logger *logrus.Logger) (*ArtifactStore, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &ArtifactStore{
		dir:    dir,
		maxAge: DefaultArtifactMaxAge,
		logger: logger,
	}, nil
}

// Dir returns the artifact directory path.
func (s *ArtifactStore) Dir() string { return s.dir }

// Save writes an MP3 clip under a unique name and returns the name.
func (s *ArtifactStore) Save(data []byte) (string, error) {
	name := artifactPrefix + uuid.New().String() + ".mp3"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write audio artifact: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"filename": name,
		"size":     len(data),
	}).Debug("Stored audio artifact")

	return name, nil
}

// CleanupOld removes clips older than the store's max age and returns
// the number removed.
func (s *ArtifactStore) CleanupOld() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to scan artifact directory")
		return 0
	}

	now := time.Now()
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), artifactPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > s.maxAge {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"filename": entry.Name(),
				}).Warn("Failed to remove old audio artifact")
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		s.logger.WithFields(logrus.Fields{
			"removed": removed,
		}).Info("Cleaned up old audio artifacts")
	}

	return removed
}

// RunCleanup sweeps the artifact directory on an interval until the
// context is cancelled.
func (s *ArtifactStore) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CleanupOld()
		}
	}
}
