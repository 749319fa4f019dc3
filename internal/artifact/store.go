// Package artifact manages synthesized audio files on disk: naming, lookup by
// identifier, size accounting and age-based eviction.
//
// The output directory itself is the index: every artifact filename embeds a
// timestamp and the artifact's unique identifier, so lookup is a directory
// scan. This trades lookup cost for simplicity, which is acceptable because
// cardinality is bounded by the eviction policy.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"

	"github.com/book-expert/tts-api/internal/core"
)

// File and directory permissions.
const (
	filePermissions = 0o600
	dirPermissions  = 0o750
)

// Filename building blocks: <prefix>_<timestamp>_<id>.<ext> for single
// requests, <batchPrefix>_<timestamp>_<index>_<id>.<ext> for batch items.
const (
	filenamePrefix      = "tts"
	batchFilenamePrefix = "tts_batch"
	timestampLayout     = "20060102_150405"
)

// Recognized artifact extensions.
const (
	extWAV = ".wav"
	extMP3 = ".mp3"
)

// Media types served for recognized extensions.
const (
	mediaTypeWAV = "audio/wav"
	mediaTypeMP3 = "audio/mpeg"
)

const writeProbeName = ".write_probe"

// Log formats.
const (
	logFmtEvicted     = "Evicted artifact %s (age %s)"
	logFmtEvictFailed = "Failed to evict artifact %s: %v"
)

// Artifact is one synthesized audio file plus its identifying metadata.
type Artifact struct {
	ID        string
	Path      string
	Format    string
	Size      int64
	CreatedAt time.Time
}

// MediaType returns the HTTP content type for the artifact's format.
func (a Artifact) MediaType() string {
	if a.Format == core.FormatMP3 {
		return mediaTypeMP3
	}

	return mediaTypeWAV
}

// Stats aggregates over all recognized artifacts currently on disk.
type Stats struct {
	Count      int
	TotalBytes int64
}

// Store persists and retrieves audio artifacts in a single directory.
// Concurrent writers are safe because every artifact gets a unique filename.
type Store struct {
	dir string
	log *logger.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, log *logger.Logger) (*Store, error) {
	err := os.MkdirAll(dir, dirPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	return &Store{dir: dir, log: log}, nil
}

// Dir returns the output directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Write persists audio bytes as a new artifact with a freshly generated
// identifier and returns its metadata. Zero-length input is rejected: an
// empty result from the engine is a failure, not a valid empty artifact.
func (s *Store) Write(data []byte, format string) (Artifact, error) {
	return s.write(data, format, "")
}

// WriteBatchItem persists one batch item's audio, embedding the item's input
// index in the filename alongside the identifier.
func (s *Store) WriteBatchItem(data []byte, format string, index int) (Artifact, error) {
	return s.write(data, format, fmt.Sprintf("%d_", index))
}

func (s *Store) write(data []byte, format, marker string) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, core.ErrEmptyAudio
	}

	id := uuid.NewString()
	now := time.Now()
	prefix := filenamePrefix

	if marker != "" {
		prefix = batchFilenamePrefix
	}

	filename := fmt.Sprintf(
		"%s_%s_%s%s.%s",
		prefix,
		now.Format(timestampLayout),
		marker,
		id,
		normalizeFormat(format),
	)
	path := filepath.Join(s.dir, filename)

	err := os.WriteFile(path, data, filePermissions)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", core.ErrStorageWrite, err)
	}

	return Artifact{
		ID:        id,
		Path:      path,
		Format:    normalizeFormat(format),
		Size:      int64(len(data)),
		CreatedAt: now,
	}, nil
}

// Find scans the output directory for an artifact whose filename contains the
// identifier and carries a recognized audio extension. If several files match
// (which unique identifiers should prevent), the first in directory order
// wins; this is a known limitation, not a guaranteed tie-break.
func (s *Store) Find(id string) (Artifact, error) {
	if id == "" {
		return Artifact{}, fmt.Errorf("%w: empty identifier", core.ErrArtifactNotFound)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to scan output directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isRecognizedAudioFile(name) {
			continue
		}

		if !strings.Contains(name, id) {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return Artifact{}, fmt.Errorf("failed to stat artifact %s: %w", name, infoErr)
		}

		return Artifact{
			ID:        id,
			Path:      filepath.Join(s.dir, name),
			Format:    strings.TrimPrefix(filepath.Ext(name), "."),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		}, nil
	}

	return Artifact{}, fmt.Errorf("%w: %s", core.ErrArtifactNotFound, id)
}

// EvictOlderThan deletes recognized artifacts whose age exceeds maxAge and
// returns how many were removed. Failures deleting an individual file are
// logged and do not abort the remaining scan. Age is measured from the file's
// modification time, which for write-once artifacts is the creation time, so
// a file is never evicted mid-write.
func (s *Store) EvictOlderThan(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to scan output directory: %w", err)
	}

	removed := 0
	now := time.Now()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isRecognizedAudioFile(name) {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			s.log.Warn(logFmtEvictFailed, name, infoErr)

			continue
		}

		age := now.Sub(info.ModTime())
		if age <= maxAge {
			continue
		}

		removeErr := os.Remove(filepath.Join(s.dir, name))
		if removeErr != nil {
			s.log.Warn(logFmtEvictFailed, name, removeErr)

			continue
		}

		removed++

		s.log.Info(logFmtEvicted, name, age.Truncate(time.Second))
	}

	return removed, nil
}

// Stats aggregates count and total size over all recognized artifacts.
func (s *Store) Stats() (Stats, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to scan output directory: %w", err)
	}

	var stats Stats

	for _, entry := range entries {
		if entry.IsDir() || !isRecognizedAudioFile(entry.Name()) {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}

		stats.Count++
		stats.TotalBytes += info.Size()
	}

	return stats, nil
}

// Writable reports whether the output directory currently accepts writes,
// verified with a short-lived probe file.
func (s *Store) Writable() bool {
	probe := filepath.Join(s.dir, writeProbeName)

	err := os.WriteFile(probe, []byte{}, filePermissions)
	if err != nil {
		return false
	}

	removeErr := os.Remove(probe)
	if removeErr != nil {
		s.log.Warn("Failed to remove write probe %s: %v", probe, removeErr)
	}

	return true
}

func isRecognizedAudioFile(name string) bool {
	switch filepath.Ext(name) {
	case extWAV, extMP3:
		return true
	default:
		return false
	}
}

func normalizeFormat(format string) string {
	if strings.ToLower(format) == core.FormatMP3 {
		return core.FormatMP3
	}

	return core.FormatWAV
}
