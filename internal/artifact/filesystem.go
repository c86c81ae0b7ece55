package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"musegen/internal/muse"
)

// FileStore is a filesystem-based implementation of the ArtifactStore
// interface. It partitions artifacts by kind:
//
//	<root>/
//	  images/
//	    img_<id>_<timestamp>.png
//	  models/
//	    model_<id>_<timestamp>.glb
//
// Writes go to a temp file in the destination directory followed by an
// atomic rename, so a returned path always refers to fully written bytes.
type FileStore struct {
	root     string
	imageDir string
	modelDir string
	clock    muse.Clock
}

// NewFileStore creates a new filesystem store rooted at the given path.
func NewFileStore(root string, clock muse.Clock) (*FileStore, error) {
	imageDir := filepath.Join(root, "images")
	modelDir := filepath.Join(root, "models")

	// Create directory structure
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	return &FileStore{
		root:     root,
		imageDir: imageDir,
		modelDir: modelDir,
		clock:    clock,
	}, nil
}

// Save durably writes data and returns the path it is reachable under.
func (s *FileStore) Save(id string, kind muse.ArtifactKind, data []byte) (string, error) {
	dir, err := s.dirFor(kind)
	if err != nil {
		return "", err
	}

	destPath := filepath.Join(dir, FileName(id, kind, s.clock.Now()))
	if err := writeFileAtomic(destPath, data); err != nil {
		return "", err
	}
	return destPath, nil
}

// Load reads back the bytes at a previously returned path.
func (s *FileStore) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return data, nil
}

// Exists reports whether the path still resolves to a file.
func (s *FileStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Size reports the file size in bytes, or 0 for a missing path.
func (s *FileStore) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *FileStore) dirFor(kind muse.ArtifactKind) (string, error) {
	switch kind {
	case muse.ArtifactImage:
		return s.imageDir, nil
	case muse.ArtifactModel:
		return s.modelDir, nil
	default:
		return "", fmt.Errorf("unknown artifact kind: %s", kind)
	}
}

// FileName builds the deterministic artifact file name for an
// (id, kind, timestamp) triple.
func FileName(id string, kind muse.ArtifactKind, t time.Time) string {
	ts := t.UTC().Format("20060102150405")
	if kind == muse.ArtifactModel {
		return fmt.Sprintf("model_%s_%s.glb", id, ts)
	}
	return fmt.Sprintf("img_%s_%s.png", id, ts)
}

// writeFileAtomic writes data to destPath using a temp file plus rename.
func writeFileAtomic(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileStore implements muse.ArtifactStore.
var _ muse.ArtifactStore = (*FileStore)(nil)
