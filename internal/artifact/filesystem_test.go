package artifact_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"musegen/internal/artifact"
	"musegen/internal/muse"
	"musegen/internal/testutil"
)

func newFileStore(t *testing.T) (*artifact.FileStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := artifact.NewFileStore(root, testutil.NewStubClock())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store, root
}

func TestFileStoreSaveLoad(t *testing.T) {
	t.Parallel()

	t.Run("image round trip", func(t *testing.T) {
		t.Parallel()
		store, root := newFileStore(t)

		data := []byte("png-bytes")
		path, err := store.Save("abc-123", muse.ArtifactImage, data)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		if !strings.HasPrefix(path, filepath.Join(root, "images")) {
			t.Errorf("image saved outside images dir: %s", path)
		}

		got, err := store.Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Load: want %q, got %q", data, got)
		}
	})

	t.Run("model round trip", func(t *testing.T) {
		t.Parallel()
		store, root := newFileStore(t)

		data := []byte("glb-bytes")
		path, err := store.Save("abc-123", muse.ArtifactModel, data)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		if !strings.HasPrefix(path, filepath.Join(root, "models")) {
			t.Errorf("model saved outside models dir: %s", path)
		}

		got, err := store.Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Load: want %q, got %q", data, got)
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		t.Parallel()
		store, root := newFileStore(t)

		if _, err := store.Save("abc-123", muse.ArtifactImage, []byte("data")); err != nil {
			t.Fatalf("Save: %v", err)
		}

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".tmp-") {
				t.Errorf("leftover temp file: %s", path)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walking root: %v", err)
		}
	})
}

func TestFileName(t *testing.T) {
	t.Parallel()

	imageName := artifact.FileName("abc-123", muse.ArtifactImage, testutil.FixedTime)
	if imageName != "img_abc-123_20240115103000.png" {
		t.Errorf("image name: got %q", imageName)
	}

	modelName := artifact.FileName("abc-123", muse.ArtifactModel, testutil.FixedTime)
	if modelName != "model_abc-123_20240115103000.glb" {
		t.Errorf("model name: got %q", modelName)
	}

	pattern := regexp.MustCompile(`^img_[^_]+_\d{14}\.png$`)
	if !pattern.MatchString(imageName) {
		t.Errorf("image name %q does not match the naming pattern", imageName)
	}
}

func TestFileStoreExistsSize(t *testing.T) {
	t.Parallel()

	store, root := newFileStore(t)

	data := []byte("png-bytes")
	path, err := store.Save("abc-123", muse.ArtifactImage, data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !store.Exists(path) {
		t.Errorf("Exists(%q) = false for a saved artifact", path)
	}
	if got := store.Size(path); got != int64(len(data)) {
		t.Errorf("Size: want %d, got %d", len(data), got)
	}

	missing := filepath.Join(root, "images", "img_nope_20240115103000.png")
	if store.Exists(missing) {
		t.Errorf("Exists(%q) = true for a missing path", missing)
	}
	if got := store.Size(missing); got != 0 {
		t.Errorf("Size of missing path: want 0, got %d", got)
	}

	// A directory is not an artifact.
	if store.Exists(filepath.Join(root, "images")) {
		t.Error("Exists reported true for a directory")
	}
}
