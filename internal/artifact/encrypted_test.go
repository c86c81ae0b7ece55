package artifact_test

import (
	"bytes"
	"testing"

	"musegen/internal/artifact"
	"musegen/internal/encryption"
	"musegen/internal/muse"
	"musegen/internal/testutil"
)

func TestEncryptedStore(t *testing.T) {
	t.Parallel()

	t.Run("round trip through encryption", func(t *testing.T) {
		t.Parallel()
		inner := artifact.NewMemoryStore(testutil.NewStubClock())
		store := artifact.NewEncryptedStore(inner, encryption.NewTestEncryptor())

		data := []byte("png-bytes")
		path, err := store.Save("abc-123", muse.ArtifactImage, data)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := store.Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Load: want %q, got %q", data, got)
		}
	})

	t.Run("stored bytes are not plaintext", func(t *testing.T) {
		t.Parallel()
		inner := artifact.NewMemoryStore(testutil.NewStubClock())
		store := artifact.NewEncryptedStore(inner, encryption.NewTestEncryptor())

		data := []byte("png-bytes")
		path, err := store.Save("abc-123", muse.ArtifactImage, data)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		raw, err := inner.Load(path)
		if err != nil {
			t.Fatalf("inner Load: %v", err)
		}
		if bytes.Equal(raw, data) {
			t.Error("stored bytes equal the plaintext")
		}
	})

	t.Run("size reports the stored size", func(t *testing.T) {
		t.Parallel()
		inner := artifact.NewMemoryStore(testutil.NewStubClock())
		store := artifact.NewEncryptedStore(inner, encryption.NewTestEncryptor())

		data := []byte("png-bytes")
		path, err := store.Save("abc-123", muse.ArtifactImage, data)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}

		if !store.Exists(path) {
			t.Errorf("Exists(%q) = false", path)
		}
		if got := store.Size(path); got != inner.Size(path) {
			t.Errorf("Size: want %d, got %d", inner.Size(path), got)
		}
	})
}
