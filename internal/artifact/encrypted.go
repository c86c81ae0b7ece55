package artifact

import (
	"fmt"

	"musegen/internal/muse"
)

// EncryptedStore wraps another ArtifactStore, encrypting bytes before they
// are written and decrypting them on load. Exists and Size delegate to the
// inner store, so Size reports the stored (encrypted) size.
type EncryptedStore struct {
	inner     muse.ArtifactStore
	encryptor muse.Encryptor
}

// NewEncryptedStore wraps inner with at-rest encryption.
func NewEncryptedStore(inner muse.ArtifactStore, encryptor muse.Encryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, encryptor: encryptor}
}

func (s *EncryptedStore) Save(id string, kind muse.ArtifactKind, data []byte) (string, error) {
	ciphertext, err := s.encryptor.Encrypt(data)
	if err != nil {
		return "", fmt.Errorf("encrypting artifact: %w", err)
	}
	return s.inner.Save(id, kind, ciphertext)
}

func (s *EncryptedStore) Load(path string) ([]byte, error) {
	ciphertext, err := s.inner.Load(path)
	if err != nil {
		return nil, err
	}
	data, err := s.encryptor.Decrypt(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypting artifact: %w", err)
	}
	return data, nil
}

func (s *EncryptedStore) Exists(path string) bool { return s.inner.Exists(path) }

func (s *EncryptedStore) Size(path string) int64 { return s.inner.Size(path) }

// Compile-time check that EncryptedStore implements muse.ArtifactStore.
var _ muse.ArtifactStore = (*EncryptedStore)(nil)
