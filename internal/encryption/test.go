package encryption

import (
	"bytes"
	"fmt"

	"musegen/internal/muse"
)

// testHeader is prepended to data by TestEncryptor to make encrypted output
// clearly different from plaintext while remaining deterministic and reversible.
var testHeader = []byte("MUSENC\x00\x00")

// TestEncryptor is a simple, deterministic encryptor for testing.
// It prepends a fixed 8-byte header during encryption and strips it during
// decryption, so encrypted output differs from plaintext without any crypto.
type TestEncryptor struct{}

var _ muse.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Encrypt(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(testHeader)+len(data))
	out = append(out, testHeader...)
	return append(out, data...), nil
}

func (e *TestEncryptor) Decrypt(data []byte) ([]byte, error) {
	if len(data) < len(testHeader) || !bytes.Equal(data[:len(testHeader)], testHeader) {
		return nil, fmt.Errorf("invalid test encryption header")
	}
	return append([]byte(nil), data[len(testHeader):]...), nil
}
