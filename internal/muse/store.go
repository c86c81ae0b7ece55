package muse

// RecordStore is the durable store of Creation records, fronted by a cache.
// The durable layer is the single source of truth: a cached view may be
// dropped and rebuilt from it at any time without semantic loss. Writes must
// reach durable storage before they become visible through the cache.
type RecordStore interface {
	// Put durably stores a new creation, then makes it visible in the cache.
	// IDs are never reused: storing a duplicate ID is an error.
	Put(creation *Creation) error

	// Get returns the creation with the given ID, or nil if none exists.
	// Cache hits are served directly; misses read through and populate.
	Get(id string) (*Creation, error)

	// SetModel records the one allowed mutation: filling in the model path
	// on a partial creation, transitioning it to complete.
	SetModel(id string, modelPath string) error

	// ListRecent returns at most limit creations, newest first.
	// Ordering is by CreatedAt descending, ties broken by ID descending.
	ListRecent(limit int) ([]*Creation, error)

	// Search scans all persisted records and returns those where every term
	// occurs as a case-insensitive substring of the original prompt, the
	// enhanced prompt, or any tag. Ordering matches ListRecent.
	Search(terms []string) ([]*Creation, error)

	// Close releases the underlying storage.
	Close() error
}

// ArtifactKind partitions binary artifacts by what produced them.
type ArtifactKind string

const (
	ArtifactImage ArtifactKind = "image"
	ArtifactModel ArtifactKind = "model"
)

// ArtifactStore persists generated binary artifacts. Paths are deterministic
// for a given (id, kind, timestamp) and are returned only after the bytes are
// fully and durably written. A path is write-once: it is never reassigned to
// different bytes.
type ArtifactStore interface {
	// Save durably writes data and returns the path it is reachable under.
	Save(id string, kind ArtifactKind, data []byte) (string, error)

	// Load reads back the bytes at a previously returned path.
	Load(path string) ([]byte, error)

	// Exists reports whether the path still resolves to stored bytes.
	// Never fails: a missing path reports false.
	Exists(path string) bool

	// Size reports the stored size in bytes, or 0 for a missing path.
	Size(path string) int64
}

// Encryptor transforms artifact payloads for at-rest encryption.
type Encryptor interface {
	Encrypt(data []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
}
