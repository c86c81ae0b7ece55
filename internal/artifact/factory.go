package artifact

import (
	"context"
	"fmt"

	"musegen/internal/config"
	"musegen/internal/muse"
)

// NewStoreFromConfig creates an ArtifactStore based on the artifacts config
// type. encryptor is only consulted when cfg.Encrypted is set.
func NewStoreFromConfig(cfg config.ArtifactsConfig, encryptor muse.Encryptor, clock muse.Clock) (muse.ArtifactStore, error) {
	var store muse.ArtifactStore
	var err error

	switch cfg.Type {
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem artifact store requires root to be set")
		}
		store, err = NewFileStore(cfg.Root, clock)
	case "s3":
		store, err = NewS3Store(context.Background(), S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}, clock)
	case "memory":
		store = NewMemoryStore(clock)
	default:
		return nil, fmt.Errorf("unknown artifact store type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Encrypted {
		if encryptor == nil {
			return nil, fmt.Errorf("encrypted artifacts require an encryptor")
		}
		store = NewEncryptedStore(store, encryptor)
	}
	return store, nil
}
