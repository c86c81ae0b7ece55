package record

import (
	"fmt"
	"os"
	"path/filepath"

	"musegen/internal/config"
	"musegen/internal/muse"
)

// NewStoreFromConfig creates a RecordStore based on the datastore config type.
func NewStoreFromConfig(cfg config.DatastoreConfig) (muse.RecordStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite datastore")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "creations.db"))
	case "memory":
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("unknown datastore type: %s", cfg.Type)
	}
}
