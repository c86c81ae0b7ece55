package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for musegen.
type Config struct {
	BaseDir     string           `toml:"base_dir"`
	LogDir      string           `toml:"log_dir"`
	DefaultUser string           `toml:"default_user"`
	Datastore   DatastoreConfig  `toml:"datastore"`
	Artifacts   ArtifactsConfig  `toml:"artifacts"`
	Encryption  EncryptionConfig `toml:"encryption"`
	Services    ServicesConfig   `toml:"services"`
	Query       QueryConfig      `toml:"query"`
}

// DatastoreConfig represents configuration for the creation record store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatastoreConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ArtifactsConfig represents configuration for the binary artifact store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArtifactsConfig struct {
	Type string `toml:"type"` // "filesystem", "s3", or "memory"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// Encrypted wraps the store so artifact bytes are encrypted at rest.
	Encrypted bool `toml:"encrypted"`
}

// EncryptionConfig holds paths to the age key pair used for artifact encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// ServicesConfig holds endpoints and behavior for the external collaborators:
// the prompt enhancer and the remote generation services.
type ServicesConfig struct {
	Enhancer       string `toml:"enhancer"`  // "local" (default) or "none"
	ImageURL       string `toml:"image_url"` // text-to-image service endpoint
	ModelURL       string `toml:"model_url"` // image-to-3D service endpoint
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// QueryConfig holds memory query behavior.
type QueryConfig struct {
	DefaultLimit int `toml:"default_limit"` // rows returned by a plain listing
}

// NewConfig creates a new Config rooted at baseDir with default values.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Datastore: DatastoreConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Artifacts: ArtifactsConfig{
			Type: "filesystem",
			Root: filepath.Join(baseDir, "datastore"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "musegen.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "musegen.key"),
		},
		Services: ServicesConfig{
			Enhancer:       "local",
			TimeoutSeconds: 60,
			MaxRetries:     3,
		},
		Query: QueryConfig{
			DefaultLimit: 5,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
