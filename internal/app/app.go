package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"musegen/internal/artifact"
	"musegen/internal/config"
	"musegen/internal/encryption"
	"musegen/internal/enhance"
	"musegen/internal/genai"
	"musegen/internal/muse"
	"musegen/internal/record"
)

// App is the application layer between the CLI and the creation service.
// It constructs all dependencies from config, exposes high-level operations,
// and manages the store lifecycle on Close.
type App struct {
	cfg       *config.Config
	records   muse.RecordStore
	artifacts muse.ArtifactStore
	encryptor muse.Encryptor
	service   *muse.Service
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// The caller must call Close when done.
func NewApp(cfg *config.Config) (*App, error) {
	records, err := record.NewStoreFromConfig(cfg.Datastore)
	if err != nil {
		return nil, fmt.Errorf("creating record store: %w", err)
	}

	var encryptor muse.Encryptor
	if cfg.Artifacts.Encrypted {
		encryptor, err = encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			records.Close()
			return nil, fmt.Errorf("creating encryptor: %w", err)
		}
	}

	clock := muse.RealClock{}
	artifacts, err := artifact.NewStoreFromConfig(cfg.Artifacts, encryptor, clock)
	if err != nil {
		records.Close()
		return nil, fmt.Errorf("creating artifact store: %w", err)
	}

	enhancer, err := enhance.NewEnhancerFromConfig(cfg.Services)
	if err != nil {
		records.Close()
		return nil, fmt.Errorf("creating enhancer: %w", err)
	}

	timeout := time.Duration(cfg.Services.TimeoutSeconds) * time.Second
	client := genai.NewClient(timeout, cfg.Services.MaxRetries)
	generator := genai.NewImageGenerator(client, cfg.Services.ImageURL)
	converter := genai.NewModelConverter(client, cfg.Services.ModelURL)

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		records.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := muse.NewService(records, artifacts, enhancer, generator, converter,
		&slogAdapter{l: logger}, clock, muse.UUIDGenerator{}, cfg.Query.DefaultLimit)

	return &App{
		cfg:       cfg,
		records:   records,
		artifacts: artifacts,
		encryptor: encryptor,
		service:   svc,
		logFile:   logFile,
	}, nil
}

// Submit interprets input as a memory command or a generation request.
// An empty userID falls back to the configured default user, then to the
// anonymous sentinel.
func (a *App) Submit(ctx context.Context, input string, userID string) (*muse.Result, error) {
	if userID == "" {
		userID = a.cfg.DefaultUser
	}
	return a.service.Submit(ctx, input, userID)
}

// RetryModel re-runs the 3D stage for a partial creation.
func (a *App) RetryModel(ctx context.Context, id string) (*muse.Creation, error) {
	return a.service.RetryModel(ctx, id)
}

// ArtifactsEncrypted reports whether artifact reads need an unlocked key.
func (a *App) ArtifactsEncrypted() bool {
	return a.cfg.Artifacts.Encrypted
}

// Unlock makes encrypted artifacts readable with the given passphrase.
// A no-op when the configured encryptor does not hold a locked key.
func (a *App) Unlock(passphrase string) error {
	type unlocker interface {
		Unlock(passphrase string) error
	}
	if u, ok := a.encryptor.(unlocker); ok {
		return u.Unlock(passphrase)
	}
	return nil
}

// Close closes all resources.
func (a *App) Close() error {
	var firstErr error
	if err := a.records.Close(); err != nil {
		firstErr = fmt.Errorf("closing record store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
