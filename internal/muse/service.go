package muse

import (
	"context"
	"fmt"
	"strings"
)

// Service is the orchestration layer: it sequences the generation stages,
// assigns identity to each creation, persists artifacts and records, and
// answers memory commands. Invocations are independent and may run
// concurrently; the stores serialize their own write paths.
type Service struct {
	records      RecordStore
	artifacts    ArtifactStore
	enhancer     PromptEnhancer
	generator    ImageGenerator
	converter    ImageTo3DConverter
	logger       Logger
	clock        Clock
	idgen        IDGenerator
	defaultLimit int
}

// NewService creates a Service with the provided dependencies.
// defaultLimit bounds plain "memory" listings.
func NewService(records RecordStore, artifacts ArtifactStore, enhancer PromptEnhancer,
	generator ImageGenerator, converter ImageTo3DConverter,
	logger Logger, clock Clock, idgen IDGenerator, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &Service{
		records:      records,
		artifacts:    artifacts,
		enhancer:     enhancer,
		generator:    generator,
		converter:    converter,
		logger:       logger,
		clock:        clock,
		idgen:        idgen,
		defaultLimit: defaultLimit,
	}
}

// Submit interprets a free-text input as either a memory command or a
// generation request. The input is parsed exactly once, before any
// generation side effects begin.
func (s *Service) Submit(ctx context.Context, input string, userID string) (*Result, error) {
	cmd := ParseCommand(input)

	switch cmd.Kind {
	case CmdListRecent:
		creations, err := s.records.ListRecent(s.defaultLimit)
		if err != nil {
			return nil, &StorageError{Op: "listing recent creations", Err: err}
		}
		summary := fmt.Sprintf("Retrieved %d recent creations", len(creations))
		if len(creations) == 0 {
			summary = "No previous creations found"
		}
		return &Result{Query: s.queryResult(summary, creations)}, nil

	case CmdGetByID:
		creation, err := s.records.Get(cmd.ID)
		if err != nil {
			return nil, &StorageError{Op: "looking up creation", Err: err}
		}
		if creation == nil {
			// Absence is a query result with zero matches, not an error.
			summary := fmt.Sprintf("No creation found with id '%s'", cmd.ID)
			return &Result{Query: s.queryResult(summary, nil)}, nil
		}
		summary := fmt.Sprintf("Found creation %s", creation.ID)
		return &Result{Query: s.queryResult(summary, []*Creation{creation})}, nil

	case CmdSearch:
		creations, err := s.records.Search(cmd.Terms)
		if err != nil {
			return nil, &StorageError{Op: "searching creations", Err: err}
		}
		joined := strings.Join(cmd.Terms, ", ")
		summary := fmt.Sprintf("Found %d creations matching '%s'", len(creations), joined)
		if len(creations) == 0 {
			summary = fmt.Sprintf("No creations found matching '%s'", joined)
		}
		return &Result{Query: s.queryResult(summary, creations)}, nil

	default:
		creation, err := s.Create(ctx, cmd.Prompt, userID)
		if err != nil {
			return nil, err
		}
		return &Result{Creation: creationResult(creation)}, nil
	}
}

// Create runs the full generation pipeline for a prompt. Stages are strictly
// ordered: enhance, generate image, persist image, convert to 3D, persist
// model, record. The first three are mandatory; a failure there aborts with
// nothing persisted. The 3D stages degrade instead: the image is the
// expensive, user-visible deliverable, so losing it because the conversion
// failed would discard useful work, and the creation is stored as partial
// with the failure reason in its metadata.
//
// If the final record write fails, already-written artifact files are left
// in place: without a record they are unreachable, which is harmless, and
// cleanup would add its own failure modes.
func (s *Service) Create(ctx context.Context, prompt string, userID string) (*Creation, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, &ValidationError{Reason: "prompt must not be empty"}
	}
	if userID == "" {
		userID = AnonymousUser
	}

	id := s.idgen.New()

	enhanced, err := s.enhancer.Enhance(ctx, prompt)
	if err != nil {
		return nil, &EnhancementError{Err: err}
	}
	s.logger.Debug("prompt enhanced", "id", id, "enhanced", enhanced)

	imageData, err := s.generator.Generate(ctx, enhanced)
	if err != nil {
		return nil, &GenerationError{Stage: StageImage, Err: err}
	}

	imagePath, err := s.artifacts.Save(id, ArtifactImage, imageData)
	if err != nil {
		return nil, &StorageError{Op: "saving image", Err: err}
	}
	s.logger.Info("image generated", "id", id, "path", imagePath)

	creation := &Creation{
		ID:             id,
		UserID:         userID,
		OriginalPrompt: prompt,
		EnhancedPrompt: enhanced,
		ImagePath:      imagePath,
		CreatedAt:      s.clock.Now(),
		Status:         StatusComplete,
		Metadata:       Metadata{Tags: DeriveTags(prompt)},
	}

	modelPath, convErr := s.convertAndSave(ctx, id, imageData)
	if convErr != nil {
		s.logger.Warn("3d stage failed, keeping image only", "id", id, "error", convErr)
		creation.Status = StatusPartial
		creation.Metadata.Error = convErr.Error()
	} else {
		creation.ModelPath = modelPath
	}

	// Durable write must complete before the record becomes visible;
	// the store enforces that ordering.
	if err := s.records.Put(creation); err != nil {
		return nil, &StorageError{Op: "recording creation", Err: err}
	}
	s.logger.Info("creation recorded", "id", id, "status", creation.Status)

	return creation, nil
}

// convertAndSave runs the optional 3D stage: convert the image and persist
// the model bytes. Either step failing degrades the creation to partial.
func (s *Service) convertAndSave(ctx context.Context, id string, imageData []byte) (string, error) {
	modelData, err := s.converter.Convert(ctx, imageData)
	if err != nil {
		return "", err
	}
	modelPath, err := s.artifacts.Save(id, ArtifactModel, modelData)
	if err != nil {
		return "", err
	}
	return modelPath, nil
}

// RetryModel re-runs the 3D stage for a partial creation, the one allowed
// status transition. Completed creations are returned unchanged.
func (s *Service) RetryModel(ctx context.Context, id string) (*Creation, error) {
	creation, err := s.records.Get(id)
	if err != nil {
		return nil, &StorageError{Op: "looking up creation", Err: err}
	}
	if creation == nil {
		return nil, &NotFoundError{ID: id}
	}
	if creation.ModelPath != "" {
		return creation, nil
	}

	imageData, err := s.artifacts.Load(creation.ImagePath)
	if err != nil {
		return nil, &StorageError{Op: "loading image", Err: err}
	}

	modelData, err := s.converter.Convert(ctx, imageData)
	if err != nil {
		return nil, &GenerationError{Stage: StageModel, Err: err}
	}

	modelPath, err := s.artifacts.Save(id, ArtifactModel, modelData)
	if err != nil {
		return nil, &StorageError{Op: "saving model", Err: err}
	}

	if err := s.records.SetModel(id, modelPath); err != nil {
		return nil, &StorageError{Op: "updating creation", Err: err}
	}
	s.logger.Info("model filled in", "id", id, "path", modelPath)

	updated := *creation
	updated.ModelPath = modelPath
	updated.Status = StatusComplete
	updated.Metadata.Error = ""
	return &updated, nil
}

// queryResult projects creations into result rows with artifact reporting.
func (s *Service) queryResult(summary string, creations []*Creation) *QueryResult {
	results := make([]RecordView, 0, len(creations))
	for _, c := range creations {
		view := RecordView{
			ID:             c.ID,
			UserID:         c.UserID,
			OriginalPrompt: c.OriginalPrompt,
			EnhancedPrompt: c.EnhancedPrompt,
			ImagePath:      c.ImagePath,
			ModelPath:      c.ModelPath,
			CreatedAt:      c.CreatedAt,
			Status:         c.Status,
			Tags:           c.Metadata.Tags,
		}
		if c.ImagePath != "" {
			view.ImageExists = s.artifacts.Exists(c.ImagePath)
			view.ImageSize = s.artifacts.Size(c.ImagePath)
		}
		if c.ModelPath != "" {
			view.ModelExists = s.artifacts.Exists(c.ModelPath)
			view.ModelSize = s.artifacts.Size(c.ModelPath)
		}
		results = append(results, view)
	}
	return &QueryResult{Type: "memory_query", Summary: summary, Results: results}
}

// creationResult projects a creation into the caller-facing result.
func creationResult(c *Creation) *CreationResult {
	msg := "Successfully created image and 3D model from your prompt."
	if c.Status == StatusPartial {
		msg = fmt.Sprintf("Image generated successfully, but error creating 3D model: %s", c.Metadata.Error)
	}
	return &CreationResult{
		Type:           "creation",
		MemoryID:       c.ID,
		OriginalPrompt: c.OriginalPrompt,
		EnhancedPrompt: c.EnhancedPrompt,
		ImagePath:      c.ImagePath,
		ModelPath:      c.ModelPath,
		Status:         c.Status,
		Message:        msg,
	}
}
