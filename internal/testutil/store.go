package testutil

import (
	"testing"
	"time"

	"musegen/internal/muse"
	"musegen/internal/record"
)

// NewRecordStore opens an in-memory sqlite record store that is closed when
// the test finishes.
func NewRecordStore(t *testing.T) *record.SQLiteStore {
	t.Helper()

	store, err := record.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening record store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing record store: %v", err)
		}
	})
	return store
}

// SameCreation compares creations field by field. time.Time values are
// compared with Equal so instants survive a database round trip.
func SameCreation(t *testing.T, want, got *muse.Creation) {
	t.Helper()

	if want == nil || got == nil {
		if want != got {
			t.Fatalf("creation mismatch: want %v, got %v", want, got)
		}
		return
	}

	if got.ID != want.ID {
		t.Errorf("ID: want %q, got %q", want.ID, got.ID)
	}
	if got.UserID != want.UserID {
		t.Errorf("UserID: want %q, got %q", want.UserID, got.UserID)
	}
	if got.OriginalPrompt != want.OriginalPrompt {
		t.Errorf("OriginalPrompt: want %q, got %q", want.OriginalPrompt, got.OriginalPrompt)
	}
	if got.EnhancedPrompt != want.EnhancedPrompt {
		t.Errorf("EnhancedPrompt: want %q, got %q", want.EnhancedPrompt, got.EnhancedPrompt)
	}
	if got.ImagePath != want.ImagePath {
		t.Errorf("ImagePath: want %q, got %q", want.ImagePath, got.ImagePath)
	}
	if got.ModelPath != want.ModelPath {
		t.Errorf("ModelPath: want %q, got %q", want.ModelPath, got.ModelPath)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	}
	if got.Status != want.Status {
		t.Errorf("Status: want %q, got %q", want.Status, got.Status)
	}
	if got.Metadata.Error != want.Metadata.Error {
		t.Errorf("Metadata.Error: want %q, got %q", want.Metadata.Error, got.Metadata.Error)
	}
	if !sameStrings(got.Metadata.Tags, want.Metadata.Tags) {
		t.Errorf("Metadata.Tags: want %v, got %v", want.Metadata.Tags, got.Metadata.Tags)
	}
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Creation builds a record with sensible defaults for store tests.
func Creation(id string, createdAt time.Time) *muse.Creation {
	return &muse.Creation{
		ID:             id,
		UserID:         "user-1",
		OriginalPrompt: "a red dragon",
		EnhancedPrompt: "a red dragon, detailed, high quality",
		ImagePath:      "images/img_" + id + ".png",
		CreatedAt:      createdAt,
		Status:         muse.StatusComplete,
		Metadata:       muse.Metadata{Tags: []string{"dragon"}},
	}
}
