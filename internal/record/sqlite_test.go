package record_test

import (
	"path/filepath"
	"testing"
	"time"

	"musegen/internal/muse"
	"musegen/internal/record"
	"musegen/internal/testutil"
)

func TestPutGet(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		want := testutil.Creation("id-1", testutil.FixedTime)
		want.Metadata.Error = "mesh did not converge"
		want.Status = muse.StatusPartial
		if err := store.Put(want); err != nil {
			t.Fatalf("Put: %v", err)
		}

		got, err := store.Get("id-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		testutil.SameCreation(t, want, got)
	})

	t.Run("round trip survives a cache reset", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		want := testutil.Creation("id-1", testutil.FixedTime)
		if err := store.Put(want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.ResetCache(); err != nil {
			t.Fatalf("ResetCache: %v", err)
		}

		got, err := store.Get("id-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		testutil.SameCreation(t, want, got)
	})

	t.Run("missing id returns nil without error", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		got, err := store.Get("nope")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != nil {
			t.Errorf("want nil, got %+v", got)
		}
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		if err := store.Put(testutil.Creation("id-1", testutil.FixedTime)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.Put(testutil.Creation("id-1", testutil.FixedTime)); err == nil {
			t.Error("second Put with the same id succeeded")
		}
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		if err := store.Put(testutil.Creation("id-1", testutil.FixedTime)); err != nil {
			t.Fatalf("Put: %v", err)
		}

		first, err := store.Get("id-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		first.OriginalPrompt = "mutated"
		first.Metadata.Tags[0] = "mutated"

		second, err := store.Get("id-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if second.OriginalPrompt == "mutated" || second.Metadata.Tags[0] == "mutated" {
			t.Error("mutation through a returned pointer leaked into the store")
		}
	})
}

func TestSetModel(t *testing.T) {
	t.Parallel()

	t.Run("partial becomes complete", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		partial := testutil.Creation("id-1", testutil.FixedTime)
		partial.Status = muse.StatusPartial
		partial.Metadata.Error = "mesh did not converge"
		if err := store.Put(partial); err != nil {
			t.Fatalf("Put: %v", err)
		}

		if err := store.SetModel("id-1", "models/model_id-1.glb"); err != nil {
			t.Fatalf("SetModel: %v", err)
		}

		got, err := store.Get("id-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.ModelPath != "models/model_id-1.glb" {
			t.Errorf("ModelPath: got %q", got.ModelPath)
		}
		if got.Status != muse.StatusComplete {
			t.Errorf("Status: got %q", got.Status)
		}
		if got.Metadata.Error != "" {
			t.Errorf("Metadata.Error not cleared: %q", got.Metadata.Error)
		}
		if got.Metadata.Tags[0] != "dragon" {
			t.Errorf("Tags lost: %v", got.Metadata.Tags)
		}
	})

	t.Run("update is durable", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		partial := testutil.Creation("id-1", testutil.FixedTime)
		partial.Status = muse.StatusPartial
		if err := store.Put(partial); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.SetModel("id-1", "models/model_id-1.glb"); err != nil {
			t.Fatalf("SetModel: %v", err)
		}
		if err := store.ResetCache(); err != nil {
			t.Fatalf("ResetCache: %v", err)
		}

		got, err := store.Get("id-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Status != muse.StatusComplete || got.ModelPath == "" {
			t.Errorf("after reset: status=%q modelPath=%q", got.Status, got.ModelPath)
		}
	})

	t.Run("unknown id errors", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		if err := store.SetModel("nope", "models/x.glb"); err == nil {
			t.Error("SetModel on missing id succeeded")
		}
	})
}

func TestListRecent(t *testing.T) {
	t.Parallel()

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		base := testutil.FixedTime
		for i, id := range []string{"id-1", "id-2", "id-3"} {
			c := testutil.Creation(id, base.Add(time.Duration(i)*time.Minute))
			if err := store.Put(c); err != nil {
				t.Fatalf("Put(%s): %v", id, err)
			}
		}

		got, err := store.ListRecent(10)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		assertOrder(t, got, []string{"id-3", "id-2", "id-1"})
	})

	t.Run("equal timestamps break ties by id descending", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		for _, id := range []string{"id-b", "id-a", "id-c"} {
			if err := store.Put(testutil.Creation(id, testutil.FixedTime)); err != nil {
				t.Fatalf("Put(%s): %v", id, err)
			}
		}

		got, err := store.ListRecent(10)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		assertOrder(t, got, []string{"id-c", "id-b", "id-a"})
	})

	t.Run("limit is honored", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		base := testutil.FixedTime
		for i, id := range []string{"id-1", "id-2", "id-3", "id-4"} {
			if err := store.Put(testutil.Creation(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
				t.Fatalf("Put(%s): %v", id, err)
			}
		}

		got, err := store.ListRecent(2)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		assertOrder(t, got, []string{"id-4", "id-3"})
	})

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()
		store := testutil.NewRecordStore(t)

		got, err := store.ListRecent(5)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("want empty, got %d", len(got))
		}
	})
}

func TestSearch(t *testing.T) {
	t.Parallel()

	// seed loads three creations with distinct prompts and tags.
	seed := func(t *testing.T) *record.SQLiteStore {
		t.Helper()
		store := testutil.NewRecordStore(t)

		dragon := testutil.Creation("id-1", testutil.FixedTime)

		castle := testutil.Creation("id-2", testutil.FixedTime.Add(time.Minute))
		castle.OriginalPrompt = "a blue castle"
		castle.EnhancedPrompt = "a blue castle, medieval, stone walls"
		castle.Metadata.Tags = []string{"castle", "blue"}

		sunset := testutil.Creation("id-3", testutil.FixedTime.Add(2*time.Minute))
		sunset.OriginalPrompt = "sunset over the ocean"
		sunset.EnhancedPrompt = "sunset over the ocean, golden hour"
		sunset.Metadata.Tags = []string{"sunset", "ocean"}

		for _, c := range []*muse.Creation{dragon, castle, sunset} {
			if err := store.Put(c); err != nil {
				t.Fatalf("Put(%s): %v", c.ID, err)
			}
		}
		return store
	}

	t.Run("matches original prompt", func(t *testing.T) {
		t.Parallel()
		got, err := seed(t).Search([]string{"dragon"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertOrder(t, got, []string{"id-1"})
	})

	t.Run("matches enhanced prompt", func(t *testing.T) {
		t.Parallel()
		got, err := seed(t).Search([]string{"medieval"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertOrder(t, got, []string{"id-2"})
	})

	t.Run("matches tags", func(t *testing.T) {
		t.Parallel()
		got, err := seed(t).Search([]string{"ocean"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertOrder(t, got, []string{"id-3"})
	})

	t.Run("all terms must match", func(t *testing.T) {
		t.Parallel()
		got, err := seed(t).Search([]string{"blue", "castle"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertOrder(t, got, []string{"id-2"})

		got, err = seed(t).Search([]string{"blue", "dragon"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("terms spanning records matched %d creations", len(got))
		}
	})

	t.Run("case-insensitive substring", func(t *testing.T) {
		t.Parallel()
		got, err := seed(t).Search([]string{"DRAG"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertOrder(t, got, []string{"id-1"})
	})

	t.Run("results follow recency order", func(t *testing.T) {
		t.Parallel()
		got, err := seed(t).Search([]string{"a"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertOrder(t, got, []string{"id-3", "id-2", "id-1"})
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()
		got, err := seed(t).Search([]string{"unicorn"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("want empty, got %d", len(got))
		}
	})
}

func assertOrder(t *testing.T, got []*muse.Creation, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("want %d creations, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: want %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestFileBackedStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "creations.db")

	store, err := record.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := store.Put(testutil.Creation("id-1", testutil.FixedTime)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen: the record must have survived the process boundary.
	reopened, err := record.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Get("id-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("record lost across reopen")
	}
	if got.OriginalPrompt != "a red dragon" {
		t.Errorf("OriginalPrompt: got %q", got.OriginalPrompt)
	}
}
