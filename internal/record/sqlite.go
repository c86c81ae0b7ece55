package record

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"musegen/internal/muse"
	"musegen/internal/record/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements muse.RecordStore with a SQLite table as the durable
// layer and an in-memory map as a read cache. SQLite transactions give the
// atomic whole-record write the durability contract needs: a crash mid-write
// leaves either the pre-write or post-write state, never a torn record. The
// cache is a derived view rebuilt from the table on open; it can be dropped
// at any time without semantic loss.
type SQLiteStore struct {
	db   *sql.DB
	path string

	// writeMu serializes the durable write path (single-writer discipline).
	// Reads go through database/sql's own pooling and may run concurrently.
	writeMu sync.Mutex

	cacheMu sync.RWMutex
	cache   map[string]*muse.Creation
}

// NewSQLiteStore opens (creating and migrating if needed) a record store at
// path. path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	s := &SQLiteStore{
		db:    db,
		path:  path,
		cache: make(map[string]*muse.Creation),
	}

	if err := s.reloadCache(); err != nil {
		db.Close()
		return nil, fmt.Errorf("rebuilding cache: %w", err)
	}

	return s, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tests that need a raw configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must not
	// open a second one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

const creationColumns = "id, user_id, original_prompt, enhanced_prompt, image_path, model_path, created_at, status, metadata"

// Put durably stores a new creation, then inserts it into the cache.
// The insert runs in its own transaction; the primary key rejects any
// reused ID.
func (s *SQLiteStore) Put(creation *muse.Creation) error {
	metadata, err := json.Marshal(creation.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.Exec(
		"INSERT INTO creations ("+creationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		creation.ID,
		creation.UserID,
		creation.OriginalPrompt,
		creation.EnhancedPrompt,
		creation.ImagePath,
		creation.ModelPath,
		creation.CreatedAt.UTC(),
		creation.Status,
		string(metadata),
	)
	if err != nil {
		return fmt.Errorf("inserting creation: %w", err)
	}

	// Cache only after the durable write has committed.
	s.cacheMu.Lock()
	s.cache[creation.ID] = cloneCreation(creation)
	s.cacheMu.Unlock()

	return nil
}

// Get returns the creation with the given ID, or nil if none exists.
// Cache hits are served directly; misses read through and populate.
func (s *SQLiteStore) Get(id string) (*muse.Creation, error) {
	s.cacheMu.RLock()
	cached, ok := s.cache[id]
	s.cacheMu.RUnlock()
	if ok {
		return cloneCreation(cached), nil
	}

	row := s.db.QueryRow("SELECT "+creationColumns+" FROM creations WHERE id = ?", id)
	creation, err := scanCreation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("reading creation: %w", err)
	}

	s.cacheMu.Lock()
	s.cache[id] = cloneCreation(creation)
	s.cacheMu.Unlock()

	return creation, nil
}

// SetModel fills in the model path on a partial creation, transitioning it
// to complete. The earlier failure reason is cleared from its metadata.
func (s *SQLiteStore) SetModel(id string, modelPath string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow("SELECT "+creationColumns+" FROM creations WHERE id = ?", id)
	creation, err := scanCreation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no creation with id %s", id)
		}
		return fmt.Errorf("reading creation: %w", err)
	}

	creation.ModelPath = modelPath
	creation.Status = muse.StatusComplete
	creation.Metadata.Error = ""

	metadata, err := json.Marshal(creation.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	_, err = tx.Exec(
		"UPDATE creations SET model_path = ?, status = ?, metadata = ? WHERE id = ?",
		modelPath, muse.StatusComplete, string(metadata), id,
	)
	if err != nil {
		return fmt.Errorf("updating creation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.cacheMu.Lock()
	s.cache[id] = cloneCreation(creation)
	s.cacheMu.Unlock()

	return nil
}

// ListRecent returns at most limit creations ordered by CreatedAt
// descending, ties broken by ID descending. The durable table is
// authoritative here; the cache is only a point-lookup optimization.
func (s *SQLiteStore) ListRecent(limit int) ([]*muse.Creation, error) {
	rows, err := s.db.Query(
		"SELECT "+creationColumns+" FROM creations ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing creations: %w", err)
	}
	defer rows.Close()

	return collectCreations(rows)
}

// Search scans all persisted records and returns those matching every term.
// A term matches if it occurs as a case-insensitive substring of the
// original prompt, the enhanced prompt, or any tag. Ordering matches
// ListRecent.
func (s *SQLiteStore) Search(terms []string) ([]*muse.Creation, error) {
	rows, err := s.db.Query(
		"SELECT " + creationColumns + " FROM creations ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("scanning creations: %w", err)
	}
	defer rows.Close()

	all, err := collectCreations(rows)
	if err != nil {
		return nil, err
	}

	var matched []*muse.Creation
	for _, c := range all {
		if matchesTerms(c, terms) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// matchesTerms reports whether every term occurs in at least one of the
// creation's searchable fields.
func matchesTerms(c *muse.Creation, terms []string) bool {
	haystack := strings.ToLower(c.OriginalPrompt) + " " + strings.ToLower(c.EnhancedPrompt)
	for _, tag := range c.Metadata.Tags {
		haystack += " " + strings.ToLower(tag)
	}
	for _, term := range terms {
		if !strings.Contains(haystack, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// ResetCache drops the in-memory cache and rebuilds it from the durable
// table. Safe to call at any time; the result is identical to a fresh open.
func (s *SQLiteStore) ResetCache() error {
	return s.reloadCache()
}

func (s *SQLiteStore) reloadCache() error {
	rows, err := s.db.Query("SELECT " + creationColumns + " FROM creations")
	if err != nil {
		return fmt.Errorf("loading creations: %w", err)
	}
	defer rows.Close()

	all, err := collectCreations(rows)
	if err != nil {
		return err
	}

	fresh := make(map[string]*muse.Creation, len(all))
	for _, c := range all {
		fresh[c.ID] = c
	}

	s.cacheMu.Lock()
	s.cache = fresh
	s.cacheMu.Unlock()

	return nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreation(row rowScanner) (*muse.Creation, error) {
	var c muse.Creation
	var metadata string
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.OriginalPrompt,
		&c.EnhancedPrompt,
		&c.ImagePath,
		&c.ModelPath,
		&c.CreatedAt,
		&c.Status,
		&metadata,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metadata), &c.Metadata); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	return &c, nil
}

func collectCreations(rows *sql.Rows) ([]*muse.Creation, error) {
	var result []*muse.Creation
	for rows.Next() {
		c, err := scanCreation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning creation: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating creations: %w", err)
	}
	return result, nil
}

// cloneCreation copies a creation so cached records can't be mutated
// through returned pointers.
func cloneCreation(c *muse.Creation) *muse.Creation {
	d := *c
	if c.Metadata.Tags != nil {
		d.Metadata.Tags = append([]string(nil), c.Metadata.Tags...)
	}
	if c.Metadata.Extra != nil {
		d.Metadata.Extra = make(map[string]string, len(c.Metadata.Extra))
		for k, v := range c.Metadata.Extra {
			d.Metadata.Extra[k] = v
		}
	}
	return &d
}

// Compile-time check that SQLiteStore implements muse.RecordStore.
var _ muse.RecordStore = (*SQLiteStore)(nil)
