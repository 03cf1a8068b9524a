package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/webrecall/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexRepository = (*Store)(nil)

// DBName is the database file created in the data directory.
const DBName = "index.db"

const metaDimension = "dimension"

// Store persists index snapshots to SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates dataDir/index.db and applies migrations.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".webrecall")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps pragmas and transactions on one handle.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every *.up.sql newer than the recorded schema version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		logger.Debug("applied migration %s", name)
	}

	return nil
}

// ==================== Save ====================

// Save writes the snapshot in one transaction.
// Because the index only grows between clears, a snapshot that extends the
// stored one is written as an append of the new slots. Anything else
// replaces the stored rows.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	from, err := appendStart(ctx, tx, snapshot)
	if err != nil {
		return err
	}
	if from == 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vectors"); err != nil {
			return fmt.Errorf("clear vectors: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
			return fmt.Errorf("clear chunks: %w", err)
		}
	}

	if err := insertSlots(ctx, tx, snapshot, from); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaDimension, strconv.Itoa(snapshot.Dimension))
	if err != nil {
		return fmt.Errorf("write dimension: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.Debug("saved %d slots to %s (from slot %d)", snapshot.Len(), s.path, from)
	return nil
}

// appendStart returns the first slot that must be written.
// It is the stored count when the stored rows are a prefix of the snapshot, else 0.
func appendStart(ctx context.Context, tx *sql.Tx, snapshot *domain.Snapshot) (int, error) {
	var stored int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&stored); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	if stored == 0 || stored > snapshot.Len() {
		return 0, nil
	}

	dim, err := storedDimension(ctx, tx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	if dim != snapshot.Dimension {
		return 0, nil
	}

	var lastID string
	err = tx.QueryRowContext(ctx, "SELECT chunk_id FROM chunks WHERE slot = ?", stored-1).Scan(&lastID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read last slot: %w", err)
	}
	if lastID != snapshot.Chunks[stored-1].ID {
		return 0, nil
	}
	return stored, nil
}

func insertSlots(ctx context.Context, tx *sql.Tx, snapshot *domain.Snapshot, from int) error {
	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (slot, chunk_id, doc_id, url, title, content, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer chunkStmt.Close()

	vecStmt, err := tx.PrepareContext(ctx, "INSERT INTO vectors (slot, embedding) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare vector insert: %w", err)
	}
	defer vecStmt.Close()

	for slot := from; slot < snapshot.Len(); slot++ {
		c := snapshot.Chunks[slot]
		_, err := chunkStmt.ExecContext(ctx,
			slot, c.ID, c.DocumentID, c.URL, c.Title, c.Content, c.Position, c.Timestamp.UnixNano())
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
		if _, err := vecStmt.ExecContext(ctx, slot, float32SliceToBytes(snapshot.Vectors[slot])); err != nil {
			return fmt.Errorf("insert vector %d: %w", slot, err)
		}
	}
	return nil
}

// ==================== Load ====================

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func storedDimension(ctx context.Context, q queryer) (int, error) {
	var value string
	err := q.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", metaDimension).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read dimension: %w", err)
	}
	dim, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse dimension %q: %w", value, domain.ErrIndexCorrupted)
	}
	return dim, nil
}

// Load reads every slot in order. An empty database returns domain.ErrNotFound.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	// One transaction gives a consistent view of both tables.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // nothing to commit

	dim, err := storedDimension(ctx, tx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT c.slot, c.chunk_id, c.doc_id, c.url, c.title, c.content, c.position, c.created_at, v.embedding
		FROM chunks c LEFT JOIN vectors v ON v.slot = c.slot
		ORDER BY c.slot
	`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	snapshot := &domain.Snapshot{Dimension: dim}
	for rows.Next() {
		var (
			slot      int
			c         domain.Chunk
			createdAt int64
			embedding []byte
		)
		if err := rows.Scan(&slot, &c.ID, &c.DocumentID, &c.URL, &c.Title, &c.Content,
			&c.Position, &createdAt, &embedding); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if slot != snapshot.Len() {
			return nil, fmt.Errorf("slot %d follows %d: %w", slot, snapshot.Len()-1, domain.ErrIndexCorrupted)
		}
		if embedding == nil {
			return nil, fmt.Errorf("slot %d has no vector: %w", slot, domain.ErrIndexCorrupted)
		}
		c.Timestamp = time.Unix(0, createdAt).UTC()
		snapshot.Chunks = append(snapshot.Chunks, c)
		snapshot.Vectors = append(snapshot.Vectors, bytesToFloat32Slice(embedding))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	var orphans int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&orphans); err != nil {
		return nil, fmt.Errorf("count vectors: %w", err)
	}
	if orphans != snapshot.Len() {
		return nil, &domain.IndexCorruptionError{Vectors: orphans, Records: snapshot.Len()}
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Size returns the database footprint including the WAL file.
func (s *Store) Size(_ context.Context) (int64, error) {
	var total int64
	for _, p := range []string{s.path, s.path + "-wal"} {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
