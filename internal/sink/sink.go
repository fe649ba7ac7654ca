// Package sink persists dispatcher output to SQLite for inspection.
package sink

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gogpu/dwgdraw"
	"github.com/gogpu/dwgdraw/dispatch"
)

//go:embed schema.sql
var schema string

// ErrClosed is returned by operations on a closed sink.
var ErrClosed = errors.New("sink: closed")

// Sink writes geometry records to a SQLite database.
type Sink struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sink: mkdir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sink: schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Close closes the database.
func (s *Sink) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Write stores every record of out under a new run id, in one
// transaction, and returns the run id.
func (s *Sink) Write(ctx context.Context, out *dispatch.Output) (string, error) {
	if s.db == nil {
		return "", ErrClosed
	}
	run := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("sink: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run, block_id, block_name, file_id, idx, kind, category, sub_category, color, weight, fill)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("sink: prepare: %w", err)
	}
	defer stmt.Close()

	var werr error
	out.Each(func(r dispatch.GeometryRecord) bool {
		_, werr = stmt.ExecContext(ctx,
			run,
			int64(r.BlockID),
			r.BlockName,
			int64(r.FileID),
			r.Index,
			r.Geometry.Kind(),
			int64(r.Display.Category),
			int64(r.Display.SubCategory),
			colorValue(r.Display.LineColor),
			weightValue(r.Display.Weight),
			int(r.Display.FillDisplay),
		)
		return werr == nil
	})
	if werr != nil {
		return "", fmt.Errorf("sink: insert: %w", werr)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("sink: commit: %w", err)
	}
	dwgdraw.Logger().Info("sink: wrote records", "run", run, "records", out.Len())
	return run, nil
}

func colorValue(c *dwgdraw.ColorDef) any {
	if c == nil {
		return nil
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func weightValue(w *uint32) any {
	if w == nil {
		return nil
	}
	return int64(*w)
}

// BlockCount is the number of records of one block in a run.
type BlockCount struct {
	BlockID   dwgdraw.ObjectID
	BlockName string
	Records   int
}

// Counts returns the records per block of a run, ordered by block id.
func (s *Sink) Counts(ctx context.Context, run string) ([]BlockCount, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT block_id, block_name, COUNT(*)
		FROM records
		WHERE run = ?
		GROUP BY block_id, block_name
		ORDER BY block_id`, run)
	if err != nil {
		return nil, fmt.Errorf("sink: query: %w", err)
	}
	defer rows.Close()

	var out []BlockCount
	for rows.Next() {
		var (
			bc BlockCount
			id int64
		)
		if err := rows.Scan(&id, &bc.BlockName, &bc.Records); err != nil {
			return nil, fmt.Errorf("sink: scan: %w", err)
		}
		bc.BlockID = dwgdraw.ObjectID(id)
		out = append(out, bc)
	}
	return out, rows.Err()
}

// Colors returns the line colors of a block's records in index order.
// Records without a color override yield an empty string.
func (s *Sink) Colors(ctx context.Context, run string, block dwgdraw.ObjectID) ([]string, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT color FROM records
		WHERE run = ? AND block_id = ?
		ORDER BY idx`, run, int64(block))
	if err != nil {
		return nil, fmt.Errorf("sink: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c sql.NullString
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("sink: scan: %w", err)
		}
		out = append(out, c.String)
	}
	return out, rows.Err()
}
