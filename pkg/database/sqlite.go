package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const memoryPath = ":memory:"

// SQLiteStore keeps every collection in one table of JSON bodies. It backs
// local runs without a MongoDB server and the package tests.
type SQLiteStore struct {
	DB *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == memoryPath {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Collection(name string) Collection {
	return &sqliteCollection{db: s.DB, name: name}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLiteStore) Close(context.Context) error {
	return s.DB.Close()
}

type sqliteCollection struct {
	db   *sql.DB
	name string
}

func (c *sqliteCollection) InsertMany(ctx context.Context, docs []any) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (collection, id, body)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		body, id, err := splitID(doc)
		if err != nil {
			return nil, fmt.Errorf("encode %s document %d: %w", c.name, i, err)
		}
		if id == "" {
			v7, err := uuid.NewV7()
			if err != nil {
				return nil, fmt.Errorf("generate id: %w", err)
			}
			id = v7.String()
		}
		if _, err := stmt.ExecContext(ctx, c.name, id, body); err != nil {
			return nil, fmt.Errorf("insert into %s: %w", c.name, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return ids, nil
}

func (c *sqliteCollection) DeleteMany(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, c.name)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", c.name, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (c *sqliteCollection) Find(ctx context.Context, opts FindOptions, out any) error {
	sqlStr, args := buildFindSQL(c.name, opts)

	rows, err := c.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("find in %s: %w", c.name, err)
	}
	defer rows.Close()

	docs := make([]map[string]any, 0)
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return fmt.Errorf("scan %s: %w", c.name, err)
		}
		doc := map[string]any{}
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return fmt.Errorf("decode %s/%s: %w", c.name, id, err)
		}
		doc["_id"] = id
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows err: %w", err)
	}

	// round-trip through JSON so callers can decode into typed slices
	b, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", c.name, err)
	}
	return nil
}

func (c *sqliteCollection) Count(ctx context.Context) (int64, error) {
	var n int64
	row := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, c.name)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.name, err)
	}
	return n, nil
}

func buildFindSQL(collection string, opts FindOptions) (string, []any) {
	sqlStr := `SELECT id, body FROM documents WHERE collection = ?`
	args := []any{collection}

	if len(opts.IDs) > 0 {
		marks := make([]string, len(opts.IDs))
		for i, id := range opts.IDs {
			marks[i] = "?"
			args = append(args, id)
		}
		sqlStr += " AND id IN (" + strings.Join(marks, ", ") + ")"
	}

	sqlStr += " ORDER BY seq ASC"

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := opts.Skip
	if offset < 0 {
		offset = 0
	}
	sqlStr += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return sqlStr, args
}

// splitID encodes doc as a JSON object and pulls out its "_id" member, which
// lives in its own column.
func splitID(doc any) (string, string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", "", err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return "", "", err
	}

	var id string
	if v, ok := m["_id"]; ok {
		if s, ok := v.(string); ok {
			id = s
		}
		delete(m, "_id")
	}

	body, err := json.Marshal(m)
	if err != nil {
		return "", "", err
	}
	return string(body), id, nil
}
