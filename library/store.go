package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"pocket_library/utils"
)

// Store persists favourites in a single SQLite table.
type Store struct {
	db *sql.DB

	insertStmt *sql.Stmt
	updateStmt *sql.Stmt
	deleteStmt *sql.Stmt
}

// OpenStore opens (or creates) the database at path, applies migrations and
// prepares the write statements.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", storeDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer keeps WAL and prepared statements on the same connection
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// dsnEscaper guards the characters that end or escape the path of an SQLite
// URI filename.
var dsnEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func storeDSN(path string) string {
	return "file:" + dsnEscaper.Replace(path) + "?_busy_timeout=5000"
}

// Close releases prepared statements and closes the DB.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.updateStmt, s.deleteStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	err := db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS favourite_books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT,
            year INTEGER,
            cover TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_favourite_books_title ON favourite_books(title, id);`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		var args []any
		if strings.Contains(stmt, "?") {
			args = append(args, schemaVersion)
		}
		if _, err := tx.Exec(stmt, args...); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (s *Store) prepareStatements() error {
	var err error
	if s.insertStmt, err = s.db.Prepare(`INSERT INTO favourite_books(title, author, year, cover) VALUES(?,?,?,?)`); err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	if s.updateStmt, err = s.db.Prepare(`UPDATE favourite_books SET title=?, author=?, year=?, cover=? WHERE id=?`); err != nil {
		return fmt.Errorf("prepare update: %w", err)
	}
	if s.deleteStmt, err = s.db.Prepare(`DELETE FROM favourite_books WHERE id=?`); err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Favourites
// ---------------------------------------------------------------------------

const selectFavourites = `SELECT id, title, author, year, cover FROM favourite_books`

// Insert stores f and returns the generated id. f.ID is ignored.
func (s *Store) Insert(ctx context.Context, f Favourite) (int64, error) {
	res, err := s.insertStmt.ExecContext(ctx, f.Name, nullString(f.Author), nullInt(f.Year), nullString(f.Cover))
	if err != nil {
		return 0, fmt.Errorf("insert favourite: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert favourite: %w", err)
	}
	utils.Debug("favourite inserted", "id", id, "title", f.Name)
	return id, nil
}

// Update replaces the whole row with f's id.
func (s *Store) Update(ctx context.Context, f Favourite) error {
	res, err := s.updateStmt.ExecContext(ctx, f.Name, nullString(f.Author), nullInt(f.Year), nullString(f.Cover), f.ID)
	if err != nil {
		return fmt.Errorf("update favourite %d: %w", f.ID, err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("update favourite %d: %w", f.ID, err)
	}
	utils.Debug("favourite updated", "id", f.ID)
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete favourite %d: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete favourite %d: %w", id, err)
	}
	utils.Debug("favourite deleted", "id", id)
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (Favourite, error) {
	row := s.db.QueryRowContext(ctx, selectFavourites+` WHERE id=?`, id)
	f, err := scanFavourite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Favourite{}, fmt.Errorf("get favourite %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Favourite{}, fmt.Errorf("get favourite %d: %w", id, err)
	}
	return f, nil
}

// All lists every favourite by title, ties broken by id.
func (s *Store) All(ctx context.Context) ([]Favourite, error) {
	return s.query(ctx, selectFavourites+` ORDER BY title ASC, id ASC`)
}

// Search returns favourites whose title or author contains q. Matching is
// case-insensitive for ASCII and treats %, _ and \ literally.
func (s *Store) Search(ctx context.Context, q string) ([]Favourite, error) {
	pattern := "%" + escapeLike(q) + "%"
	return s.query(ctx, selectFavourites+`
        WHERE title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\'
        ORDER BY title ASC, id ASC`, pattern, pattern)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Favourite, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query favourites: %w", err)
	}
	defer rows.Close()

	out := []Favourite{}
	for rows.Next() {
		f, err := scanFavourite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favourite: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFavourite(r rowScanner) (Favourite, error) {
	var (
		f      Favourite
		author sql.NullString
		year   sql.NullInt64
		cover  sql.NullString
	)
	if err := r.Scan(&f.ID, &f.Name, &author, &year, &cover); err != nil {
		return Favourite{}, err
	}
	f.Author = author.String
	f.Year = int(year.Int64)
	f.Cover = cover.String
	return f, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
