package library

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := OpenStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err, "open store")
	t.Cleanup(func() { s.Close() })
	return s
}

func titles(fs []Favourite) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func TestStoreInsertAndAll(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, Favourite{Name: "Foundation", Author: "Isaac Asimov", Year: 1951})
	require.NoError(t, err)
	id, err := s.Insert(ctx, Favourite{Name: "Dune", Author: "Frank Herbert", Year: 1965, Cover: "https://covers.openlibrary.org/b/id/1-M.jpg"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune", "Foundation"}, titles(all))
	assert.Equal(t, Favourite{ID: id, Name: "Dune", Author: "Frank Herbert", Year: 1965, Cover: "https://covers.openlibrary.org/b/id/1-M.jpg"}, all[0])
}

func TestStoreNullableColumns(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, Favourite{Name: "Anonymous"})
	require.NoError(t, err)

	var author, cover *string
	var year *int64
	require.NoError(t, s.db.QueryRow(`SELECT author, year, cover FROM favourite_books WHERE id=?`, id).Scan(&author, &year, &cover))
	assert.Nil(t, author)
	assert.Nil(t, year)
	assert.Nil(t, cover)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Favourite{ID: id, Name: "Anonymous"}, got)
}

func TestStoreTitleTiesOrderedByID(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	first, err := s.Insert(ctx, Favourite{Name: "Emma", Author: "B"})
	require.NoError(t, err)
	second, err := s.Insert(ctx, Favourite{Name: "Emma", Author: "A"})
	require.NoError(t, err)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0].ID)
	assert.Equal(t, second, all[1].ID)
}

func TestStoreUpdateReplacesRecord(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, Favourite{Name: "Dun", Author: "Herbert", Year: 1964, Cover: "x"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, Favourite{ID: id, Name: "Dune", Year: 1965}))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Favourite{ID: id, Name: "Dune", Year: 1965}, got)
}

func TestStoreMissingID(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Update(ctx, Favourite{ID: 42, Name: "Ghost"}), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 42), ErrNotFound)
	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	keep, err := s.Insert(ctx, Favourite{Name: "Keep"})
	require.NoError(t, err)
	drop, err := s.Insert(ctx, Favourite{Name: "Drop"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, drop))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep, all[0].ID)
}

func TestStoreSearchTitleOrAuthor(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	for _, f := range []Favourite{
		{Name: "Wealth of Nations", Author: "Adam Smith"},
		{Name: "Dune", Author: "Frank Herbert"},
		{Name: "Smithsonian Guide", Author: "Various"},
		{Name: "Blacksmithing", Author: ""},
	} {
		_, err := s.Insert(ctx, f)
		require.NoError(t, err)
	}

	got, err := s.Search(ctx, "smith")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blacksmithing", "Smithsonian Guide", "Wealth of Nations"}, titles(got))
}

func TestStoreSearchExample(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, Favourite{Name: "Dune"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, Favourite{Name: "Foundation"})
	require.NoError(t, err)

	got, err := s.Search(ctx, "found")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foundation"}, titles(got))
}

func TestStoreSearchWildcardsAreLiteral(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, Favourite{Name: "100% Data"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, Favourite{Name: "1000 Data"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, Favourite{Name: `snake_case \ book`})
	require.NoError(t, err)
	_, err = s.Insert(ctx, Favourite{Name: "snakeXcase"})
	require.NoError(t, err)

	got, err := s.Search(ctx, "0%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Data"}, titles(got))

	got, err = s.Search(ctx, "e_c")
	require.NoError(t, err)
	assert.Equal(t, []string{`snake_case \ book`}, titles(got))

	got, err = s.Search(ctx, `\`)
	require.NoError(t, err)
	assert.Equal(t, []string{`snake_case \ book`}, titles(got))
}

func TestStoreSearchNoMatches(t *testing.T) {
	s := tempStore(t)
	got, err := s.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "library.db")
	ctx := context.Background()

	s, err := OpenStore(path)
	require.NoError(t, err)
	_, err = s.Insert(ctx, Favourite{Name: "Persisted"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Persisted"}, titles(all))

	var version string
	require.NoError(t, s.db.QueryRow(`SELECT value FROM meta WHERE key='schema_version'`).Scan(&version))
	assert.Equal(t, "1", version)
}

func TestStoreDSNEscapesURIChars(t *testing.T) {
	assert.Equal(t, "file:/tmp/a%3fb%23c%25d.db?_busy_timeout=5000", storeDSN("/tmp/a?b#c%d.db"))
}

func TestStorePathWithURIChars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd?dir#1", "100%.db")
	s, err := OpenStore(path)
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), Favourite{Name: "Dune"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "database file is created at the literal path")

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(all))
}

func TestStoreUnreadableSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT);
		INSERT INTO meta(key, value) VALUES('schema_version', 'not a number');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read schema version")
}
