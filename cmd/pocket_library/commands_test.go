package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket_library/library"
	"pocket_library/utils"
)

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []library.SearchResult{
		{Name: "Good Omens", Authors: []string{"Terry Pratchett", "Neil Gaiman"}, Year: 1990},
		{},
	})
	assert.Equal(t, "Good Omens | Terry Pratchett, Neil Gaiman | 1990\nUnknown title | Unknown author | Unknown\n", buf.String())

	buf.Reset()
	printResults(&buf, nil)
	assert.Equal(t, "No results\n", buf.String())
}

func TestPrintFavourites(t *testing.T) {
	var buf bytes.Buffer
	printFavourites(&buf, library.LibraryState{Entries: []library.Favourite{
		{ID: 2, Name: "Dune", Author: "Frank Herbert", Year: 1965},
		{ID: 10, Name: "Emma"},
	}})
	assert.Equal(t, "   2  Dune | Frank Herbert | 1965\n  10  Emma | Unknown author | Unknown\n", buf.String())

	buf.Reset()
	printFavourites(&buf, library.LibraryState{Query: "zzz"})
	assert.Equal(t, "No books match the filter.\n", buf.String())

	buf.Reset()
	printFavourites(&buf, library.LibraryState{})
	assert.Equal(t, "No books in library.\n", buf.String())
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	cfg := "[library]\ndatabase = \"" + filepath.ToSlash(filepath.Join(dir, "lib.db")) + "\"\n\n[log]\nfile = \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	t.Cleanup(func() { utils.AppConfig = utils.DefaultConfig() })
	return path
}

func TestListAndShareCommands(t *testing.T) {
	path := writeConfig(t)
	require.NoError(t, utils.LoadConfig(path))
	store, err := library.OpenStore(utils.AppConfig.Library.Database)
	require.NoError(t, err)
	id, err := store.Insert(context.Background(), library.Favourite{Name: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "list", "--filter", "herb"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Dune | Frank Herbert | Unknown")

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "share", "--no-clipboard", strconv.FormatInt(id, 10)})
	require.NoError(t, root.Execute())
	assert.Equal(t, "Book Recommendation: Dune\n\nI'd like to recommend a book to you:\nTitle: Dune\nAuthor: Frank Herbert\nYear: Unknown\n", out.String())
}

func TestShareRejectsBadID(t *testing.T) {
	path := writeConfig(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "share", "abc"})
	assert.Error(t, root.Execute())
}
