package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFile(t *testing.T) {
	dir := t.TempDir()
	jpg := filepath.Join(dir, "cover.JPG")
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(jpg, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.png"), 0755))

	assert.True(t, IsImageFile(jpg))
	assert.False(t, IsImageFile(txt))
	assert.False(t, IsImageFile(filepath.Join(dir, "missing.png")))
	assert.False(t, IsImageFile(filepath.Join(dir, "folder.png")))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "sub", "dst.png")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0644))

	require.NoError(t, CopyFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	// existing targets are never overwritten
	require.Error(t, CopyFile(src, dst))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "out.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDialogHelpers(t *testing.T) {
	assert.Equal(t, "/tmp/a.png", firstAbsoluteLine("noise\n  /tmp/a.png \n/other"))
	assert.Equal(t, "", firstAbsoluteLine("relative/path"))
	assert.Equal(t, `say \"hi\" \\`, escapeAppleScriptString(`say "hi" \`))
	assert.Equal(t, "it''s", escapePowerShellString("it's"))
	assert.Equal(t, "Images|*.jpg;*.jpeg;*.png;*.gif;*.webp", windowsImageFilter())
}
