package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IsImageFile reports whether path names an existing regular file with one of
// the cover photo extensions.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	matched := false
	for _, p := range imagePatterns {
		if "*"+ext == p {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// CopyFile copies src to dst, creating dst's directory. A partially written
// dst is removed on failure.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close target: %w", cerr)
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}
