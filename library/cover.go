package library

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pocket_library/utils"
)

const photoTimeLayout = "20060102_150405"

// PhotoFileName names an imported photo after the time it was taken in.
func PhotoFileName(now time.Time, ext string) string {
	ext = strings.ToLower(ext)
	if ext == "" || ext == ".jpeg" {
		ext = ".jpg"
	}
	return "JPEG_" + now.Format(photoTimeLayout) + ext
}

// ImportPhoto copies src into dir and returns the file:// URI of the copy.
func ImportPhoto(src, dir string, now time.Time) (string, error) {
	if !utils.IsImageFile(src) {
		return "", fmt.Errorf("import photo: not an image file: %s", src)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("import photo: %w", err)
	}

	name := PhotoFileName(now, filepath.Ext(src))
	dst := filepath.Join(absDir, name)
	// two imports in the same second get a numeric suffix
	for i := 1; fileExists(dst); i++ {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		dst = filepath.Join(absDir, fmt.Sprintf("%s_%d%s", base, i, filepath.Ext(name)))
	}

	if err := utils.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("import photo: %w", err)
	}
	utils.Info("photo imported", "src", src, "dst", dst)
	return FileURI(dst), nil
}

// FileURI turns an absolute path into a file:// URI.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}

// WithCover returns f with its cover replaced.
func WithCover(f Favourite, uri string) Favourite {
	f.Cover = uri
	return f
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
