package utils

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// SavedState is the UI state restored on the next start.
type SavedState struct {
	SearchQuery         string `json:"search_query"`
	LibraryScrollIndex  int    `json:"library_scroll_index"`
	LibraryScrollOffset int    `json:"library_scroll_offset"`
}

// ---------------- Paths ----------------
func stateFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}

// ---------------- Load state ----------------
func LoadState() (SavedState, error) {
	path, err := stateFile()
	if err != nil {
		return SavedState{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return SavedState{}, nil
	}
	if err != nil {
		return SavedState{}, err
	}

	var s SavedState
	if err := json.Unmarshal(data, &s); err != nil {
		return SavedState{}, err
	}
	if s.LibraryScrollIndex < 0 {
		s.LibraryScrollIndex = 0
	}
	if s.LibraryScrollOffset < 0 {
		s.LibraryScrollOffset = 0
	}
	return s, nil
}

// ---------------- Save state ----------------
func SaveState(s SavedState) error {
	path, err := stateFile()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
