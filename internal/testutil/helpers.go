package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to a file in the given directory.
// It creates parent directories as needed and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ReadFile reads a file and returns its contents.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// FileExists checks if a file exists.
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

// SetupTestDir creates a temporary project directory containing an empty
// .applyform directory and returns its path.
func SetupTestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".applyform"), 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

// SetupTestDirWithSlot creates a project directory whose storage file holds
// the given JSON. Returns the directory and the storage file path.
func SetupTestDirWithSlot(t *testing.T, slotJSON string) (string, string) {
	t.Helper()
	dir := SetupTestDir(t)
	path := WriteFile(t, dir, ".applyform/storage.json", slotJSON)
	return dir, path
}
