package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and any missing parent directories) holding exactly
// size bytes of deterministic filler. A size <= 0 produces a one-byte file so
// existence checks still see content on disk.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	block := bytes.Repeat([]byte("convertx"), 4096)
	for written := int64(0); written < size; {
		n := int64(len(block))
		if rest := size - written; rest < n {
			n = rest
		}
		if _, err := f.Write(block[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		written += n
	}
}
