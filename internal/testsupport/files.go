package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteMedia creates dir/name filled with size bytes of a repeating pattern
// and returns its path. A size <= 0 writes a single byte.
func WriteMedia(t testing.TB, dir, name string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := min(int64(chunkSize), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
	return path
}
