// Package fsutil holds the file helpers shared by every package that writes
// build outputs.
package fsutil

import (
	"fmt"
	"os"
)

// WriteAtomic writes data to path by first writing to path+".tmp", then
// calling os.Rename to replace the final target in a single kernel call.
// Readers see either the old content or the new content, never a torn file.
func WriteAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}
