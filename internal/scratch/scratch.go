// Package scratch provides scoped temporary files and directories for engines
// that can only load templates from disk. Every resource is uniquely named and
// removed before the scoped function's caller regains control.
package scratch

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Dir is the parent directory for scratch resources. An empty value uses
// os.TempDir.
type Dir string

// Name derives the invocation-unique base name for template content. The hash
// keeps names stable for debugging; the random suffix added by os.MkdirTemp
// keeps them unique across lines and worker processes.
func Name(prefix, content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(sum[:6]))
}

// WithDir creates a fresh directory, calls fn with its path and removes the
// directory and everything in it once fn returns or panics.
func (d Dir) WithDir(prefix string, fn func(dir string) error) (err error) {
	path, err := os.MkdirTemp(string(d), prefix+"-")
	if err != nil {
		return fmt.Errorf("scratch: create dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(path); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("scratch: remove dir: %w", rmErr))
		}
	}()
	return fn(path)
}

// WithFile writes content to a new file inside a fresh scratch directory and
// calls fn with the directory and the file's base name. The name is the
// content hash plus a random suffix and ext, so the content cannot refer to
// its own file by name.
func (d Dir) WithFile(ext, content string, fn func(dir, name string) error) error {
	return d.WithDir(Name("tpl", content), func(dir string) error {
		f, err := os.CreateTemp(dir, Name("tpl", content)+"-*"+ext)
		if err != nil {
			return fmt.Errorf("scratch: create file: %w", err)
		}
		_, writeErr := f.WriteString(content)
		if closeErr := f.Close(); writeErr == nil {
			writeErr = closeErr
		}
		if writeErr != nil {
			return fmt.Errorf("scratch: write %s: %w", f.Name(), writeErr)
		}
		return fn(dir, filepath.Base(f.Name()))
	})
}
