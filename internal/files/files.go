// Package files is the filesystem collaborator of the build: reading sources,
// writing rendered output and copying assets.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// File is a named text document relative to some directory.
type File struct {
	Filename string
	Contents string
}

// ReadFile returns the contents of path. ok is false when the file does not
// exist.
func ReadFile(path string) (contents string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// ReadFiles reads every regular file in dir, in directory listing order.
// When ext is set only files with that extension are read.
func ReadFiles(dir, ext string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if ext != "" {
		ext = dotted(ext)
	}

	out := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext != "" && filepath.Ext(entry.Name()) != ext {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, File{Filename: entry.Name(), Contents: string(data)})
	}
	return out, nil
}

// WriteFiles writes files below dir, creating directories as needed, and
// returns the number written. Files with blank contents are skipped.
func WriteFiles(dir string, files []File) (int, error) {
	written := 0
	for _, f := range files {
		if strings.TrimSpace(f.Contents) == "" {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(f.Filename))
		if err := WriteFile(target, f.Contents); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// WriteFile atomically replaces path with contents.
func WriteFile(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(contents)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CopyFiles copies each source path into destDir. rename maps a source path
// to its destination relative to destDir; nil keeps the source path. A
// missing source returns an error wrapping fs.ErrNotExist.
func CopyFiles(destDir string, paths []string, rename func(string) string) error {
	for _, src := range paths {
		rel := src
		if rename != nil {
			rel = rename(src)
		}
		if err := CopyFile(src, filepath.Join(destDir, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile atomically copies src to dest.
func CopyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}
	if err := atomic.WriteFile(dest, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// DeleteFile removes path. A missing file is not an error.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// EnsureExt appends ext to name unless name already ends with it.
func EnsureExt(name, ext string) string {
	ext = dotted(ext)
	if filepath.Ext(name) == ext {
		return name
	}
	return name + ext
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FindRoot walks up from dir until it finds a directory containing marker.
func FindRoot(dir, marker string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if Exists(filepath.Join(dir, marker)) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func dotted(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
