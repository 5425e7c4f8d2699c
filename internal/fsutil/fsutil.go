// Package fsutil provides the file tree operations shared by the install
// engine and profile management: recursive copies, wrapper-folder
// flattening and empty-directory cleanup.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a single regular file, preserving its mode.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}

	return nil
}

// CopyDir recursively copies a directory tree. Existing files in dst are
// overwritten.
func CopyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	return CopyContents(src, dst)
}

// CopyContents copies the entries of src into dst, which must exist.
func CopyContents(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// FlattenIfExists moves the children of dir up one level and removes dir.
// Missing dir is a no-op. A child whose name collides with an existing
// sibling is left in place.
func FlattenIfExists(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil
	}

	parent := filepath.Dir(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		target := filepath.Join(parent, entry.Name())
		if _, err := os.Lstat(target); err == nil {
			continue
		}
		if err := os.Rename(filepath.Join(dir, entry.Name()), target); err != nil {
			return fmt.Errorf("moving %s: %w", entry.Name(), err)
		}
	}

	remaining, err := os.ReadDir(dir)
	if err == nil && len(remaining) == 0 {
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}

	return nil
}

// CleanupEmptyDirs removes empty directories under root, deepest first.
// Best effort: errors are ignored, root itself is kept.
func CleanupEmptyDirs(root string) {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})

	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dirs[i])
		}
	}
}
