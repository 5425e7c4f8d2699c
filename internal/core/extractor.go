package core

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tmm/internal/fsutil"
	"tmm/internal/loader"
)

// Extractor unpacks mod archives into the cache.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract extracts a zip archive to the destination directory.
func (e *Extractor) Extract(archivePath, destDir string) (err error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing zip: %w", cerr)
		}
	}()

	for _, f := range r.File {
		if err := e.extractFile(f, destDir); err != nil {
			return err
		}
	}

	return nil
}

// Normalize flattens the loader's known wrapper folders one level so the
// cache entry has a canonical top-level layout regardless of how the
// archive was packaged upstream.
func (e *Extractor) Normalize(dir string, kind loader.Kind) error {
	for _, name := range kind.NormalizeDirs() {
		if err := fsutil.FlattenIfExists(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("normalizing %s: %w", name, err)
		}
	}
	return nil
}

func (e *Extractor) extractFile(f *zip.File, destDir string) (err error) {
	destPath, err := sanitizePath(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s in archive: %w", f.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive entry %s: %w", f.Name, cerr)
		}
	}()

	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", destPath, cerr)
		}
	}()

	if _, err = io.Copy(outFile, rc); err != nil {
		return fmt.Errorf("writing %s: %w", destPath, err)
	}

	return nil
}

// sanitizePath rejects archive entries that would escape the destination
// directory (zip slip).
func sanitizePath(destDir, filePath string) (string, error) {
	destPath := filepath.Join(destDir, filepath.Clean(filePath))

	cleanDest := filepath.Clean(destDir) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(destPath)+string(os.PathSeparator), cleanDest) {
		return "", fmt.Errorf("path traversal detected: %s", filePath)
	}

	return destPath, nil
}
