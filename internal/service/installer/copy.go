package installer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/alexhub/hub-installer/internal/logger"
)

// installFiles copies every staging entry into the install target.
// Top-level files are applied atomically; directories replace their
// same-named predecessor wholesale, except the cache-artifact directory
// which is skipped and left untouched at the destination.
func (r *runner) installFiles(ctx context.Context) error {
	entries, err := os.ReadDir(r.stagingDir)
	if err != nil {
		return fmt.Errorf("read staging area: %w", err)
	}

	for _, entry := range entries {
		sourcePath := filepath.Join(r.stagingDir, entry.Name())
		targetPath := filepath.Join(r.installDir, entry.Name())

		if entry.IsDir() {
			if entry.Name() == cacheDirName {
				continue
			}

			if _, statErr := os.Stat(targetPath); statErr == nil {
				if err = os.RemoveAll(targetPath); err != nil {
					return fmt.Errorf("remove stale directory %s: %w", targetPath, err)
				}
			}

			if err = copyTree(sourcePath, targetPath); err != nil {
				return fmt.Errorf("copy directory %s: %w", entry.Name(), err)
			}

			continue
		}

		if err = applyFile(sourcePath, targetPath); err != nil {
			return fmt.Errorf("install file %s: %w", entry.Name(), err)
		}
	}

	logger.InfoKV(ctx, "Files installed", "path", r.installDir)

	return nil
}

// applyFile atomically replaces targetPath with the staged file.
// The manifest hash field is informational only, so no checksum is passed.
func applyFile(sourcePath, targetPath string) error {
	data, err := os.ReadFile(filepath.Clean(sourcePath))
	if err != nil {
		return err
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode == 0 {
		mode = DefaultFileMode
	}

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: mode,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return err
	}

	// Apply keeps a backup alongside the target; drop it.
	oldPath := targetPath + ".old"
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}

// copyTree recursively copies a directory, preserving file modes and
// modification times.
func copyTree(sourceDir, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		sourcePath := filepath.Join(sourceDir, entry.Name())
		targetPath := filepath.Join(targetDir, entry.Name())

		if entry.IsDir() {
			if err = copyTree(sourcePath, targetPath); err != nil {
				return err
			}

			continue
		}

		if err = copyFile(sourcePath, targetPath); err != nil {
			return err
		}
	}

	return nil
}

// copyFile copies a single file with its metadata.
func copyFile(sourcePath, targetPath string) error {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return err
	}

	source, err := os.Open(filepath.Clean(sourcePath))
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close()
	}()

	target, err := os.OpenFile(filepath.Clean(targetPath), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()

		return err
	}

	if err = target.Close(); err != nil {
		return err
	}

	return os.Chtimes(targetPath, info.ModTime(), info.ModTime())
}
