package installer

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexhub/hub-installer/internal/logger"
)

// acquireArchive downloads the branch snapshot archive, extracts it into
// the staging area, and flattens the single top-level folder GitHub wraps
// the contents in.
func (r *runner) acquireArchive(ctx context.Context) error {
	archivePath := filepath.Join(r.stagingDir, archiveFilename)

	if err := r.client.DownloadArchive(ctx, archivePath); err != nil {
		return err
	}

	if err := extractZip(archivePath, r.stagingDir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	// The archive is no longer needed once extracted.
	_ = os.Remove(archivePath)

	extractedRoot := filepath.Join(r.stagingDir, r.cfg.ArchiveRootDir())
	if _, err := os.Stat(extractedRoot); err == nil {
		if err = flattenInto(extractedRoot, r.stagingDir); err != nil {
			return fmt.Errorf("flatten extracted folder: %w", err)
		}

		_ = os.RemoveAll(extractedRoot)
	}

	logger.Info(ctx, "Files extracted")

	return nil
}

// extractZip unpacks archivePath into destDir, rejecting entries that
// would escape the destination.
func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	defer func() {
		_ = reader.Close()
	}()

	for _, entry := range reader.File {
		if err = extractZipEntry(entry, destDir); err != nil {
			return err
		}
	}

	return nil
}

// extractZipEntry writes one archive entry under destDir.
func extractZipEntry(entry *zip.File, destDir string) error {
	cleanName := strings.TrimPrefix(entry.Name, "./")

	target := filepath.Join(destDir, filepath.FromSlash(cleanName))
	if !isPathWithin(target, destDir) {
		return fmt.Errorf("zip entry escapes destination: %s", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	source, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open zip entry: %w", err)
	}

	defer func() {
		_ = source.Close()
	}()

	output, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_RDWR|os.O_TRUNC, entry.Mode())
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err = io.Copy(output, source); err != nil {
		_ = output.Close()

		return fmt.Errorf("write file: %w", err)
	}

	return output.Close()
}

// flattenInto moves every entry of srcDir one level up into destDir.
// Directories that already exist at the destination are merged entry by
// entry; conflicting files are overwritten, everything else is preserved.
func flattenInto(srcDir, destDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		sourcePath := filepath.Join(srcDir, entry.Name())
		targetPath := filepath.Join(destDir, entry.Name())

		if !entry.IsDir() {
			// Overwrite any stale file from a previous strategy attempt.
			_ = os.Remove(targetPath)

			if err = os.Rename(sourcePath, targetPath); err != nil {
				return err
			}

			continue
		}

		if _, statErr := os.Stat(targetPath); statErr != nil {
			if err = os.Rename(sourcePath, targetPath); err != nil {
				return err
			}

			continue
		}

		// Both sides have the directory: merge recursively.
		if err = flattenInto(sourcePath, targetPath); err != nil {
			return err
		}
	}

	return nil
}

// isPathWithin reports whether targetPath stays inside basePath.
// Guards against path traversal from hostile archive entries.
func isPathWithin(targetPath, basePath string) bool {
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return false
	}

	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return false
	}

	return absTarget == absBase || strings.HasPrefix(absTarget, absBase+string(os.PathSeparator))
}
