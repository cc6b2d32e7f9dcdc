package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/alexhub/hub-installer/internal/logger"
)

// acquireFiles is the fallback acquisition path: every manifest entry is
// downloaded individually from the raw-content endpoint and its byte count
// checked against the declared size. Mismatches are logged and the file is
// kept; the strategy succeeds when at least one file arrived intact.
func (r *runner) acquireFiles(ctx context.Context) error {
	if r.man.Count() == 0 {
		return errEmptyManifest
	}

	// Stable order keeps logs and retries predictable.
	names := make([]string, 0, r.man.Count())
	for name := range r.man.Files {
		names = append(names, name)
	}

	sort.Strings(names)

	logger.InfoKV(ctx, "Downloading files individually", "count", len(names))

	successful := 0

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		info := r.man.Files[name]
		destPath := filepath.Join(r.stagingDir, filepath.FromSlash(name))

		written, err := r.client.DownloadRaw(ctx, name, destPath)
		if err != nil {
			logger.Warnf(ctx, "Failed to download %s: %v", name, err)
			continue
		}

		// A declared size of zero means the size is unknown.
		if info.Size > 0 && written != info.Size {
			logger.WarnKV(ctx, "Size mismatch, keeping file anyway",
				"file", name, "expected", info.Size, "actual", written)

			continue
		}

		successful++
	}

	fmt.Fprintf(r.out, "  Downloaded %d/%d files\n", successful, len(names))

	if successful == 0 {
		return errNoFilesDownloaded
	}

	return nil
}
