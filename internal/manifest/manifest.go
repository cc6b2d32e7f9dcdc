package manifest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FileInfo describes a single file listed in the manifest.
type FileInfo struct {
	// Size is the expected byte length of the file.
	Size int64 `json:"size"`
	// Hash is reserved for future integrity checking and is not verified.
	Hash string `json:"hash"`
}

// Manifest describes the set of files to install.
// It is immutable once loaded and never persisted.
type Manifest struct {
	// Version identifies the release. No semantic parsing is performed.
	Version string `json:"version"`
	// Files maps repository-relative paths to their metadata.
	Files map[string]FileInfo `json:"files"`
	// TotalSize is the aggregate byte count, informational only.
	TotalSize int64 `json:"total_size"`
}

// envelope is the GitHub contents API wrapper around a file body.
type envelope struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// errEmptyManifest is returned when the parsed document lists nothing to install.
var errEmptyManifest = errors.New("manifest lists no files")

// Default returns the built-in fallback manifest used when the remote
// manifest cannot be fetched. Sizes are unknown, so the per-file path
// accepts any byte count for these entries.
func Default() *Manifest {
	return &Manifest{
		Version: "1.0.0",
		Files: map[string]FileInfo{
			"main_app.py":       {},
			"requirements.txt":  {},
			"media_config.json": {},
		},
	}
}

// Parse decodes manifest JSON. The document may be either the manifest
// itself or a contents-API envelope with a base64-encoded body, which is
// unwrapped before parsing.
func Parse(data []byte) (*Manifest, error) {
	var wrapped envelope
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Content != "" {
		// The contents API wraps base64 bodies across multiple lines.
		body := strings.NewReplacer("\n", "", "\r", "").Replace(wrapped.Content)

		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("decode manifest envelope: %w", err)
		}

		data = decoded
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	if len(m.Files) == 0 {
		return nil, errEmptyManifest
	}

	return &m, nil
}

// Count returns the number of files listed in the manifest.
func (m *Manifest) Count() int {
	if m == nil {
		return 0
	}

	return len(m.Files)
}
