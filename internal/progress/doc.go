// Package progress renders byte-level download progress on the console.
//
// A Writer wraps the destination file and redraws a single status line as
// bytes flow through. Rendering is skipped entirely when stdout is not a
// terminal, so piped output stays clean.
package progress
