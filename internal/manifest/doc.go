// Package manifest defines the release manifest describing the files to
// install, including the built-in fallback listing used when the remote
// manifest cannot be fetched.
package manifest
