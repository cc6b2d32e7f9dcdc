// Package remote implements the installer's view of its remote
// collaborators: the repository metadata API (connectivity probe and
// manifest fetch), the branch archive endpoint, and the raw-content
// endpoint used by the per-file fallback.
//
// All endpoint base URLs come from the run configuration, so tests point
// the client at local httptest servers.
package remote
