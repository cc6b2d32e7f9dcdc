// Package shortcut creates platform launch entries for the installed
// application: a desktop batch wrapper on Windows, an application bundle
// on macOS, and a desktop-entry file on Linux.
//
// The platform implementation is selected once at startup via For; every
// implementation only writes files under the provided home directory.
package shortcut
