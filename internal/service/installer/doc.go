// Package installer drives the installation workflow from connectivity
// check to optional launch.
//
// Every step runs in a fixed forward-only order. Fatal steps abort the run
// immediately; non-fatal steps degrade gracefully with a warning. The
// application files are acquired by an ordered list of strategies: the
// full branch archive first, then a per-file manifest walk. The staging
// directory is removed on every exit path, including interrupts.
package installer
