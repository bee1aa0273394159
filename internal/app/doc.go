// Package app wires the compile pipeline together: version check, file
// execution, entry point resolution, compilation and rendering. It is
// independent of the CLI that drives it.
package app
