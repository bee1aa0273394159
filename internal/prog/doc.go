// Package prog is the gridc compiler library.
//
// A program is declared in HCL with a `program "<name>"` block holding typed
// `function` blocks. Declaring a program registers it with a Registry, which
// records where the declaration came from (the namespace that executed it and
// the file it was read from). Callers discover programs through the registry,
// compile them into a Package, and render the package as canonical JSON.
//
// The registry is process-wide and cumulative. Nothing in this package ever
// removes an entry; callers that need to tell loads apart match on provenance.
package prog
