// Package resolver picks the one program unit a compilation should use.
//
// With an explicit name the unit is looked up in the executed namespace.
// Without one, the registry is scanned in registration order for the first
// unit whose provenance points at the executed namespace or its source file.
// The registry is shared by every load in the process, so matching on
// provenance is what keeps earlier loads from being picked up.
package resolver
