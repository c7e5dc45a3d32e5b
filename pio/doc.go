// Package pio reads PlatformIO-style INI configuration trees and resolves
// the build flags that apply to a named environment.
//
// The package is built from three pieces:
//
//   - Parse: turns one file's contents into named sections of ordered
//     key/value pairs, with continuation-line handling for multi-line
//     values such as build_flags blocks.
//   - Tree: locates which file in a firmware source tree defines a given
//     section, including architecture base files under arch/<arch>/.
//   - ResolveFlags: walks a section's extends chain across files,
//     accumulating build flags with a visited-set cycle guard.
//
// Resolution is a pure function of the file tree at call time: nothing is
// cached between calls, nothing is mutated, and structural absence (missing
// file, missing section, missing key) contributes no flags rather than
// failing. Callers refreshing the tree on disk must not do so concurrently
// with a resolution pass.
//
// # Quick Start
//
//	tree := pio.NewTree("/path/to/firmware")
//	file, ok := tree.FindSectionFile("env:heltec-v3")
//	if ok {
//	    flags, diags := tree.ResolveFlags("env:heltec-v3", file)
//	    // flags holds the environment's own build_flags followed by
//	    // inherited ones; diags lists unresolved extends references.
//	}
package pio
