package pio

import (
	"fmt"
	"strings"
)

// buildFlagsKey is the section key holding compile-time flags.
const buildFlagsKey = "build_flags"

// extendsKey names the section a section inherits from.
const extendsKey = "extends"

// visitKey identifies one (file, section) pair in a resolution pass.
// Inheritance chains are author-written and may cycle; the visited set
// keyed on this pair is what bounds the traversal.
type visitKey struct {
	file    string
	section string
}

// resolution is the per-pass state of one ResolveFlags call: the visited
// set, a parse cache so each file is read once per pass, and the
// diagnostics accumulated along the way.
type resolution struct {
	tree    *Tree
	visited map[visitKey]bool
	files   map[string]map[string]*Section
	diags   []string
}

// ResolveFlags accumulates the build flags that apply to a section,
// following its extends chain across files. The returned list holds the
// section's own flags first, then ancestor flags, in resolution order;
// duplicates are preserved. Unresolved variable substitutions (${...}
// tokens) are dropped, not expanded.
//
// Missing files and sections contribute no flags and no error; cycles
// terminate via the visited set. Extends references that resolve to
// nothing are reported in diags so callers can surface them without
// changing the resolved result.
func (t *Tree) ResolveFlags(section, file string) (flags, diags []string) {
	r := &resolution{
		tree:    t,
		visited: make(map[visitKey]bool),
		files:   make(map[string]map[string]*Section),
	}
	flags = r.resolve(section, file)
	return flags, r.diags
}

func (r *resolution) resolve(section, file string) []string {
	key := visitKey{file: file, section: section}
	if r.visited[key] {
		// Either a genuine cycle or a re-convergence of the additive
		// root-defaults path; both contribute nothing the second time.
		r.tree.logger.Debug("section already visited during flag resolution",
			"section", section, "file", file)
		return nil
	}
	r.visited[key] = true

	sec, ok := r.load(file)[section]
	if !ok {
		return nil
	}

	flags := ownFlags(sec)
	if target, ok := sec.Get(extendsKey); ok && target != "" {
		flags = append(flags, r.resolveExtends(target, file)...)
	}
	return flags
}

// resolveExtends resolves the ancestor named by an extends value and
// returns its accumulated flags.
//
// env:-prefixed targets are environment sections: same file first, then
// whichever file in the tree defines them. Bare names are base sections:
// same file first, then the arch/<arch>/ base-file convention for names
// ending in _base, then the root file. Bare-name inheritance additionally
// picks up the root file's generic [env] defaults whenever the current
// file is not the root: two contributions merged by concatenation, with
// the visited set keeping each (file, section) pair counted once.
func (r *resolution) resolveExtends(target, file string) []string {
	if strings.HasPrefix(target, EnvPrefix) {
		if _, ok := r.load(file)[target]; ok {
			return r.resolve(target, file)
		}
		if other, ok := r.tree.FindSectionFile(target); ok {
			return r.resolve(target, other)
		}
		r.diags = append(r.diags, fmt.Sprintf("unresolved extends %q from %s", target, file))
		return nil
	}

	var flags []string
	switch {
	case r.defines(file, target):
		flags = r.resolve(target, file)
	case strings.HasSuffix(target, baseSuffix):
		if archFile, ok := r.tree.FindArchBaseFile(target); ok {
			flags = r.resolve(target, archFile)
		} else if r.defines(r.tree.RootFile(), target) {
			flags = r.resolve(target, r.tree.RootFile())
		} else {
			r.diags = append(r.diags, fmt.Sprintf("unresolved extends %q from %s", target, file))
		}
	case r.defines(r.tree.RootFile(), target):
		flags = r.resolve(target, r.tree.RootFile())
	default:
		r.diags = append(r.diags, fmt.Sprintf("unresolved extends %q from %s", target, file))
	}

	// Root [env] defaults apply additively to every file below the root,
	// independently of whether the explicit target resolved. Preserved as
	// in the original, duplicates and all.
	if file != r.tree.RootFile() {
		if r.defines(r.tree.RootFile(), DefaultsSection) {
			flags = append(flags, r.resolve(DefaultsSection, r.tree.RootFile())...)
		}
	}
	return flags
}

func (r *resolution) defines(file, section string) bool {
	_, ok := r.load(file)[section]
	return ok
}

func (r *resolution) load(file string) map[string]*Section {
	if secs, ok := r.files[file]; ok {
		return secs
	}
	secs := r.tree.parseFile(file)
	r.files[file] = secs
	return secs
}

// ownFlags extracts a section's directly declared flag tokens: the
// build_flags value split on whitespace, minus ${...} substitution tokens.
func ownFlags(sec *Section) []string {
	value, ok := sec.Get(buildFlagsKey)
	if !ok {
		return nil
	}
	var flags []string
	for _, tok := range strings.Fields(value) {
		if strings.HasPrefix(tok, "${") {
			continue
		}
		flags = append(flags, tok)
	}
	return flags
}
