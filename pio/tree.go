package pio

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// EnvPrefix marks environment sections, as in [env:heltec-v3].
	EnvPrefix = "env:"

	// DefaultsSection is the generic root-file section whose flags apply
	// to every environment.
	DefaultsSection = "env"

	// RootFileName is the top-level configuration file of a firmware tree.
	RootFileName = "platformio.ini"

	// baseSuffix is the naming convention for architecture base sections.
	baseSuffix = "_base"
)

// archDirs lists the architecture subdirectories searched for base files,
// in priority order. First match wins.
var archDirs = []string{"esp32", "nrf52", "rp2xx0", "stm32", "portduino"}

// skipDirs are directory names excluded from tree scans: version control,
// dependency caches, and build output.
var skipDirs = map[string]bool{
	".git":         true,
	".pio":         true,
	".worktrees":   true,
	"node_modules": true,
	"build":        true,
}

// Tree reads a firmware source tree laid out the PlatformIO way: a root
// platformio.ini with shared sections, architecture base files under
// arch/<arch>/, and environment files elsewhere in the tree.
//
// A Tree holds no state beyond its configuration; every lookup re-reads
// the files it touches, so repeated calls observe the tree as it is on
// disk at call time.
type Tree struct {
	root     string
	rootFile string
	archDirs []string
	logger   *slog.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithRootFile overrides the root configuration file name.
// Default is "platformio.ini".
func WithRootFile(name string) Option {
	return func(t *Tree) {
		t.rootFile = name
	}
}

// WithArchDirs overrides the architecture directory priority order.
func WithArchDirs(dirs []string) Option {
	return func(t *Tree) {
		t.archDirs = dirs
	}
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// NewTree creates a Tree rooted at dir.
func NewTree(dir string, opts ...Option) *Tree {
	t := &Tree{
		root:     dir,
		rootFile: RootFileName,
		archDirs: archDirs,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the tree's root directory.
func (t *Tree) Root() string {
	return t.root
}

// RootFile returns the path of the root configuration file.
func (t *Tree) RootFile() string {
	return filepath.Join(t.root, t.rootFile)
}

// Lookup parses file and returns the named section, if the file defines it.
// Unreadable files behave like files with no sections.
func (t *Tree) Lookup(file, section string) (*Section, bool) {
	sec, ok := t.parseFile(file)[section]
	return sec, ok
}

// FindSectionFile scans the tree for the configuration file that defines
// the named section. The scan skips version-control, dependency-cache, and
// build-output directories; files are visited in lexical walk order and
// the first file defining the section wins.
func (t *Tree) FindSectionFile(section string) (string, bool) {
	var found string
	err := filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees contribute nothing
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".ini") {
			return nil
		}
		if _, ok := t.parseFile(path)[section]; ok {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil || found == "" {
		return "", false
	}
	return found, true
}

// FindArchBaseFile locates the architecture base file for a base section
// name such as "esp32_base". It tries an exact <name>.ini match in each
// architecture directory in priority order, then a match with the _base
// suffix stripped. First match wins.
func (t *Tree) FindArchBaseFile(base string) (string, bool) {
	candidates := []string{base + ".ini"}
	if stripped := strings.TrimSuffix(base, baseSuffix); stripped != base {
		candidates = append(candidates, stripped+".ini")
	}
	for _, name := range candidates {
		for _, arch := range t.archDirs {
			path := filepath.Join(t.root, "arch", arch, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// Environments lists every environment name defined anywhere in the tree
// (sections named env:NAME), sorted and deduplicated.
func (t *Tree) Environments() []string {
	seen := make(map[string]bool)
	filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".ini") {
			return nil
		}
		for name := range t.parseFile(path) {
			if env, ok := strings.CutPrefix(name, EnvPrefix); ok && env != "" {
				seen[env] = true
			}
		}
		return nil
	})

	envs := make([]string, 0, len(seen))
	for env := range seen {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	return envs
}

// parseFile reads and parses one configuration file. Missing or unreadable
// files yield an empty section map, matching the resolver's treatment of
// structural absence.
func (t *Tree) parseFile(path string) map[string]*Section {
	contents, err := os.ReadFile(path)
	if err != nil {
		return map[string]*Section{}
	}
	return Parse(contents)
}
