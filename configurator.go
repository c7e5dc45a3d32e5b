package configurator

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/MeshEnvy/meshtastic-configurator/exclusions"
	"github.com/MeshEnvy/meshtastic-configurator/pio"
)

// srcFilterKey is the section key whose value filters sources out of the
// build; two of its path patterns imply exclusions on their own.
const srcFilterKey = "build_src_filter"

// Defaults is the configuration derived for one environment: the keys a
// board's build compiles out. Config maps each excluded key to true;
// HardExclusions lists the same keys sorted, for UIs that render them as
// immutable toggles. Diagnostics carries unresolved inheritance
// references; informational only, never a failure.
type Defaults struct {
	Config         map[string]bool `json:"config"`
	HardExclusions []string        `json:"hardExclusions"`
	Diagnostics    []string        `json:"diagnostics,omitempty"`
}

// Resolver derives environment defaults from a firmware source tree.
// Resolvers are cheap and stateless between calls; concurrent use is safe
// as long as the tree is not rewritten mid-pass.
type Resolver struct {
	tree     *pio.Tree
	treeOpts []pio.Option
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTreeOptions forwards options to the underlying pio.Tree, such as an
// alternate root file name or architecture directory order.
func WithTreeOptions(opts ...pio.Option) Option {
	return func(r *Resolver) {
		r.treeOpts = append(r.treeOpts, opts...)
	}
}

// New creates a Resolver over the firmware tree rooted at dir. The only
// error is a genuinely unreadable root; partial or even empty trees are
// fine and resolve to empty results.
func New(dir string, opts ...Option) (*Resolver, error) {
	r := &Resolver{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("firmware tree root: %w", err)
	}
	treeOpts := append([]pio.Option{pio.WithLogger(r.logger)}, r.treeOpts...)
	r.tree = pio.NewTree(dir, treeOpts...)
	return r, nil
}

// Environments lists every environment defined in the tree, sorted.
func (r *Resolver) Environments() []string {
	return r.tree.Environments()
}

// EnvironmentDefaults resolves the default configuration for a named
// environment: locate its section, accumulate its build flags along the
// extends chain, extract exclusion symbols, and map them onto
// configuration keys. An unknown environment returns empty defaults.
func (r *Resolver) EnvironmentDefaults(name string) *Defaults {
	defaults := &Defaults{
		Config:         make(map[string]bool),
		HardExclusions: []string{},
	}

	section := pio.EnvPrefix + name
	file, ok := r.tree.FindSectionFile(section)
	if !ok {
		r.logger.Warn("environment not found in firmware tree", "environment", name)
		return defaults
	}

	flags, diags := r.tree.ResolveFlags(section, file)
	defaults.Diagnostics = diags
	for _, diag := range diags {
		r.logger.Warn("flag resolution diagnostic", "environment", name, "detail", diag)
	}

	var srcFilter string
	if sec, ok := r.tree.Lookup(file, section); ok {
		srcFilter, _ = sec.Get(srcFilterKey)
	}

	for symbol := range exclusions.Extract(flags, srcFilter) {
		key, ok := exclusions.ConfigKey(symbol)
		if !ok {
			// Unmapped symbols contribute nothing; log them so new
			// firmware exclusions surface somewhere.
			r.logger.Debug("unmapped exclusion symbol", "environment", name, "symbol", symbol)
			continue
		}
		if !defaults.Config[key] {
			defaults.Config[key] = true
			defaults.HardExclusions = append(defaults.HardExclusions, key)
		}
	}
	sort.Strings(defaults.HardExclusions)

	return defaults
}
