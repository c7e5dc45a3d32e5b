// Package catalog holds the static configuration-option descriptors the
// UI renders as toggles. The catalog is metadata, not computation: it is
// loaded once from an embedded YAML table and consulted alongside resolved
// environment defaults to label options, group them by category, and
// expand the implies sets of hierarchical master switches.
package catalog
