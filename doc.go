// Package configurator resolves Meshtastic build-configuration defaults
// from a firmware source tree.
//
// The package is organized into subpackages by domain:
//
//   - pio: PlatformIO-style INI parsing, section location, and
//     extends-chain flag resolution
//   - exclusions: feature-exclusion extraction from build flags and the
//     mapping onto configuration keys
//   - catalog: the static configuration-option catalog rendered by the UI
//   - firmware: fetching and refreshing the firmware tree from GitHub
//   - testutil: test utilities and fixtures
//
// The root package composes them: given a tree root and an environment
// name, it produces the environment's default configuration and hard
// exclusions.
//
// # Quick Start
//
//	resolver, err := configurator.New("/path/to/firmware")
//	if err != nil {
//	    // the tree root is unreadable
//	}
//
//	defaults := resolver.EnvironmentDefaults("heltec-v3")
//	for key := range defaults.Config {
//	    // key is excluded from this board's build
//	}
//
//	envs := resolver.Environments() // feeds the environment selector
//
// Resolution is read-only and deterministic over an unchanged tree; a
// missing environment yields empty defaults, never an error.
package configurator
