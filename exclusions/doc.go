// Package exclusions derives feature-exclusion toggles from resolved
// build flags.
//
// Extraction scans flag tokens for the MESHTASTIC_EXCLUDE_* compiler
// defines (and two structural source-filter markers) and produces a set of
// symbolic exclusion names such as WIFI or STORE_FORWARD. ConfigKey then
// maps each symbol onto the external configuration vocabulary used by the
// option catalog; symbols with no mapping are dropped.
package exclusions
