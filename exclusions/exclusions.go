package exclusions

import (
	"regexp"
	"strings"
)

// excludeDefine captures the symbol and optional value of a
// MESHTASTIC_EXCLUDE_* compiler define. The define switch may be fused
// with the symbol (-DMESHTASTIC_EXCLUDE_WIFI) or stand alone as its own
// token (-D MESHTASTIC_EXCLUDE_WIFI); Extract handles both shapes.
// The value group keeps its leading "=" so a bare symbol (implicitly 1)
// stays distinguishable from a trailing "=" with an empty value.
var excludeDefine = regexp.MustCompile(`^MESHTASTIC_EXCLUDE_([A-Z0-9_]+?)(=.*)?$`)

// Structural source-filter markers. Some exclusions are expressed by
// filtering subsystem sources out of the build rather than by a define;
// these paths in build_src_filter imply the corresponding exclusion.
const (
	wifiFilterMarker = "-<src/mesh/wifi/>"

	bluetoothFilterMarker         = "-<src/nimble/>"
	bluetoothSoftdeviceFilterMark = "-<src/platform/nrf52/softdevice/>"
)

// Extract scans resolved flag tokens for feature-exclusion defines and
// returns the set of symbolic exclusion names they enable.
//
// A define with no explicit value counts as implicitly "1" and enables the
// exclusion; an explicit value of "1" does the same. Any other value
// (notably "0") leaves the exclusion disabled even though the flag is
// present in the source text.
//
// srcFilter is the environment's build_src_filter value; two hard-coded
// path patterns there add WIFI and BLUETOOTH even without a define.
func Extract(flags []string, srcFilter string) map[string]bool {
	set := make(map[string]bool)

	for i := 0; i < len(flags); i++ {
		tok := flags[i]
		var candidate string
		switch {
		case tok == "-D" && i+1 < len(flags) && excludeDefine.MatchString(flags[i+1]):
			// Consume the lookahead only when it is itself an exclude
			// symbol; a following token like -DMESHTASTIC_EXCLUDE_WIFI
			// is a fused define in its own right, not this one's value.
			candidate = flags[i+1]
			i++
		case strings.HasPrefix(tok, "-D") && len(tok) > 2:
			candidate = tok[2:]
		default:
			continue
		}

		m := excludeDefine.FindStringSubmatch(candidate)
		if m == nil {
			continue
		}
		if value := m[2]; value == "" || value == "=1" {
			set[m[1]] = true
		}
	}

	if strings.Contains(srcFilter, wifiFilterMarker) {
		set["WIFI"] = true
	}
	if strings.Contains(srcFilter, bluetoothFilterMarker) ||
		strings.Contains(srcFilter, bluetoothSoftdeviceFilterMark) {
		set["BLUETOOTH"] = true
	}

	return set
}
