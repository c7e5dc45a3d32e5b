package exclusions

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// powerFSMKey is the dedicated key for the power finite-state machine;
// mechanical camel-casing of POWER_FSM would yield powerFsm, which is not
// the vocabulary the configuration UI speaks.
const powerFSMKey = "powerFSM"

// configKeys maps camel-cased exclusion symbols onto the external
// configuration vocabulary. Most entries are the identity, kept explicit
// so the mapping stays a single reviewable table; the deliberate oddities:
//
//   - WEBSERVER maps onto the wifi key, because compiling out wifi
//     structurally takes the web server with it.
//   - Symbols whose camel form is a single run (NEIGHBORINFO, INPUTBROKER)
//     need their catalog spelling restored.
//
// Symbols with no entry are dropped: unknown future exclusions are ignored
// rather than surfaced as errors.
var configKeys = map[string]string{
	"wifi":                 "wifi",
	"webserver":            "wifi",
	"socketapi":            "wifi",
	"bluetooth":            "bluetooth",
	"gps":                  "gps",
	"mqtt":                 "mqtt",
	"screen":               "screen",
	"i2c":                  "i2c",
	"pki":                  "pki",
	"admin":                "admin",
	"tz":                   "tz",
	"waypoint":             "waypoint",
	"audio":                "audio",
	"detectionSensor":      "detectionSensor",
	"externalNotification": "externalNotification",
	"paxcounter":           "paxcounter",
	"rangeTest":            "rangeTest",
	"remoteHardware":       "remoteHardware",
	"storeForward":         "storeForward",
	"cannedMessages":       "cannedMessages",
	"neighborinfo":         "neighborInfo",
	"inputbroker":          "inputBroker",
	"traceroute":           "traceroute",
	"serial":               "serial",
	"environmentalSensor":  "environmentalSensor",
	"powerTelemetry":       "powerTelemetry",
	"powermon":             "powerMonitor",
}

// ConfigKey maps a symbolic exclusion name (upper snake case) onto its
// external configuration key. The second return is false for symbols the
// vocabulary does not know, which callers must drop.
func ConfigKey(symbol string) (string, bool) {
	// POWER_FSM is special-cased on the raw symbol: any symbol carrying
	// the compound maps to the dedicated key regardless of camel form.
	if strings.Contains(symbol, "POWER_FSM") {
		return powerFSMKey, true
	}
	key, ok := configKeys[lowerCamel(symbol)]
	return key, ok
}

// lowerCamel converts UPPER_SNAKE_CASE to lowerCamelCase: the first
// segment lower-cased, each later segment title-cased, all concatenated.
func lowerCamel(symbol string) string {
	// cases.Caser carries internal state, so build one per call rather
	// than sharing across goroutines.
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, seg := range strings.Split(symbol, "_") {
		if seg == "" {
			continue
		}
		seg = strings.ToLower(seg)
		if b.Len() > 0 {
			seg = caser.String(seg)
		}
		b.WriteString(seg)
	}
	return b.String()
}
