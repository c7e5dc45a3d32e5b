package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var embedded embed.FS

// Category groups options in the configuration UI.
type Category string

// Option categories.
const (
	CategoryFeature Category = "feature"
	CategorySystem  Category = "system"
	CategoryModule  Category = "module"
)

// Option describes one configuration toggle.
type Option struct {
	// Key is the stable external configuration key, matching the keys
	// produced by the exclusions mapper.
	Key string `yaml:"key"`

	// Name is the human-readable label.
	Name string `yaml:"name"`

	// Description explains the option to the user. Optional.
	Description string `yaml:"description,omitempty"`

	// Category groups the option in the UI.
	Category Category `yaml:"category"`

	// Hierarchical marks master switches whose activation implies a
	// closed set of other options.
	Hierarchical bool `yaml:"hierarchical,omitempty"`

	// Implies lists the keys a hierarchical option switches on with it.
	Implies []string `yaml:"implies,omitempty"`
}

var options = mustLoad()

// Options returns the full catalog in declaration order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Lookup returns the option descriptor for a configuration key.
func Lookup(key string) (Option, bool) {
	for _, opt := range options {
		if opt.Key == key {
			return opt, true
		}
	}
	return Option{}, false
}

func mustLoad() []Option {
	contents, err := embedded.ReadFile("options.yaml")
	if err != nil {
		panic(fmt.Sprintf("catalog: read embedded options: %v", err))
	}
	var doc struct {
		Options []Option `yaml:"options"`
	}
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		panic(fmt.Sprintf("catalog: parse embedded options: %v", err))
	}
	return doc.Options
}
