package pio

import (
	"strings"
)

// Section is one named block of an INI file. Keys appear in declaration
// order; values are normalized to single strings with continuation lines
// joined by single spaces. Raw preserves the section's source text,
// comments included, for re-emission.
type Section struct {
	Name string
	Raw  string

	keys   []string
	values map[string]string
}

// Get returns the normalized value for key and whether the key exists.
func (s *Section) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the section's keys in declaration order.
func (s *Section) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *Section) set(key, value string) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func newSection(name string) *Section {
	return &Section{
		Name:   name,
		values: make(map[string]string),
	}
}

// Parse splits INI file contents into sections.
//
// A trimmed line of the form [NAME] starts a new section. Within a section,
// a line with no leading whitespace of the form KEY=VALUE starts a new key;
// subsequent lines that begin with a space or tab are continuations whose
// trimmed content is appended to the pending key's value. Comment lines
// (starting with ';' or '#') and lines that fit neither shape are kept in
// the section's raw text but do not touch the key/value map.
//
// Parse never fails: malformed or empty input yields an empty map.
func Parse(contents []byte) map[string]*Section {
	sections := make(map[string]*Section)

	var (
		current      *Section
		raw          strings.Builder
		pendingKey   string
		pendingParts []string
	)

	flushKey := func() {
		if current == nil || pendingKey == "" {
			return
		}
		current.set(pendingKey, strings.TrimSpace(strings.Join(pendingParts, " ")))
		pendingKey = ""
		pendingParts = nil
	}
	flushSection := func() {
		flushKey()
		if current != nil {
			current.Raw = raw.String()
			sections[current.Name] = current
		}
		raw.Reset()
	}

	for _, line := range strings.Split(string(contents), "\n") {
		trimmed := strings.TrimSpace(line)

		if name, ok := sectionHeader(trimmed); ok {
			flushSection()
			current = newSection(name)
			raw.WriteString(line)
			raw.WriteString("\n")
			continue
		}
		if current == nil {
			continue
		}
		raw.WriteString(line)
		raw.WriteString("\n")

		// Continuation lines take precedence while a key is pending.
		if pendingKey != "" && len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			if trimmed != "" {
				pendingParts = append(pendingParts, trimmed)
			}
			continue
		}
		if trimmed == "" || trimmed[0] == ';' || trimmed[0] == '#' {
			continue
		}

		key, value, ok := splitKeyValue(trimmed)
		if !ok {
			// Key-less line: inert, preserved in raw text only.
			continue
		}
		flushKey()
		pendingKey = key
		if value != "" {
			pendingParts = append(pendingParts, value)
		}
	}
	flushSection()

	return sections
}

// sectionHeader reports whether a trimmed line is a [NAME] header.
func sectionHeader(trimmed string) (string, bool) {
	if len(trimmed) < 3 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return "", false
	}
	name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if name == "" {
		return "", false
	}
	return name, true
}

// splitKeyValue splits a trimmed KEY=VALUE line. The key must be non-empty
// and free of internal whitespace; anything else is treated as inert text.
func splitKeyValue(trimmed string) (key, value string, ok bool) {
	eq := strings.IndexByte(trimmed, '=')
	if eq <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(trimmed[:eq])
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(trimmed[eq+1:]), true
}
