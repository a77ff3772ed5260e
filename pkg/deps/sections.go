package deps

import (
	"bufio"
	"regexp"
	"strings"
)

// Section is the dependency group a TOML-like table header selects.
type Section int

const (
	SectionNone Section = iota
	SectionProduction
	SectionDevelopment
)

// SectionRules drives [ScanSections].
type SectionRules struct {
	// Header maps a "[...]" header line to the section that follows it.
	// current is the section active before the header.
	Header func(header string, current Section) Section
	// Entry matches a key/value line; group 1 is the name, group 2 the version.
	Entry *regexp.Regexp
	// Skip drops entries by name.
	Skip func(name string) bool
}

// ScanSections is the line-oriented fallback for TOML manifests that fail to
// decode. It tracks the active section across header lines and collects
// matching entries into production and development maps.
func ScanSections(content string, rules SectionRules) (prod, dev map[string]string) {
	prod = make(map[string]string)
	dev = make(map[string]string)

	section := SectionNone
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			section = rules.Header(line, section)
			continue
		}
		if section == SectionNone {
			continue
		}
		m := rules.Entry.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if rules.Skip != nil && rules.Skip(m[1]) {
			continue
		}
		if section == SectionProduction {
			prod[m[1]] = m[2]
		} else {
			dev[m[1]] = m[2]
		}
	}
	return prod, dev
}

// AnyVersion is recorded for table-form declarations without a version key
// (path, git or workspace dependencies).
const AnyVersion = "*"

// TOMLVersions flattens decoded TOML dependency values into name to version.
// Strings are kept verbatim; tables yield their "version" key.
func TOMLVersions(raw map[string]any, skip func(string) bool) map[string]string {
	out := make(map[string]string, len(raw))
	for name, v := range raw {
		if skip != nil && skip(name) {
			continue
		}
		out[name] = tomlVersion(v)
	}
	return out
}

func tomlVersion(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["version"].(string); ok && s != "" {
			return s
		}
	case []map[string]any:
		// poetry multiple-constraint form
		if len(val) > 0 {
			return tomlVersion(val[0])
		}
	case []any:
		if len(val) > 0 {
			return tomlVersion(val[0])
		}
	}
	return AnyVersion
}
