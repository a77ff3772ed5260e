// Package detect scores framework signatures against a repository.
//
// Each [Signature] lists indicators: dependency names, file path substrings
// and directory path substrings. The confidence of a detection is the share of
// a signature's indicators that matched. All comparisons are case-insensitive.
package detect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

// Framework is a detected framework or tool.
type Framework struct {
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	Confidence   float64  `json:"confidence"`
	Version      string   `json:"version,omitempty"`
	DetectedFrom string   `json:"detectedFrom"`
}

// Evidence is the lower-cased view of a repository that signatures are
// matched against.
type Evidence struct {
	deps      map[string]bool
	files     []string
	dirs      []string
	manifests []deps.Record
}

// NewEvidence collects dependency names from every manifest (production and
// development) together with the file and directory paths of the tree.
func NewEvidence(t repo.Tree, info deps.Info) *Evidence {
	ev := &Evidence{
		deps:      make(map[string]bool),
		manifests: info.Manifests,
	}
	for _, m := range info.Manifests {
		for name := range m.Production {
			ev.deps[strings.ToLower(name)] = true
		}
		for name := range m.Development {
			ev.deps[strings.ToLower(name)] = true
		}
	}
	for _, item := range t {
		switch item.Kind {
		case repo.KindFile:
			ev.files = append(ev.files, strings.ToLower(item.Path))
		case repo.KindDirectory:
			ev.dirs = append(ev.dirs, strings.ToLower(item.Path))
		}
	}
	return ev
}

// Detect scores the built-in signature table.
func Detect(t repo.Tree, info deps.Info) []Framework {
	return DetectWith(signatures, NewEvidence(t, info))
}

// DetectWith scores sigs against ev. Signatures without a single hit are
// omitted. Results are ordered by confidence descending; ties keep signature
// order.
func DetectWith(sigs []Signature, ev *Evidence) []Framework {
	var out []Framework
	for _, sig := range sigs {
		if fw, ok := ev.score(sig); ok {
			out = append(out, fw)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func (ev *Evidence) score(sig Signature) (Framework, bool) {
	if len(sig.Indicators) == 0 {
		return Framework{}, false
	}

	fw := Framework{Name: sig.Name, Category: sig.Category}
	hits := 0
	for _, ind := range sig.Indicators {
		if !ev.matches(ind) {
			continue
		}
		hits++
		if fw.DetectedFrom == "" {
			fw.DetectedFrom = fmt.Sprintf("%s: %s", ind.Kind, ind.Pattern)
		}
		if ind.Kind == IndicatorDependency && fw.Version == "" {
			fw.Version = ev.version(ind.Pattern)
		}
	}
	if hits == 0 {
		return Framework{}, false
	}

	fw.Confidence = float64(hits) / float64(len(sig.Indicators))
	if fw.Confidence > 1 {
		fw.Confidence = 1
	}
	return fw, true
}

func (ev *Evidence) matches(ind Indicator) bool {
	pattern := strings.ToLower(ind.Pattern)
	switch ind.Kind {
	case IndicatorDependency:
		return ev.deps[pattern]
	case IndicatorFile:
		return containsAny(ev.files, pattern)
	case IndicatorDirectory:
		return containsAny(ev.dirs, pattern)
	}
	return false
}

// version returns the first non-empty declared version of name, scanning
// manifests in order and production before development.
func (ev *Evidence) version(name string) string {
	for _, m := range ev.manifests {
		if v := lookupFold(m.Production, name); v != "" {
			return v
		}
		if v := lookupFold(m.Development, name); v != "" {
			return v
		}
	}
	return ""
}

// lookupFold finds a key case-insensitively. An exact match wins; otherwise
// the lexically smallest folded match keeps the result independent of map
// iteration order.
func lookupFold(m map[string]string, name string) string {
	if v, ok := m[name]; ok {
		return v
	}
	var key string
	for k := range m {
		if strings.EqualFold(k, name) && (key == "" || k < key) {
			key = k
		}
	}
	if key == "" {
		return ""
	}
	return m[key]
}

func containsAny(paths []string, sub string) bool {
	for _, p := range paths {
		if strings.Contains(p, sub) {
			return true
		}
	}
	return false
}
