// Package deps turns dependency manifests into normalized dependency records.
//
// # Overview
//
// Every supported ecosystem has a [Parser] in a language subpackage
// (javascript, java, python, rust, golang, ruby, php, dotnet). A parser reads
// one manifest's raw text and splits its direct dependencies into production
// and development maps of name to version constraint. The parsers are
// heuristic: malformed input yields whatever could be extracted, and a
// manifest without dependencies yields no record at all.
//
// # Aggregation
//
// [ParseAll] runs the matching parser for every scanned manifest location and
// [Aggregate] sums the resulting records into an [Info]:
//
//	locs := manifest.Scan(tree)
//	records := deps.ParseAll(ecosystems.All, locs, contents, logger)
//	info := deps.Aggregate(records)
//
// Parse failures are logged at debug level and never abort the batch.
package deps

import (
	"io"
	"path"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// DefaultVersion is recorded when a manifest names a dependency without a version.
const DefaultVersion = "latest"

// Record holds the direct dependencies declared by one manifest file.
type Record struct {
	Path        string             `json:"path"`
	Ecosystem   manifest.Ecosystem `json:"ecosystem"`
	Production  map[string]string  `json:"production"`
	Development map[string]string  `json:"development"`
	TotalCount  int                `json:"totalCount"`
}

// NewRecord builds a record from the extracted maps. It returns nil when both
// maps are empty.
func NewRecord(p string, eco manifest.Ecosystem, prod, dev map[string]string) *Record {
	if len(prod) == 0 && len(dev) == 0 {
		return nil
	}
	if prod == nil {
		prod = map[string]string{}
	}
	if dev == nil {
		dev = map[string]string{}
	}
	return &Record{
		Path:        p,
		Ecosystem:   eco,
		Production:  prod,
		Development: dev,
		TotalCount:  len(prod) + len(dev),
	}
}

// Dir returns the directory containing the manifest, or "" at the repository root.
func (r Record) Dir() string {
	d := path.Dir(r.Path)
	if d == "." {
		return ""
	}
	return d
}

// Parser reads dependency declarations from one kind of manifest.
type Parser interface {
	// Ecosystem returns the ecosystem this parser handles.
	Ecosystem() manifest.Ecosystem
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Parse extracts dependencies from content. It returns nil, nil when the
	// manifest declares no dependencies.
	Parse(path, content string) (*Record, error)
}

// Info aggregates every parsed manifest of a repository.
type Info struct {
	Manifests            []Record `json:"manifests"`
	TotalDependencies    int      `json:"totalDependencies"`
	TotalDevDependencies int      `json:"totalDevDependencies"`
	TotalCount           int      `json:"totalCount"`
}

// Aggregate sums production and development counts across records.
func Aggregate(records []Record) Info {
	info := Info{Manifests: records}
	if info.Manifests == nil {
		info.Manifests = []Record{}
	}
	for _, r := range records {
		info.TotalDependencies += len(r.Production)
		info.TotalDevDependencies += len(r.Development)
	}
	info.TotalCount = info.TotalDependencies + info.TotalDevDependencies
	return info
}

// ParserFor returns the parser registered for an ecosystem.
func ParserFor(eco manifest.Ecosystem, parsers []Parser) (Parser, bool) {
	for _, p := range parsers {
		if p.Ecosystem() == eco {
			return p, true
		}
	}
	return nil, false
}

// ParseAll parses every location whose content is available, in location
// order. Locations without content or without a parser are skipped.
func ParseAll(parsers []Parser, locs []manifest.Location, contents map[string]string, logger *log.Logger) []Record {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var records []Record
	for _, loc := range locs {
		content, ok := contents[loc.Path]
		if !ok {
			logger.Debug("manifest content unavailable", "path", loc.Path)
			continue
		}
		p, ok := ParserFor(loc.Ecosystem, parsers)
		if !ok {
			logger.Debug("no parser for ecosystem", "path", loc.Path, "ecosystem", loc.Ecosystem)
			continue
		}
		rec, err := p.Parse(loc.Path, content)
		if err != nil {
			logger.Debug("manifest skipped", "path", loc.Path, "ecosystem", loc.Ecosystem, "error", err)
			continue
		}
		if rec == nil {
			continue
		}
		records = append(records, *rec)
	}
	return records
}
