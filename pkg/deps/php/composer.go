// Package php parses Composer manifests.
package php

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// ComposerJSON parses composer.json files. require is production and
// require-dev is development. The php runtime and ext-* extensions are
// platform requirements, not packages, and are dropped from production.
type ComposerJSON struct{}

func (c *ComposerJSON) Ecosystem() manifest.Ecosystem { return manifest.Composer }
func (c *ComposerJSON) Supports(name string) bool     { return strings.EqualFold(name, "composer.json") }

type composerFile struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

func (c *ComposerJSON) Parse(path, content string) (*deps.Record, error) {
	var f composerFile
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		return nil, err
	}

	prod := make(map[string]string, len(f.Require))
	for name, version := range f.Require {
		if name == "php" || strings.HasPrefix(name, "ext-") {
			continue
		}
		prod[name] = version
	}
	return deps.NewRecord(path, manifest.Composer, prod, f.RequireDev), nil
}
