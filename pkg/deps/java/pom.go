// Package java parses Maven pom.xml and Gradle build scripts.
package java

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// POMParser parses Maven pom.xml files. Every <dependency> element is read,
// including those under dependencyManagement and plugins. Test-scoped
// dependencies are development.
type POMParser struct{}

func (p *POMParser) Ecosystem() manifest.Ecosystem { return manifest.Maven }
func (p *POMParser) Supports(name string) bool     { return strings.EqualFold(name, "pom.xml") }

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

func (p *POMParser) Parse(path, content string) (*deps.Record, error) {
	prod := make(map[string]string)
	dev := make(map[string]string)

	d := xml.NewDecoder(strings.NewReader(content))
	d.Strict = false

	var decodeErr error
	for {
		tok, err := d.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				decodeErr = err
			}
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "dependency" {
			continue
		}
		var dep pomDependency
		if err := d.DecodeElement(&dep, &se); err != nil {
			decodeErr = err
			break
		}
		group := strings.TrimSpace(dep.GroupID)
		artifact := strings.TrimSpace(dep.ArtifactID)
		if group == "" || artifact == "" {
			continue
		}
		version := strings.TrimSpace(dep.Version)
		if version == "" {
			version = deps.DefaultVersion
		}
		name := group + ":" + artifact
		if strings.TrimSpace(dep.Scope) == "test" {
			dev[name] = version
		} else {
			prod[name] = version
		}
	}

	rec := deps.NewRecord(path, manifest.Maven, prod, dev)
	if rec == nil && decodeErr != nil {
		return nil, decodeErr
	}
	return rec, nil
}
