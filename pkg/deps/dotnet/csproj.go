// Package dotnet parses .csproj project files for NuGet package references.
package dotnet

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// CSProj parses <PackageReference> items. Version may be given as an
// attribute or as a child element. NuGet has no development concept.
type CSProj struct{}

func (c *CSProj) Ecosystem() manifest.Ecosystem { return manifest.NuGet }
func (c *CSProj) Supports(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csproj")
}

type packageReference struct {
	Include        string `xml:"Include,attr"`
	Version        string `xml:"Version,attr"`
	VersionElement string `xml:"Version"`
}

func (c *CSProj) Parse(path, content string) (*deps.Record, error) {
	prod := make(map[string]string)

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
		if !ok || se.Name.Local != "PackageReference" {
			continue
		}
		var ref packageReference
		if err := d.DecodeElement(&ref, &se); err != nil {
			decodeErr = err
			break
		}
		version := ref.Version
		if version == "" {
			version = strings.TrimSpace(ref.VersionElement)
		}
		if ref.Include == "" || version == "" {
			continue
		}
		prod[ref.Include] = version
	}

	rec := deps.NewRecord(path, manifest.NuGet, prod, nil)
	if rec == nil && decodeErr != nil {
		return nil, decodeErr
	}
	return rec, nil
}
