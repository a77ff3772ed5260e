package java

import (
	"regexp"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/manifest"
)

// gradleDepRegex matches both Groovy (implementation 'g:a:v') and Kotlin
// (implementation("g:a:v")) string notations.
var gradleDepRegex = regexp.MustCompile(`\b(implementation|api|compileOnly|runtimeOnly|testImplementation|testCompileOnly)\s*\(?\s*['"]([^'"()]+)['"]`)

// GradleParser parses build.gradle and build.gradle.kts scripts.
// Configurations prefixed with "test" are development.
type GradleParser struct{}

func (p *GradleParser) Ecosystem() manifest.Ecosystem { return manifest.Gradle }
func (p *GradleParser) Supports(name string) bool {
	return name == "build.gradle" || name == "build.gradle.kts"
}

func (p *GradleParser) Parse(path, content string) (*deps.Record, error) {
	prod := make(map[string]string)
	dev := make(map[string]string)

	for _, m := range gradleDepRegex.FindAllStringSubmatch(content, -1) {
		name, version := splitCoordinate(m[2])
		if strings.HasPrefix(m[1], "test") {
			dev[name] = version
		} else {
			prod[name] = version
		}
	}

	return deps.NewRecord(path, manifest.Gradle, prod, dev), nil
}

// splitCoordinate splits "group:artifact[:version]" into "group:artifact"
// and the version, defaulting to latest.
func splitCoordinate(coord string) (name, version string) {
	parts := strings.Split(coord, ":")
	name = coord
	if len(parts) >= 2 {
		name = parts[0] + ":" + parts[1]
	}
	version = deps.DefaultVersion
	if len(parts) >= 3 && parts[2] != "" {
		version = parts[2]
	}
	return name, version
}
