// Package summary renders the prose overview of an analysis.
package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/detect"
	"github.com/matzehuels/gitmaster/pkg/insight"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

// NoDescription stands in for an empty repository description.
const NoDescription = "No description provided by the repository maintainers."

// maxLanguages is how many languages the summary names.
const maxLanguages = 3

// Input is everything the summary is composed from.
type Input struct {
	Description     string
	Insight         insight.Insight
	FileCount       int
	DependencyCount int
	// Languages are expected in descending share, as returned by
	// repo.LanguageStats.
	Languages []repo.LanguageStat
}

// Generate composes the summary. Sentences without content are left out and
// the rest are joined by single spaces.
func Generate(in Input) string {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		desc = NoDescription
	}
	parts := []string{desc}

	if s := stackSentence(in.Insight.Frameworks); s != "" {
		parts = append(parts, s)
	}

	parts = append(parts, fmt.Sprintf("It is a %s with a %s structure, comprising %d files and %d dependencies.",
		strings.ToLower(in.Insight.ProjectType), strings.ToLower(in.Insight.Structure),
		in.FileCount, in.DependencyCount))

	if s := languageSentence(in.Languages); s != "" {
		parts = append(parts, s)
	}
	if s := healthSentence(in.Insight); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// stackSentence names frontend, backend and database frameworks, each clause
// joined with ", and". Nothing is said unless a frontend or backend framework
// was detected.
func stackSentence(frameworks []detect.Framework) string {
	frontend := namesIn(frameworks, detect.CategoryFrontend)
	backend := namesIn(frameworks, detect.CategoryBackend)
	if len(frontend) == 0 && len(backend) == 0 {
		return ""
	}

	var clauses []string
	if len(frontend) > 0 {
		clauses = append(clauses, strings.Join(frontend, ", ")+" on the frontend")
	}
	if len(backend) > 0 {
		clauses = append(clauses, strings.Join(backend, ", ")+" on the backend")
	}
	if db := namesIn(frameworks, detect.CategoryDatabase); len(db) > 0 {
		clauses = append(clauses, strings.Join(db, ", ")+" for data storage")
	}
	return "The project uses " + strings.Join(clauses, ", and ") + "."
}

func languageSentence(langs []repo.LanguageStat) string {
	if len(langs) == 0 {
		return ""
	}
	if len(langs) > maxLanguages {
		langs = langs[:maxLanguages]
	}
	items := make([]string, len(langs))
	for i, l := range langs {
		items[i] = fmt.Sprintf("%s (%s%%)", l.Name, strconv.FormatFloat(l.Percentage, 'f', -1, 64))
	}
	return "Primary languages: " + strings.Join(items, ", ") + "."
}

func healthSentence(in insight.Insight) string {
	var badges []string
	if in.HasTests {
		badges = append(badges, "test suite")
	}
	if in.HasCI {
		badges = append(badges, "CI/CD pipeline")
	}
	if in.HasDocker {
		badges = append(badges, "Docker support")
	}
	if in.HasDocs {
		badges = append(badges, "documentation")
	}
	if len(badges) == 0 {
		return ""
	}
	return "The project includes a " + strings.Join(badges, ", ") + "."
}

func namesIn(frameworks []detect.Framework, c detect.Category) []string {
	var out []string
	for _, fw := range frameworks {
		if fw.Category == c {
			out = append(out, fw.Name)
		}
	}
	return out
}
