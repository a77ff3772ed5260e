package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/arch"
)

const reportWidth = 80

// writeReport renders res as a styled terminal report.
func writeReport(w io.Writer, res *analysis.Result) error {
	var sections []string

	sections = append(sections, reportHeader(res))
	sections = append(sections, lipgloss.NewStyle().Width(reportWidth).Render(res.Summary))
	sections = append(sections, section("Overview", overview(res)))

	if len(res.Languages) > 0 {
		sections = append(sections, section("Languages", languageTable(res)))
	}
	if len(res.Insight.Frameworks) > 0 {
		sections = append(sections, section("Frameworks", frameworkTable(res)))
	}
	if len(res.Dependencies.Manifests) > 0 {
		sections = append(sections, section("Dependencies", dependencyTable(res)))
	}
	if lines := architectureLines(res.Architecture); lines != "" {
		sections = append(sections, section("Architecture", lines))
	}
	sections = append(sections, section("Health", health(res)))

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func reportHeader(res *analysis.Result) string {
	name := "repository"
	var sub []string
	if md := res.Repository; md != nil {
		if md.FullName != "" {
			name = md.FullName
		} else if md.Name != "" {
			name = md.Name
		}
		if md.DefaultBranch != "" {
			sub = append(sub, md.DefaultBranch)
		}
		if md.Revision != "" {
			sub = append(sub, shortRevision(md.Revision))
		}
	}
	sub = append(sub, cacheBadge(res.Cached))
	return StyleTitle.Render(name) + "  " + StyleDim.Render(strings.Join(sub, " · "))
}

func section(title, body string) string {
	return StyleSection.Render(title) + "\n" + body
}

func overview(res *analysis.Result) string {
	lines := []string{
		keyValue("Type", res.Insight.ProjectType),
		keyValue("Structure", res.Insight.Structure),
		keyValue("Files", fmt.Sprintf("%d in %d directories (%s)",
			res.Files.TotalFiles, res.Files.TotalDirectories, formatBytes(res.Files.TotalSize))),
		keyValue("Dependencies", fmt.Sprintf("%d production, %d development",
			res.Dependencies.TotalDependencies, res.Dependencies.TotalDevDependencies)),
	}
	if len(res.Insight.BuildTools) > 0 {
		lines = append(lines, keyValue("Build tools", strings.Join(res.Insight.BuildTools, ", ")))
	}
	if res.ID != "" {
		lines = append(lines, keyValue("Analysis ID", StyleDim.Render(res.ID)))
	}
	return strings.Join(lines, "\n")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		})
}

func languageTable(res *analysis.Result) string {
	t := newTable("Language", "Share", "Size")
	for _, l := range res.Languages {
		t.Row(
			lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render("●")+" "+l.Name,
			fmt.Sprintf("%.1f%%", l.Percentage),
			formatBytes(l.Bytes),
		)
	}
	return t.Render()
}

func frameworkTable(res *analysis.Result) string {
	t := newTable("Framework", "Category", "Confidence", "Version", "Source")
	for _, fw := range res.Insight.Frameworks {
		t.Row(
			fw.Name,
			string(fw.Category),
			strconv.Itoa(int(fw.Confidence*100+0.5))+"%",
			fw.Version,
			fw.DetectedFrom,
		)
	}
	return t.Render()
}

func dependencyTable(res *analysis.Result) string {
	t := newTable("Manifest", "Ecosystem", "Prod", "Dev")
	for _, m := range res.Dependencies.Manifests {
		t.Row(m.Path, string(m.Ecosystem), strconv.Itoa(len(m.Production)), strconv.Itoa(len(m.Development)))
	}
	return t.Render()
}

func architectureLines(g *arch.Graph) string {
	if g == nil {
		return ""
	}
	var modules, hotspots, external []string
	for _, n := range g.Nodes() {
		switch n.Kind {
		case arch.KindModule:
			modules = append(modules, n.ID)
		case arch.KindExternal:
			external = append(external, n.Label)
		}
		if n.IsHotspot {
			hotspots = append(hotspots, n.ID)
		}
	}
	sort.Strings(hotspots)

	lines := []string{keyValue("Graph", fmt.Sprintf("%d nodes, %d edges", g.NodeCount(), g.EdgeCount()))}
	if len(modules) > 0 {
		lines = append(lines, keyValue("Modules", strings.Join(modules, ", ")))
	}
	if len(hotspots) > 0 {
		lines = append(lines, keyValue("Hotspots", StyleWarning.Render(strings.Join(hotspots, ", "))))
	}
	if len(external) > 0 {
		lines = append(lines, keyValue("External", strings.Join(external, ", ")))
	}
	return strings.Join(lines, "\n")
}

func health(res *analysis.Result) string {
	in := res.Insight
	return strings.Join([]string{
		check(in.HasTests, "tests"),
		check(in.HasCI, "CI"),
		check(in.HasDocs, "docs"),
		check(in.HasDocker, "Docker"),
		check(in.HasLicense, "license"),
	}, "   ")
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
