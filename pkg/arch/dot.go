package arch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var dotShapes = map[Kind]string{
	KindRoot:     "house",
	KindModule:   "folder",
	KindEntry:    "cds",
	KindConfig:   "note",
	KindExternal: "component",
}

// WriteDOT writes the graph as a Graphviz digraph. Hotspots are filled red.
// No layout is computed; the output is meant for dot or any DOT viewer.
func (g *Graph) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph architecture {\n")
	bw.WriteString("  rankdir=TB;\n")
	bw.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	bw.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(bw, "  %q [%s];\n", n.ID, strings.Join(dotAttrs(n), ", "))
	}

	bw.WriteString("\n")
	for _, e := range g.edges {
		if e.Label != "" {
			fmt.Fprintf(bw, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Label)
		} else {
			fmt.Fprintf(bw, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	bw.WriteString("}\n")
	return bw.Flush()
}

func dotAttrs(n *Node) []string {
	label := n.Label
	if n.Kind != KindExternal && n.FileCount > 0 {
		label = fmt.Sprintf("%s\n%d files", n.Label, n.FileCount)
	}
	if len(n.Languages) > 0 {
		label += "\n" + strings.Join(n.Languages, ", ")
	}
	attrs := []string{fmt.Sprintf("label=%q", label), "shape=" + dotShapes[n.Kind]}
	if n.IsHotspot {
		attrs = append(attrs, "fillcolor=\"#f8d7da\"")
	}
	return attrs
}
