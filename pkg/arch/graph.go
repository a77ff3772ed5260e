package arch

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID is already registered.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that was never registered.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrRootCount is returned by [Graph.Validate] when the graph does not
	// hold exactly one root node.
	ErrRootCount = errors.New("graph must have exactly one root node")
)

// Kind is the semantic role of a node.
type Kind string

const (
	KindRoot     Kind = "root"
	KindModule   Kind = "module"
	KindEntry    Kind = "entry"
	KindConfig   Kind = "config"
	KindExternal Kind = "external"
)

// Node is one vertex of the architecture graph. IDs are either repository
// paths or synthetic names such as "root" and "ext-npm".
type Node struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Kind       Kind     `json:"kind"`
	FileCount  int      `json:"fileCount"`
	TotalSize  int64    `json:"totalSize"`
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	IsHotspot  bool     `json:"isHotspot"`
}

// Edge is a directed link between two nodes. Label is empty for plain
// containment edges.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Graph is an arena of nodes keyed by ID plus an edge list. Nodes keep their
// insertion order. Edges may reference nodes that are added later; call
// [Graph.Validate] once construction is complete.
//
// The zero value is not usable; use [New].
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode registers n. Nil slices are normalized to empty ones so the JSON
// form never contains null lists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Languages == nil {
		n.Languages = []string{}
	}
	if n.Frameworks == nil {
		n.Frameworks = []string{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge records an edge without checking its endpoints.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
}

// Has reports whether a node with id is registered.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Validate checks that every edge endpoint is registered and that exactly
// one root node exists.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if !g.Has(e.Source) {
			return fmt.Errorf("%w: source %q", ErrInvalidEdgeEndpoint, e.Source)
		}
		if !g.Has(e.Target) {
			return fmt.Errorf("%w: target %q", ErrInvalidEdgeEndpoint, e.Target)
		}
	}
	roots := 0
	for _, n := range g.nodes {
		if n.Kind == KindRoot {
			roots++
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: found %d", ErrRootCount, roots)
	}
	return nil
}

type graphJSON struct {
	Nodes []*Node `json:"nodes"`
	Edges []Edge  `json:"edges"`
}

// MarshalJSON encodes the graph as {"nodes": [...], "edges": [...]} in
// construction order.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{Nodes: g.Nodes(), Edges: g.Edges()})
}

// UnmarshalJSON rebuilds the registry from its JSON form and validates it.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ng := New()
	for _, n := range raw.Nodes {
		if n == nil {
			continue
		}
		if err := ng.AddNode(*n); err != nil {
			return err
		}
	}
	for _, e := range raw.Edges {
		ng.AddEdge(e)
	}
	if err := ng.Validate(); err != nil {
		return err
	}
	*g = *ng
	return nil
}
