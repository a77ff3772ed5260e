// Package arch builds the semantic architecture graph of a repository.
//
// The graph has no geometry. It holds a single root node for files at the
// repository root, one node per top-level directory and per sufficiently
// large depth-2 directory, standalone entry-point nodes, one external node
// per dependency ecosystem and a handful of root config files.
//
// Nodes are registered in a [Graph] arena in construction order. Edges may be
// recorded before their target exists; [Graph.Validate] checks every endpoint
// once the graph is complete.
//
// # Export
//
// A graph marshals to JSON as {"nodes": [...], "edges": [...]} and can be
// written as Graphviz DOT text with [Graph.WriteDOT].
package arch
