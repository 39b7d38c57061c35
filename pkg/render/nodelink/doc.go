// Package nodelink renders candidate graphs and dependency trees as
// node-link diagrams.
//
// # Overview
//
// [GraphToDOT] draws every candidate edge of a candidate graph: edges that
// are the only option of their child are solid, ambiguous ones dashed.
// [TreeToDOT] draws a single resolved tree. In both, coordination-boundary
// groups are drawn as clusters and the eligible heads of a group (or its
// resolved head in a tree) are outlined in bold. Nested groups become
// nested clusters.
//
// # Usage
//
//	dot := nodelink.TreeToDOT(g, t, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include the covered words.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
