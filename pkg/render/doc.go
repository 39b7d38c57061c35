// Package render provides output format conversion for rendered graphs.
//
// # Overview
//
// Candidate graphs and resolved trees are drawn as SVG by the [nodelink]
// subpackage. [Convert] turns an SVG into PNG or PDF with the external
// rsvg-convert tool (from librsvg).
//
//	dot := nodelink.GraphToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.Convert(svg, "pdf", 0)
//	png, err := render.Convert(svg, "png", 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/promiscuity/pkg/render/nodelink
package render
