package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/cbb"
	"github.com/matzehuels/promiscuity/pkg/nodeset"
	"github.com/matzehuels/promiscuity/pkg/render"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the covered words to each node label.
	Detailed bool
}

// GraphToDOT converts a candidate graph to Graphviz DOT. Edges point from
// candidate parent to child.
func GraphToDOT(g *candidate.Graph, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	writeNodes(&buf, g, opts, g.Initial())

	buf.WriteString("\n")
	for c := 1; c < g.Len(); c++ {
		ps := g.Parents(c)
		style := ""
		if ps.Len() > 1 {
			style = " [style=dashed, color=grey40]"
		}
		ps.Each(func(p int) bool {
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", g.Label(p), g.Label(c), style)
			return true
		})
	}
	buf.WriteString("}\n")
	return buf.String()
}

// TreeToDOT converts one tree over g to Graphviz DOT.
func TreeToDOT(g *candidate.Graph, t tree.Tree, opts Options) string {
	state, ok := cbb.Check(t, g.Initial())
	if !ok {
		state = g.Initial()
	}

	var buf bytes.Buffer
	writeHeader(&buf)
	writeNodes(&buf, g, opts, state)

	buf.WriteString("\n")
	for _, e := range t.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", g.Label(e[0]), g.Label(e[1]))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
}

// writeNodes emits the root, then every group as a cluster with its
// innermost members, then the remaining vertices.
func writeNodes(buf *bytes.Buffer, g *candidate.Graph, opts Options, state cbb.State) {
	fmt.Fprintf(buf, "  %q [shape=point, width=0.15];\n", g.Label(0))

	tb := g.Table()
	heads := nodeset.Set{}
	for gi := 0; gi < tb.Len(); gi++ {
		heads = heads.Union(state.Eligible(gi))
	}
	node := func(indent string, v int) {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(g, v, opts.Detailed))}
		if heads.Has(v) {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, g.Label(v), strings.Join(attrs, ", "))
	}

	nest := newNesting(tb)
	var cluster func(gi int, depth int)
	cluster = func(gi int, depth int) {
		indent := strings.Repeat("  ", depth+1)
		fmt.Fprintf(buf, "%ssubgraph \"cluster_%d\" {\n", indent, gi)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, tb.Group(gi).Name)
		fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
		for _, ci := range nest.children[gi] {
			cluster(ci, depth+1)
		}
		for _, v := range nest.own[gi] {
			node(indent+"  ", v)
		}
		fmt.Fprintf(buf, "%s}\n", indent)
	}
	for _, gi := range nest.roots {
		cluster(gi, 0)
	}
	for v := 1; v < g.Len(); v++ {
		if nest.home[v] < 0 {
			node("  ", v)
		}
	}
}

func fmtLabel(g *candidate.Graph, v int, detailed bool) string {
	id := g.Label(v)
	if !detailed {
		return id
	}
	ws := g.Words(v)
	if len(ws) == 0 || (len(ws) == 1 && g.Tokens()[ws[0]] == id) {
		return id
	}
	words := make([]string, len(ws))
	for i, p := range ws {
		words[i] = g.Tokens()[p]
	}
	return id + "\n" + strings.Join(words, " ")
}

// nesting arranges groups into a containment forest. Each vertex is drawn
// in the smallest group containing it.
type nesting struct {
	roots    []int
	children [][]int
	own      [][]int
	home     map[int]int
}

func newNesting(tb *cbb.Table) nesting {
	n := tb.Len()
	nest := nesting{children: make([][]int, n), own: make([][]int, n), home: map[int]int{}}
	size := func(gi int) int { return tb.Group(gi).Members.Len() }

	for gi := 0; gi < n; gi++ {
		parent := -1
		mi := tb.Group(gi).Members
		for gj := 0; gj < n; gj++ {
			mj := tb.Group(gj).Members
			if gj == gi || !mi.SubsetOf(mj) || (mi.Equal(mj) && gj > gi) {
				continue
			}
			if parent < 0 || size(gj) < size(parent) {
				parent = gj
			}
		}
		if parent < 0 {
			nest.roots = append(nest.roots, gi)
		} else {
			nest.children[parent] = append(nest.children[parent], gi)
		}
	}

	for gi := 0; gi < n; gi++ {
		tb.Group(gi).Members.Each(func(v int) bool {
			cur, ok := nest.home[v]
			if !ok || size(gi) <= size(cur) {
				nest.home[v] = gi
			}
			return true
		})
	}
	for v, gi := range nest.home {
		nest.own[gi] = append(nest.own[gi], v)
	}
	for gi := range nest.own {
		slices.Sort(nest.own[gi])
	}
	return nest
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.Convert].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(svg, "pdf", 0)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(svg, "png", scale)
}
