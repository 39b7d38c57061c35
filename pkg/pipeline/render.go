package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/conll"
	"github.com/matzehuels/promiscuity/pkg/render/nodelink"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// Format constants for rendered artifacts.
const (
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatCoNLL = "conll"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatCoNLL: true,
	FormatJSON:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf, conll, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// RenderOptions configures Render.
type RenderOptions struct {
	Formats []string
	// Detailed adds covered words to diagram node labels.
	Detailed bool
	// Standard selects standard CoNLL numbering.
	Standard bool
}

// Render generates artifacts for t, a tree over g. A nil t renders the
// candidate graph itself; CoNLL output then is not available.
func Render(g *candidate.Graph, t *tree.Tree, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	dopts := nodelink.Options{Detailed: opts.Detailed}
	var dot string
	if t != nil {
		dot = nodelink.TreeToDOT(g, *t, dopts)
	} else {
		dot = nodelink.GraphToDOT(g, dopts)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, 2.0)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case FormatCoNLL:
			if t == nil {
				return nil, fmt.Errorf("conll output needs a tree")
			}
			var buf bytes.Buffer
			err = conll.Write(&buf, g, *t, conll.Options{Standard: opts.Standard})
			data = buf.Bytes()
		case FormatJSON:
			if t != nil {
				data, err = json.Marshal(t)
			} else {
				data, err = json.Marshal(candidateJSON(g))
			}
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// candidateJSON lists each vertex's candidate parents by label.
func candidateJSON(g *candidate.Graph) map[string][]string {
	out := make(map[string][]string, g.Len())
	for v := 1; v < g.Len(); v++ {
		ps := []string{}
		g.Parents(v).Each(func(p int) bool {
			ps = append(ps, g.Label(p))
			return true
		})
		out[g.Label(v)] = ps
	}
	return out
}
