package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Edge labels with special meaning. Every other label is a specified edge.
const (
	LabelUnspec = "unspec"
	LabelAnaph  = "Anaph"
)

// Kind classifies an edge by its label.
type Kind int

const (
	// KindSpecified is a fully specified dependency.
	KindSpecified Kind = iota
	// KindUnspec records that Child is a member of the group named Head.
	KindUnspec
	// KindAnaph is an anaphora link.
	KindAnaph
)

func (k Kind) String() string {
	switch k {
	case KindUnspec:
		return "unspec"
	case KindAnaph:
		return "anaph"
	default:
		return "specified"
	}
}

// Edge is one annotated edge. An empty Label is a specified edge whose label
// was null in the source.
type Edge struct {
	Head  string `json:"head"`
	Child string `json:"child"`
	Label string `json:"label,omitempty"`
}

// Kind returns the edge classification derived from its label.
func (e Edge) Kind() Kind {
	switch e.Label {
	case LabelUnspec:
		return KindUnspec
	case LabelAnaph:
		return KindAnaph
	default:
		return KindSpecified
	}
}

func (e Edge) String() string {
	if e.Label == "" {
		return e.Head + " -> " + e.Child
	}
	return fmt.Sprintf("%s -[%s]-> %s", e.Head, e.Label, e.Child)
}

// UnmarshalJSON accepts [head, child, label] arrays (label may be null or
// missing) and {"head", "child", "label"} objects.
func (e *Edge) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain Edge
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*e = Edge(p)
		return nil
	}

	var parts []*string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("edge must be an array or object: %w", err)
	}
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("edge must have 2 or 3 elements, got %d", len(parts))
	}
	if parts[0] == nil || parts[1] == nil {
		return fmt.Errorf("edge endpoints cannot be null")
	}
	*e = Edge{Head: *parts[0], Child: *parts[1]}
	if len(parts) == 3 && parts[2] != nil {
		e.Label = *parts[2]
	}
	return nil
}

// MarshalJSON writes the array form used by the annotation parser.
func (e Edge) MarshalJSON() ([]byte, error) {
	var label any
	if e.Label != "" {
		label = e.Label
	}
	return json.Marshal([]any{e.Head, e.Child, label})
}

// Words is the ordered list of token forms covered by a node. It decodes
// from an array of strings or a single string.
type Words []string

// UnmarshalJSON accepts a string or an array of strings.
func (w *Words) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*w = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = Words{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("words must be a string or array of strings: %w", err)
	}
	*w = list
	return nil
}

// Annotation is the parsed annotation of one sentence.
type Annotation struct {
	// ID identifies the sentence in batch output. Optional.
	ID string `json:"id,omitempty"`
	// Tokens is the sentence in order. Forms are unique; the parser suffixes
	// repeated words as form_N.
	Tokens []string `json:"tokens"`
	// Nodes lists declared node identifiers, including group names.
	Nodes []string `json:"nodes"`
	// NodeToWords maps each abstraction or token node to the tokens it covers.
	NodeToWords map[string]Words `json:"node2words"`
	// ExtraNodeToWords maps coordination-variable nodes to their words.
	// These nodes never become vertices.
	ExtraNodeToWords map[string]Words `json:"extra_node2words,omitempty"`
	// Edges is the annotated edge list in source order.
	Edges []Edge `json:"node_edges"`
}

// Groups returns the coordination-boundary group names in first-use order.
func (a *Annotation) Groups() []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range a.Edges {
		if e.Kind() == KindUnspec && !seen[e.Head] {
			seen[e.Head] = true
			names = append(names, e.Head)
		}
	}
	return names
}

// Specified returns the fully specified edges in source order.
func (a *Annotation) Specified() []Edge {
	var out []Edge
	for _, e := range a.Edges {
		if e.Kind() == KindSpecified {
			out = append(out, e)
		}
	}
	return out
}
