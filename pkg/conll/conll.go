// Package conll formats a resolved dependency tree as CoNLL rows.
//
// Every token gets one row with ten tab-separated columns: index, surface
// form, lowercased form, four placeholders, head index and three more
// placeholders. Duplicate tokens written as form_N lose their suffix in the
// form columns.
//
// Vertices that cover several tokens are represented by their first token
// in sentence order; the other covered tokens attach to it. Vertices that
// cover no tokens are transparent: their dependents attach to the nearest
// ancestor that does.
//
// By default the output starts with a synthetic ROOT row at index 1 and
// tokens are numbered from 2. With [Options.Standard] there is no ROOT row,
// tokens are numbered from 1 and root attachments use head 0.
package conll

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

var dupSuffix = regexp.MustCompile(`^(.*)_\d+$`)

// Options controls numbering.
type Options struct {
	Standard bool
}

// Row is one CoNLL line.
type Row struct {
	Index int
	Form  string
	Lower string
	Head  int
}

// String joins the ten columns with tabs.
func (r Row) String() string {
	return strings.Join([]string{
		strconv.Itoa(r.Index), r.Form, r.Lower, "_", "_", "_",
		strconv.Itoa(r.Head), "_", "_", "_",
	}, "\t")
}

// SurfaceForm strips a trailing _N duplicate marker.
func SurfaceForm(tok string) string {
	if m := dupSuffix.FindStringSubmatch(tok); m != nil && m[1] != "" {
		return m[1]
	}
	return tok
}

// Format converts t, a tree over the vertices of g, into rows.
func Format(g *candidate.Graph, t tree.Tree, opts Options) ([]Row, error) {
	if t.Len() != g.Len() {
		return nil, fmt.Errorf("tree has %d vertices, graph has %d", t.Len(), g.Len())
	}
	tokens := g.Tokens()
	offset, rootHead := 2, 1
	if opts.Standard {
		offset, rootHead = 1, 0
	}

	owner := owners(g)
	// attach finds the head row for token p of vertex v: the first token of
	// the nearest ancestor that covers words, skipping ancestors represented
	// by p itself.
	attach := func(v, p int) int {
		for x := t.Parent(v); x > 0; x = t.Parent(x) {
			if ws := g.Words(x); len(ws) > 0 && ws[0] != p {
				return ws[0] + offset
			}
		}
		return rootHead
	}

	var rows []Row
	if !opts.Standard {
		rows = append(rows, Row{Index: 1, Form: "ROOT", Lower: "root", Head: 0})
	}
	for p, tok := range tokens {
		v := owner[p]
		if v <= 0 {
			return nil, fmt.Errorf("token %q is not covered by any vertex", tok)
		}
		head := attach(v, p)
		if first := g.Words(v)[0]; first != p {
			head = first + offset
		}
		form := SurfaceForm(tok)
		rows = append(rows, Row{Index: p + offset, Form: form, Lower: strings.ToLower(form), Head: head})
	}
	return rows, nil
}

// owners maps each token position to the vertex it belongs to: the vertex
// named like the token if there is one, else the lowest-indexed vertex
// covering it.
func owners(g *candidate.Graph) []int {
	tokens := g.Tokens()
	owner := make([]int, len(tokens))
	for v := 1; v < g.Len(); v++ {
		for _, p := range g.Words(v) {
			if owner[p] == 0 || g.Label(v) == tokens[p] {
				owner[p] = v
			}
		}
	}
	return owner
}

// Write formats t and writes one row per line.
func Write(w io.Writer, g *candidate.Graph, t tree.Tree, opts Options) error {
	rows, err := Format(g, t, opts)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
