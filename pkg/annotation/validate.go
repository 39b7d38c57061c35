package annotation

import (
	"github.com/matzehuels/promiscuity/pkg/errors"
)

// RootID is the identifier of the virtual root.
const RootID = errors.RootID

// Validate checks field presence and identifiers and that every edge
// endpoint is known. It returns an [errors.ErrCodeInvalidAnnotation] error
// describing the first problem found.
//
// Validate does not check structural consistency; contradictory but
// well-formed annotations are reported when the candidate graph is built.
func (a *Annotation) Validate() error {
	if a == nil {
		return errors.New(errors.ErrCodeInvalidAnnotation, "annotation is nil")
	}
	if len(a.Tokens) == 0 {
		return errors.New(errors.ErrCodeInvalidAnnotation, "annotation has no tokens")
	}

	tokens := make(map[string]bool, len(a.Tokens))
	for _, t := range a.Tokens {
		if err := errors.ValidateIdentifier("token", t); err != nil {
			return err
		}
		if tokens[t] {
			return errors.New(errors.ErrCodeInvalidAnnotation, "duplicate token %q", t)
		}
		tokens[t] = true
	}

	known := map[string]bool{RootID: true}
	for t := range tokens {
		known[t] = true
	}
	for _, n := range a.Nodes {
		if err := errors.ValidateIdentifier("node", n); err != nil {
			return err
		}
		known[n] = true
	}
	for n, words := range a.NodeToWords {
		if err := errors.ValidateIdentifier("node", n); err != nil {
			return err
		}
		for _, w := range words {
			if !tokens[w] {
				return errors.New(errors.ErrCodeInvalidAnnotation, "node %q covers unknown token %q", n, w)
			}
		}
		known[n] = true
	}
	for n := range a.ExtraNodeToWords {
		if err := errors.ValidateIdentifier("node", n); err != nil {
			return err
		}
		if _, ok := a.NodeToWords[n]; ok {
			return errors.New(errors.ErrCodeInvalidAnnotation, "node %q is both a node and a coordination variable", n)
		}
		known[n] = true
	}

	for i, e := range a.Edges {
		if err := errors.ValidateEndpoint(e.Head); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAnnotation, err, "edge %d head", i)
		}
		if err := errors.ValidateIdentifier("edge child", e.Child); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAnnotation, err, "edge %d child", i)
		}
		if err := errors.ValidateLabel(e.Label, LabelUnspec, LabelAnaph); err != nil {
			return err
		}
		if e.Head == e.Child {
			return errors.New(errors.ErrCodeInvalidAnnotation, "edge %d is a self-loop on %q", i, e.Head)
		}
		if e.Kind() == KindUnspec {
			if e.Head == RootID {
				return errors.New(errors.ErrCodeInvalidAnnotation, "edge %d: the root cannot be a group", i)
			}
			known[e.Head] = true
		}
	}
	for i, e := range a.Edges {
		if !known[e.Head] {
			return errors.New(errors.ErrCodeInvalidAnnotation, "edge %d references unknown node %q", i, e.Head)
		}
		if !known[e.Child] {
			return errors.New(errors.ErrCodeInvalidAnnotation, "edge %d references unknown node %q", i, e.Child)
		}
	}
	return nil
}
