// Package annotation defines the typed record of an ambiguous GFL-style
// dependency annotation and its JSON encoding.
//
// An [Annotation] is what the external annotation parser produces for one
// sentence: the token sequence, the declared nodes, the node-to-words
// mapping, coordination-variable nodes and the annotated edges. Edges carry a
// label: [LabelUnspec] records membership in a coordination-boundary group
// (the head is the group name), [LabelAnaph] marks anaphora and never
// constrains tree structure, and any other label, including none, is a fully
// specified dependency.
//
// # Decoding
//
// [Decode] and [ReadJSON] accept the key names written by the parser:
//
//	{
//	  "tokens": ["a", "b", "c", "d"],
//	  "nodes": ["a", "b", "c", "d", "g"],
//	  "node2words": {"a": ["a"], "b": ["b"], "c": ["c"], "d": ["d"]},
//	  "extra_node2words": {},
//	  "node_edges": [["g", "a", "unspec"], ["g", "b", "unspec"], ["c", "g", null]]
//	}
//
// Edges may be encoded as [head, child, label] arrays or as objects with
// "head", "child" and "label" keys. Decoded records are validated before
// they are returned.
//
// # Batch input
//
// [Reader] reads one record per line. Lines containing tabs are split and
// the JSON is taken from [Reader.Column] (the third column by default);
// other lines are decoded whole.
package annotation
