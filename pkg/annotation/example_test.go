package annotation_test

import (
	"fmt"

	"github.com/matzehuels/promiscuity/pkg/annotation"
)

func ExampleDecode() {
	a, err := annotation.Decode([]byte(`{
		"tokens": ["big", "dog", "barks"],
		"nodes": ["big", "dog", "barks"],
		"node2words": {"big": ["big"], "dog": ["dog"], "barks": ["barks"]},
		"node_edges": [["dog", "big", null], ["barks", "dog", "nsubj"]]
	}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, e := range a.Edges {
		fmt.Println(e, e.Kind())
	}
	// Output:
	// dog -> big specified
	// barks -[nsubj]-> dog specified
}
