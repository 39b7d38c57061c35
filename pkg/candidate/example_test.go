package candidate_test

import (
	"fmt"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/candidate"
)

func ExampleBuild() {
	a := &annotation.Annotation{
		Tokens: []string{"dogs", "and", "cats"},
		NodeToWords: map[string]annotation.Words{
			"dogs": {"dogs"}, "and": {"and"}, "cats": {"cats"},
		},
		Edges: []annotation.Edge{
			{Head: "and", Child: "dogs"},
			{Head: "and", Child: "cats"},
		},
	}
	g, err := candidate.Build(a)
	if err != nil {
		fmt.Println(err)
		return
	}
	for v := 1; v < g.Len(); v++ {
		fmt.Println(g.Label(v), g.Parents(v).Len())
	}
	// Output:
	// and 3
	// cats 1
	// dogs 1
}
