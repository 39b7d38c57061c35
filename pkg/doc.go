// Package pkg provides the core libraries for promiscuity, which enumerates
// the dependency trees an underspecified annotation allows.
//
// # Overview
//
// A GFL annotation may leave attachments open and may bracket tokens into
// coordination-style groups (CBB groups) whose internal structure is
// unknown. Promiscuity counts, bounds and lists every fully resolved tree
// compatible with it. The pkg directory is organized into three areas:
//
//  1. Engine - [annotation], [candidate], [cbb], [search], [arborescence],
//     [kirchhoff] and their shared [nodeset], [digraph] and [tree] types
//  2. Output - [conll] rows and [render/nodelink] Graphviz diagrams
//  3. Infrastructure - [pipeline] orchestration, [cache], [sink], [config],
//     [errors] and [observability]
//
// # Architecture
//
// The data flow through promiscuity:
//
//	annotation JSON
//	      ↓
//	  [annotation] (decode + validate)
//	      ↓
//	  [candidate] (candidate parents + initial CBB state)
//	      ↓
//	  [kirchhoff] (spanning-tree bound, optional skip)
//	      ↓
//	  [search] or [arborescence] + [cbb.Filter]
//	      ↓
//	  trees → count / CoNLL / DOT / SVG / JSONL / MongoDB
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/promiscuity/pkg/annotation"
//	    "github.com/matzehuels/promiscuity/pkg/pipeline"
//	    "github.com/matzehuels/promiscuity/pkg/tree"
//	)
//
//	ann, _ := annotation.ImportJSON("sentence.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Analyze(context.Background(), ann, pipeline.Options{
//	    Budget: tree.Budget{MaxTrees: 1000},
//	})
//	fmt.Println(res) // sentence: 12 trees (bound 125)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/search/...   # Specific package
//	go test -run Example ./... # Examples only
//
// [annotation]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/annotation
// [candidate]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/candidate
// [cbb]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/cbb
// [cbb.Filter]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/cbb#Filter
// [search]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/search
// [arborescence]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/arborescence
// [kirchhoff]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/kirchhoff
// [nodeset]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/nodeset
// [digraph]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/digraph
// [tree]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/tree
// [conll]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/conll
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/cache
// [sink]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/sink
// [config]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/promiscuity/pkg/observability
package pkg
