package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/promiscuity/pkg/tree"
)

func TestRenderTree(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Analyze(context.Background(), chain(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	tr := res.Trees[0]

	artifacts, err := Render(res.Graph, &tr, RenderOptions{
		Formats:  []string{FormatDOT, FormatCoNLL, FormatJSON},
		Standard: true,
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if dot := string(artifacts[FormatDOT]); !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("dot = %q", dot)
	}
	if lines := strings.Count(string(artifacts[FormatCoNLL]), "\n"); lines != 3 {
		t.Errorf("conll has %d lines, want 3", lines)
	}
	var m map[string]string
	if err := json.Unmarshal(artifacts[FormatJSON], &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	if m["b"] != "a" {
		t.Errorf("json tree = %v", m)
	}
}

func TestRenderGraph(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Analyze(context.Background(), free(), Options{Budget: tree.Budget{CountOnly: true}})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(res.Graph, nil, RenderOptions{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	var m map[string][]string
	if err := json.Unmarshal(artifacts[FormatJSON], &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(m["a"]) != 4 {
		t.Errorf("candidate parents of a = %v, want 4", m["a"])
	}

	if _, err := Render(res.Graph, nil, RenderOptions{Formats: []string{FormatCoNLL}}); err == nil {
		t.Error("conll without a tree should fail")
	}
	if _, err := Render(res.Graph, nil, RenderOptions{Formats: []string{"gif"}}); err == nil {
		t.Error("unknown format should fail")
	}
}
