package inspect

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/trbgen/pkg/alloc"
)

// ToDOT converts an allocation to Graphviz DOT. Every placement becomes a
// node labelled with its offset and content; nodes of the same generation
// share a rank, and each pointer is an edge to the item it references.
func ToDOT(a *alloc.Allocation) string {
	var buf bytes.Buffer
	buf.WriteString("digraph trb {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=10];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("\n")

	gen := -1
	for i, p := range a.Placements {
		if p.Generation != gen {
			if gen >= 0 {
				buf.WriteString("  }\n")
			}
			gen = p.Generation
			fmt.Fprintf(&buf, "  subgraph gen%d {\n    rank=same;\n", gen)
		}
		label := fmt.Sprintf("%#x\n%s", p.Offset, Describe(p.Object))
		fmt.Fprintf(&buf, "    p%d [label=%q];\n", i, label)
	}
	if gen >= 0 {
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for i, p := range a.Placements {
		if p.Parent >= 0 {
			fmt.Fprintf(&buf, "  p%d -> p%d;\n", p.Parent, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return buf.Bytes(), nil
}
