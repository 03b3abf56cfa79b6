// Package render draws a resolved build plan as a dependency graph.
//
// [ToDOT] produces deterministic Graphviz DOT text; [RenderSVG] and
// [RenderPNG] rasterize it with the embedded Graphviz engine. Parts
// are nodes, satisfied dependencies are solid edges and hidden
// dependencies are dashed ones.
package render

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/partres/partres/pkg/part"
	"github.com/partres/partres/pkg/resolve"
)

// Options configures plan rendering.
type Options struct {
	// Detailed adds the part kind to every node label.
	Detailed bool
}

// ToDOT converts a plan to Graphviz DOT. Nodes and edges are emitted
// in sorted scoped-name order so identical plans produce identical
// text. Edges to parts outside the plan (skipped hidden deps, parts
// below the target's API level) are omitted.
func ToDOT(plan *resolve.Plan, opts Options) string {
	names := plan.Names()
	slices.Sort(names)

	var buf bytes.Buffer
	buf.WriteString("digraph parts {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	for _, name := range names {
		p, _ := plan.Part(name)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(nodeAttrs(p, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, name := range names {
		p, _ := plan.Part(name)
		for _, dep := range p.Deps {
			if plan.Has(dep) {
				fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
			}
		}
		for _, dep := range p.HiddenDeps {
			if plan.Has(dep) {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", name, dep)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(p *part.Part, detailed bool) []string {
	label := p.Name
	if detailed {
		label = p.Name + "\n" + string(p.Kind())
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch p.Kind() {
	case part.KindNativeLibrary:
		attrs = append(attrs, "fillcolor=lightblue")
	case part.KindExtensionModule:
		attrs = append(attrs, "fillcolor=lightyellow")
	case part.KindDataFile:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	if p.Internal {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}
