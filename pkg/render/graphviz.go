package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// RenderSVG renders DOT text to SVG with the embedded Graphviz engine.
func RenderSVG(dot string) ([]byte, error) {
	return renderAs(dot, graphviz.SVG)
}

// RenderPNG renders DOT text to PNG with the embedded Graphviz engine.
func RenderPNG(dot string) ([]byte, error) {
	return renderAs(dot, graphviz.PNG)
}

func renderAs(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
