package pipeline

import (
	"fmt"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/geom"
	"github.com/matzehuels/stipple/pkg/render"
	"github.com/matzehuels/stipple/pkg/voronoi"
)

// Compose builds the scene for points drawn over field. With opts.Cells
// the Voronoi partition of points is attached for the outline overlay.
func Compose(points []geom.Point, field *density.Field, opts Options) (render.Scene, error) {
	var composeOpts []render.ComposeOption
	if opts.Cells {
		bounds := geom.RectWH(float64(field.Width()), float64(field.Height()))
		cells, err := voronoi.Delaunay{}.Partition(points, bounds)
		if err != nil {
			return render.Scene{}, fmt.Errorf("cell overlay: %w", err)
		}
		composeOpts = append(composeOpts, render.WithCells(cells))
	}
	return render.Compose(points, field, opts.Style, composeOpts...), nil
}

// Render generates output artifacts in the requested formats.
func Render(s render.Scene, meta render.Meta, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(s, buildSVGOptions(opts)...)
		case FormatPNG:
			var pngOpts []render.PNGOption
			if opts.Cells {
				pngOpts = append(pngOpts, render.WithPNGCellOutlines())
			}
			data, err = render.RenderPNG(s, pngOpts...)
		case FormatJSON:
			data, err = render.RenderJSON(s, render.WithJSONMeta(meta), render.WithJSONIndent())
		case FormatCSV:
			data, err = render.RenderCSV(s)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	if opts.Cells {
		svgOpts = append(svgOpts, render.WithCellOutlines())
	}
	return svgOpts
}
