// Package render turns a relaxed point set into output artefacts.
//
// # Overview
//
// Rendering happens in two stages. [Compose] builds a [Scene]: it fits the
// image into the output canvas, sizes every dot by the density at its
// location and picks its color. The Render* functions then serialize the
// scene:
//
//   - [RenderSVG]: vector output via github.com/ajstarks/svgo
//   - [RenderPNG]: raster output via github.com/gogpu/gg
//   - [RenderJSON]: points, dots and run metadata
//   - [RenderCSV]: one row per dot via github.com/gocarina/gocsv
//
// # Dot Model
//
// A dot's radius is MinDotSize + weight*DotSizeRange in canvas units, where
// weight is the density field's weight at the stipple. Light-on-dark scenes
// draw white dots on #333; dark-on-light scenes draw black dots on white.
// With Colorize set, each dot instead takes the average color of ten random
// image samples within its radius.
//
//	scene := render.Compose(points, field, render.DefaultStyle())
//	svg := render.RenderSVG(scene, render.WithTitle("portrait"))
//	png, err := render.RenderPNG(scene)
package render
