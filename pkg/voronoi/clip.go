package voronoi

import "github.com/matzehuels/stipple/pkg/geom"

// clipBisector keeps the part of the convex polygon cell that is at least
// as close to site as to other.
func clipBisector(cell geom.Polygon, site, other geom.Point) geom.Polygon {
	nx, ny := other.X-site.X, other.Y-site.Y
	mx, my := (site.X+other.X)/2, (site.Y+other.Y)/2
	return clipHalfPlane(cell, nx, ny, mx*nx+my*ny)
}

// clipHalfPlane is one Sutherland-Hodgman pass: it keeps the points p of
// the convex polygon with p·n <= c. Results with fewer than three
// vertices are reported as nil.
func clipHalfPlane(poly geom.Polygon, nx, ny, c float64) geom.Polygon {
	if len(poly) == 0 {
		return nil
	}
	side := func(p geom.Point) float64 { return p.X*nx + p.Y*ny - c }

	out := make(geom.Polygon, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	dPrev := side(prev)
	for _, cur := range poly {
		dCur := side(cur)
		if (dPrev < 0 && dCur > 0) || (dPrev > 0 && dCur < 0) {
			t := dPrev / (dPrev - dCur)
			out = append(out, geom.Point{
				X: prev.X + t*(cur.X-prev.X),
				Y: prev.Y + t*(cur.Y-prev.Y),
			})
		}
		if dCur <= 0 {
			out = append(out, cur)
		}
		prev, dPrev = cur, dCur
	}
	if len(out) < 3 {
		return nil
	}
	return out
}
