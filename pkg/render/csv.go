package render

import (
	"github.com/gocarina/gocsv"

	"github.com/matzehuels/stipple/pkg/errors"
)

type csvRow struct {
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	CX    float64 `csv:"canvas_x"`
	CY    float64 `csv:"canvas_y"`
	R     float64 `csv:"radius"`
	Color string  `csv:"color"`
}

// RenderCSV writes one row per stipple with its image position, canvas
// position, radius and color.
func RenderCSV(s Scene) ([]byte, error) {
	rows := make([]*csvRow, len(s.Dots))
	for i, d := range s.Dots {
		row := &csvRow{Index: i, CX: d.X, CY: d.Y, R: d.R, Color: d.Color.Hex()}
		if i < len(s.Points) {
			row.X, row.Y = s.Points[i].X, s.Points[i].Y
		}
		rows[i] = row
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode csv")
	}
	return data, nil
}
