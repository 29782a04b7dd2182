package render

import (
	"encoding/json"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
)

// Meta describes the run that produced a scene.
type Meta struct {
	RunID      string  `json:"run_id,omitempty"`
	Source     string  `json:"source,omitempty"`
	Steps      int     `json:"steps"`
	Count      int     `json:"count"`
	Iterations int     `json:"iterations,omitempty"`
	Samples    int     `json:"samples"`
	Cutoff     float64 `json:"white_cutoff"`
	Seed       int64   `json:"seed"`
}

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	meta   *Meta
	indent bool
}

// WithJSONMeta records run metadata in the output.
func WithJSONMeta(m Meta) JSONOption { return func(r *jsonRenderer) { r.meta = &m } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Polarity   string       `json:"polarity"`
	Background string       `json:"background"`
	Frame      Frame        `json:"frame"`
	Meta       *Meta        `json:"meta,omitempty"`
	Points     []geom.Point `json:"points"`
	Dots       []jsonDot    `json:"dots"`
}

type jsonDot struct {
	Dot
	Color string `json:"color"`
}

// RenderJSON serializes the scene: image size, stipples in image
// coordinates and dots in canvas coordinates.
func RenderJSON(s Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      s.ImageWidth,
		Height:     s.ImageHeight,
		Polarity:   s.Polarity.String(),
		Background: s.Background.Hex(),
		Frame:      s.Frame,
		Meta:       r.meta,
		Points:     s.Points,
		Dots:       make([]jsonDot, len(s.Dots)),
	}
	if out.Points == nil {
		out.Points = []geom.Point{}
	}
	for i, d := range s.Dots {
		out.Dots[i] = jsonDot{Dot: d, Color: d.Color.Hex()}
	}

	var (
		data []byte
		err  error
	)
	if r.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode json")
	}
	return data, nil
}
