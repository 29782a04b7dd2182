package density

import (
	"bufio"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/stipple/pkg/errors"
)

// Decode reads an image in any registered format: PNG, JPEG and GIF from
// the standard library plus BMP, TIFF and WebP. It returns the decoded
// image and the format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		if err == image.ErrFormat {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "unrecognized image data")
		}
		return nil, "", errors.Wrap(errors.ErrCodeDecode, err, "decode image")
	}
	return img, format, nil
}

// Load decodes the image file at path.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Resize downscales img so that neither side exceeds maxSize, keeping the
// aspect ratio. Images already within bounds, or a maxSize <= 0, are
// returned unchanged. Scaling uses Catmull-Rom resampling.
func Resize(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	scale := float64(maxSize) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// LoadField is a convenience for Load + Resize + FromImage.
func LoadField(path string, polarity Polarity, maxSize int) (*Field, error) {
	img, _, err := Load(path)
	if err != nil {
		return nil, err
	}
	return FromImage(Resize(img, maxSize), polarity)
}
