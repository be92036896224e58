package pdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/go-pdf/fpdf"
)

// asset is a decoded inline image ready to place on a page.
type asset struct {
	name     string
	data     *bytes.Reader
	widthMM  float64
	heightMM float64
}

// decodeInline parses a data-URL (or bare base64) image payload.
// Returns false for empty or undecodable payloads; callers skip those
// rather than fail the export, since drafts are fully self-contained and
// a bad payload can never become loadable by waiting.
func decodeInline(payload string) (image.Image, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, false
	}
	if strings.HasPrefix(payload, "data:") {
		_, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, false
		}
		payload = rest
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, false
	}
	return img, true
}

// prepareAsset re-encodes an inline payload as an opaque JPEG composited
// over the dark backdrop and registers it with the document. The returned
// dimensions are scaled down by the raster density multiplier so the
// image prints sharp. maxWidth caps the placed width in millimetres.
func (c *Composer) prepareAsset(doc *fpdf.Fpdf, name, payload string, maxWidth float64) (*asset, bool) {
	img, ok := decodeInline(payload)
	if !ok {
		return nil, false
	}

	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: c.JPEGQuality}); err != nil {
		return nil, false
	}

	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	// 96 dpi reference; dividing by the density multiplier halves the
	// placed size at Scale 2, doubling effective resolution.
	pxToMM := 25.4 / (96 * scale)
	w := float64(bounds.Dx()) * pxToMM
	h := float64(bounds.Dy()) * pxToMM
	if w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}

	a := &asset{name: name, data: bytes.NewReader(buf.Bytes()), widthMM: w, heightMM: h}
	doc.RegisterImageOptionsReader(a.name, fpdf.ImageOptions{ImageType: "JPG"}, a.data)
	if doc.Err() {
		return nil, false
	}
	return a, true
}

// place draws a registered asset at the current Y, left-aligned at x.
func (a *asset) place(doc *fpdf.Fpdf, x float64) {
	doc.ImageOptions(a.name, x, doc.GetY(), a.widthMM, a.heightMM, true, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
}
