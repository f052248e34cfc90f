package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"
	realgofpdi "github.com/phpdave11/gofpdi"
)

// Color is an RGB text color with 0-255 components.
type Color struct {
	R, G, B int
}

// canvas is a loaded template whose first page text can be stamped onto.
type canvas interface {
	Width() float64
	// Unsupported lists the runes of text the core fonts cannot encode.
	Unsupported(text string) []rune
	TextWidth(text string, font Font, size float64) float64
	DrawText(text string, at Point, font Font, size float64, color Color)
	Bytes() ([]byte, error)
}

var errNoPages = errors.New("template has no pages")

const mediaBox = "/MediaBox"

type fpdfCanvas struct {
	pdf    *gofpdf.Fpdf
	width  float64
	height float64
	tr     func(string) string

	// Pages after the first are appended unchanged when the document is written.
	imp    *gofpdi.Importer
	stream *io.ReadSeeker
	rest   []gofpdf.SizeType
}

// openTemplate imports page 1 of a PDF template into a new document of the
// same size and keeps it current for stamping. The gofpdi importer panics on
// malformed input, so panics are turned into errors.
func openTemplate(template []byte, compress bool) (c canvas, err error) {
	defer recoverImport(&err, "load template")

	var src io.ReadSeeker = bytes.NewReader(template)
	inspector := realgofpdi.NewImporter()
	inspector.SetSourceStream(&src)
	sizes := inspector.GetPageSizes()
	if len(sizes) == 0 {
		return nil, errNoPages
	}
	pages := make([]gofpdf.SizeType, len(sizes))
	for n := range pages {
		box, ok := sizes[n+1][mediaBox]
		if !ok {
			return nil, fmt.Errorf("template page %d has no media box", n+1)
		}
		if box["w"] <= 0 || box["h"] <= 0 {
			return nil, fmt.Errorf("template page %d has invalid size %.2fx%.2f", n+1, box["w"], box["h"])
		}
		pages[n] = gofpdf.SizeType{Wd: box["w"], Ht: box["h"]}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           pages[0],
	})
	pdf.SetCompression(compress)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	// The importer keys parsed sources by stream pointer, so every page is
	// imported through the same one.
	var stream io.ReadSeeker = bytes.NewReader(template)
	fc := &fpdfCanvas{
		pdf:    pdf,
		width:  pages[0].Wd,
		height: pages[0].Ht,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		imp:    gofpdi.NewImporter(),
		stream: &stream,
		rest:   pages[1:],
	}
	fc.importPage(1, pages[0])
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("import template page: %w", err)
	}
	return fc, nil
}

func recoverImport(err *error, op string) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("%s: %v", op, rec)
	}
}

func (c *fpdfCanvas) importPage(n int, size gofpdf.SizeType) {
	c.pdf.AddPageFormat("P", size)
	tpl := c.imp.ImportPageFromStream(c.pdf, c.stream, n, mediaBox)
	c.imp.UseImportedTemplate(c.pdf, tpl, 0, 0, size.Wd, size.Ht)
}

func (c *fpdfCanvas) Width() float64 {
	return c.width
}

// Unsupported reports runes outside cp1252, which the translator would
// otherwise replace with '.'.
func (c *fpdfCanvas) Unsupported(text string) []rune {
	var bad []rune
	for _, r := range text {
		if r >= 0x80 && c.tr(string(r)) == "." {
			bad = append(bad, r)
		}
	}
	return bad
}

func (c *fpdfCanvas) TextWidth(text string, font Font, size float64) float64 {
	c.pdf.SetFont(font.Family(), font.Style(), size)
	return c.pdf.GetStringWidth(c.tr(text))
}

// DrawText places the text baseline at the given point. gofpdf measures Y
// from the top of the page, so the bottom-left point is flipped here.
func (c *fpdfCanvas) DrawText(text string, at Point, font Font, size float64, color Color) {
	c.pdf.SetFont(font.Family(), font.Style(), size)
	c.pdf.SetTextColor(color.R, color.G, color.B)
	c.pdf.Text(at.X, c.height-at.Y, c.tr(text))
}

func (c *fpdfCanvas) Bytes() (out []byte, err error) {
	defer recoverImport(&err, "copy template pages")
	for i, size := range c.rest {
		c.importPage(i+2, size)
	}
	c.rest = nil

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
