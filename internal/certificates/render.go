package certificates

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
)

// The layout targets A4 at 96 dpi and rasterizes at triple density so text
// stays crisp when the bitmap fills the PDF page.
const (
	pageWidth   = 794
	pageHeight  = 1123
	rasterScale = 3
)

// pdfTimestamp pins the document metadata so identical inputs produce
// identical bytes.
var pdfTimestamp = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	fontOnce    sync.Once
	fontErr     error
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		regularFont, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			return
		}
		boldFont, fontErr = opentype.Parse(gobold.TTF)
	})
	return fontErr
}

func face(src *opentype.Font, points float64) (font.Face, error) {
	return opentype.NewFace(src, &opentype.FaceOptions{
		Size:    points * rasterScale,
		DPI:     96,
		Hinting: font.HintingFull,
	})
}

// Renderer draws warranty certificates. Safe for concurrent use; each call
// builds its own canvas.
type Renderer struct{}

// NewRenderer parses the embedded fonts once and returns a renderer.
func NewRenderer() (*Renderer, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("parsing embedded fonts: %w", err)
	}
	return &Renderer{}, nil
}

// RenderImage rasterizes the certificate layout at triple density.
func (r *Renderer) RenderImage(data Data) (image.Image, error) {
	const (
		w = pageWidth * rasterScale
		h = pageHeight * rasterScale
	)
	dc := gg.NewContext(w, h)

	s := func(v float64) float64 { return v * rasterScale }

	// page background
	dc.SetHexColor("#ffffff")
	dc.Clear()

	// header band
	dc.SetHexColor("#101828")
	dc.DrawRectangle(0, 0, w, s(170))
	dc.Fill()

	setFace := func(src *opentype.Font, points float64) error {
		f, err := face(src, points)
		if err != nil {
			return err
		}
		dc.SetFontFace(f)
		return nil
	}

	if err := setFace(boldFont, 34); err != nil {
		return nil, err
	}
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored("ShieldWrap", s(pageWidth/2), s(70), 0.5, 0.5)

	if err := setFace(regularFont, 15); err != nil {
		return nil, err
	}
	dc.SetHexColor("#c9d2e3")
	dc.DrawStringAnchored("PAINT PROTECTION FILM WARRANTY CERTIFICATE", s(pageWidth/2), s(120), 0.5, 0.5)

	// certificate number badge
	if err := setFace(boldFont, 18); err != nil {
		return nil, err
	}
	dc.SetHexColor("#101828")
	dc.DrawStringAnchored(data.Number, s(pageWidth/2), s(225), 0.5, 0.5)

	// rule under the badge
	dc.SetHexColor("#d0d5dd")
	dc.SetLineWidth(s(1))
	dc.DrawLine(s(90), s(255), s(pageWidth-90), s(255))
	dc.Stroke()

	// coverage statement
	if err := setFace(regularFont, 13); err != nil {
		return nil, err
	}
	dc.SetHexColor("#475467")
	statement := fmt.Sprintf("This certifies that the vehicle below is protected by %s for %s.",
		orDash(data.ProductName), orDash(data.Duration))
	dc.DrawStringWrapped(statement, s(pageWidth/2), s(300), 0.5, 0.5, s(pageWidth-180), 1.5, gg.AlignCenter)

	// detail rows
	rows := []struct {
		label string
		value string
	}{
		{"Customer", data.CustomerName},
		{"Phone", data.Phone},
		{"Vehicle", data.VehicleID},
		{"Product", data.ProductName},
		{"Coverage", data.Duration},
		{"Film Roll", data.RollCode},
		{"Installed By", data.Studio},
		{"Location", data.Location},
		{"Installed On", data.InstallDate.Format("02 Jan 2006")},
	}

	y := 400.0
	for _, row := range rows {
		if err := setFace(regularFont, 12); err != nil {
			return nil, err
		}
		dc.SetHexColor("#98a2b3")
		dc.DrawString(row.label, s(120), s(y))

		if err := setFace(boldFont, 14); err != nil {
			return nil, err
		}
		dc.SetHexColor("#101828")
		dc.DrawString(orDash(row.value), s(320), s(y))

		dc.SetHexColor("#eaecf0")
		dc.SetLineWidth(s(1))
		dc.DrawLine(s(120), s(y+18), s(pageWidth-120), s(y+18))
		dc.Stroke()

		y += 62
	}

	// footer
	if err := setFace(regularFont, 10); err != nil {
		return nil, err
	}
	dc.SetHexColor("#98a2b3")
	dc.DrawStringAnchored("Coverage is subject to the published warranty terms. Verify this certificate at shieldwrap.in/warranty.",
		s(pageWidth/2), s(pageHeight-60), 0.5, 0.5)

	return dc.Image(), nil
}

// RenderPDF writes a single-page PDF whose page is the rasterized layout.
func (r *Renderer) RenderPDF(w io.Writer, data Data) error {
	img, err := r.RenderImage(data)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering certificate layout")
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding certificate bitmap")
	}

	// page size mirrors the source aspect ratio in points
	const (
		pdfWidth  = 595.28
		pdfHeight = pdfWidth * float64(pageHeight) / float64(pageWidth)
	)

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pdfWidth, Ht: pdfHeight},
	})
	doc.SetCreationDate(pdfTimestamp)
	doc.SetModificationDate(pdfTimestamp)
	doc.SetCompression(true)
	doc.SetMargins(0, 0, 0)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	doc.RegisterImageOptionsReader("certificate", opts, &pngBuf)
	doc.ImageOptions("certificate", 0, 0, pdfWidth, pdfHeight, false, opts, 0, "")

	if err := doc.Output(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing certificate pdf")
	}
	return nil
}

// Filename is the download name for one certificate.
func Filename(id uint) string {
	return fmt.Sprintf("warranty-%d.pdf", id)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
