package fill

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	stdimage "image"
	"image/png"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"
	pdfimage "seehuhn.de/go/pdf/graphics/image"

	"github.com/agridesk/consentd/portal/services/template"
	"github.com/agridesk/consentd/portal/types"
)

const signaturePrefix = "data:image/png;base64,"

const (
	pageMargin     = 72.0
	headingBaseY   = 770.0
	fieldsBaseY    = 700.0
	fieldRowHeight = 48.0
	signatureWidth = 180.0
)

// Renderer fills consent forms locally. The template is only checked
// for existence; the output document is laid out from scratch so the
// result does not depend on the template's internal structure.
type Renderer struct {
	templates template.TemplateService
}

func NewRenderer(templates template.TemplateService) *Renderer {
	return &Renderer{templates: templates}
}

func (r *Renderer) Fill(_ context.Context, templateID string, fields types.ConsentFields, signature string) ([]byte, error) {
	if _, err := r.templates.Open(templateID); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	page, err := document.WriteSinglePage(&buf, document.A4, pdf.V1_7, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFillFailed, err)
	}

	bold, err := standard.HelveticaBold.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFillFailed, err)
	}
	regular, err := standard.Helvetica.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFillFailed, err)
	}

	page.TextBegin()
	page.TextSetFont(bold, 18)
	page.TextFirstLine(pageMargin, headingBaseY)
	page.TextShow("Grant Application Consent Form")
	page.TextEnd()

	rows := []struct {
		label, value string
	}{
		{"Name", fields.Name},
		{"Address", fields.Address},
		{"Farm code", fields.FarmCode},
		{"Email", fields.Email},
	}

	y := fieldsBaseY
	for _, row := range rows {
		page.TextBegin()
		page.TextSetFont(bold, 11)
		page.TextFirstLine(pageMargin, y)
		page.TextShow(row.label)
		page.TextSecondLine(0, -16)
		page.TextSetFont(regular, 11)
		page.TextShow(row.value)
		page.TextEnd()
		y -= fieldRowHeight
	}

	if signature != "" {
		img, err := decodeSignature(signature)
		if err != nil {
			return nil, err
		}

		b := img.Bounds()
		height := signatureWidth * float64(b.Dy()) / float64(b.Dx())

		page.PushGraphicsState()
		page.Transform(matrix.Translate(pageMargin, y-height))
		page.Transform(matrix.Scale(signatureWidth, height))
		page.DrawXObject(pdfimage.FromImage(img, color.SpaceDeviceRGB, 8))
		page.PopGraphicsState()
		y -= height + 8
	}

	page.SetLineWidth(0.8)
	page.MoveTo(pageMargin, y)
	page.LineTo(pageMargin+signatureWidth+40, y)
	page.Stroke()

	page.TextBegin()
	page.TextSetFont(regular, 9)
	page.TextFirstLine(pageMargin, y-12)
	page.TextShow("Applicant signature")
	page.TextEnd()

	if err := page.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFillFailed, err)
	}
	return buf.Bytes(), nil
}

func decodeSignature(dataURL string) (stdimage.Image, error) {
	encoded, ok := strings.CutPrefix(dataURL, signaturePrefix)
	if !ok {
		return nil, fmt.Errorf("%w: signature is not a PNG data URL", types.ErrFillFailed)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode signature: %v", types.ErrFillFailed, err)
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode signature image: %v", types.ErrFillFailed, err)
	}
	return img, nil
}
