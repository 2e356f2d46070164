package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	ContentTypePNG  = "image/png"
	ContentTypeHTML = "text/html; charset=utf-8"

	pngWidth  = 800
	pngHeight = 620
	margin    = 40
)

// Data is everything printed on a donation receipt.
type Data struct {
	TempleName       string
	TempleAddress    string
	InvoiceNumber    string
	TransactionID    string
	GatewayPaymentID string
	DonorName        string
	Email            string
	Phone            string
	Address          string
	PanCard          string
	Purpose          string
	Amount           int64
	PaidAt           time.Time
}

// AmountText renders the amount in rupees with two decimals.
func (d *Data) AmountText() string {
	return "Rs. " + decimal.NewFromInt(d.Amount).StringFixed(2)
}

func (d *Data) DateText() string {
	return d.PaidAt.Format("02 Jan 2006")
}

type Renderer struct {
	html    *template.Template
	regular *truetype.Font
	bold    *truetype.Font
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("receipt").Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}
	regular, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := freetype.ParseFont(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	return &Renderer{html: tmpl, regular: regular, bold: bold}, nil
}

func (r *Renderer) HTML(data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.html.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) PNG(data *Data) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, pngWidth, pngHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 253, 245, 255}), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, pngWidth, 8), image.NewUniform(accentColor), image.Point{}, draw.Src)

	y := margin + 10
	y = r.drawText(img, r.bold, 26, accentColor, data.TempleName, y)
	if data.TempleAddress != "" {
		y = r.drawText(img, r.regular, 14, mutedColor, data.TempleAddress, y)
	}
	y += 10
	y = r.drawText(img, r.bold, 20, textColor, "Donation Receipt", y)
	y += 10

	for _, row := range rows(data) {
		y = r.drawRow(img, row[0], row[1], y)
	}

	y += 16
	r.drawText(img, r.bold, 22, accentColor, "Amount received: "+data.AmountText(), y)
	r.drawText(img, r.regular, 12, mutedColor, "This is a computer generated receipt.", pngHeight-margin)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode receipt image: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	accentColor = color.RGBA{150, 60, 20, 255}
	textColor   = color.RGBA{40, 40, 40, 255}
	mutedColor  = color.RGBA{110, 110, 110, 255}
)

func rows(data *Data) [][2]string {
	out := [][2]string{
		{"Receipt No", data.InvoiceNumber},
		{"Date", data.DateText()},
		{"Transaction ID", data.TransactionID},
	}
	if data.GatewayPaymentID != "" {
		out = append(out, [2]string{"Gateway Ref", data.GatewayPaymentID})
	}
	out = append(out,
		[2]string{"Donor", data.DonorName},
		[2]string{"Email", data.Email},
		[2]string{"Phone", data.Phone},
	)
	if data.PanCard != "" {
		out = append(out, [2]string{"PAN", data.PanCard})
	}
	if data.Address != "" {
		out = append(out, [2]string{"Address", data.Address})
	}
	return append(out, [2]string{"Towards", data.Purpose})
}

func (r *Renderer) drawRow(img *image.RGBA, label, value string, y int) int {
	r.drawTextAt(img, r.bold, 15, mutedColor, label, margin, y)
	lines := wrap(r.face(r.regular, 15), value, pngWidth-margin-220)
	for _, line := range lines {
		r.drawTextAt(img, r.regular, 15, textColor, line, margin+200, y)
		y += 24
	}
	if len(lines) == 0 {
		y += 24
	}
	return y
}

func (r *Renderer) drawText(img *image.RGBA, f *truetype.Font, size float64, c color.RGBA, text string, y int) int {
	for _, line := range wrap(r.face(f, size), text, pngWidth-2*margin) {
		r.drawTextAt(img, f, size, c, line, margin, y)
		y += int(size * 1.4)
	}
	return y
}

func (r *Renderer) drawTextAt(img *image.RGBA, f *truetype.Font, size float64, c color.RGBA, text string, x, y int) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face(f, size),
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + int(size))},
	}
	drawer.DrawString(text)
}

func (r *Renderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// wrap breaks text into lines no wider than maxWidth pixels.
func wrap(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	lines := make([]string, 0, 1)
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8" />
	<title>Donation Receipt {{.InvoiceNumber}}</title>
</head>
<body style="margin: 0; padding: 24px; font-family: Arial, sans-serif; background-color: #fffdf5; color: #282828;">
	<table align="center" border="0" cellpadding="0" cellspacing="0" width="640" style="border-collapse: collapse; border-top: 8px solid #963c14; background-color: #ffffff;">
		<tr>
			<td style="padding: 24px 32px;">
				<h1 style="margin: 0; color: #963c14; font-size: 26px;">{{.TempleName}}</h1>
				{{if .TempleAddress}}<p style="margin: 4px 0 0; color: #6e6e6e; font-size: 14px;">{{.TempleAddress}}</p>{{end}}
				<h2 style="margin: 24px 0 16px; font-size: 20px;">Donation Receipt</h2>
				<table border="0" cellpadding="6" cellspacing="0" width="100%" style="border-collapse: collapse; font-size: 15px;">
					<tr><td style="color: #6e6e6e; width: 180px;">Receipt No</td><td>{{.InvoiceNumber}}</td></tr>
					<tr><td style="color: #6e6e6e;">Date</td><td>{{.DateText}}</td></tr>
					<tr><td style="color: #6e6e6e;">Transaction ID</td><td>{{.TransactionID}}</td></tr>
					{{if .GatewayPaymentID}}<tr><td style="color: #6e6e6e;">Gateway Ref</td><td>{{.GatewayPaymentID}}</td></tr>{{end}}
					<tr><td style="color: #6e6e6e;">Donor</td><td>{{.DonorName}}</td></tr>
					<tr><td style="color: #6e6e6e;">Email</td><td>{{.Email}}</td></tr>
					<tr><td style="color: #6e6e6e;">Phone</td><td>{{.Phone}}</td></tr>
					{{if .PanCard}}<tr><td style="color: #6e6e6e;">PAN</td><td>{{.PanCard}}</td></tr>{{end}}
					{{if .Address}}<tr><td style="color: #6e6e6e;">Address</td><td>{{.Address}}</td></tr>{{end}}
					<tr><td style="color: #6e6e6e;">Towards</td><td>{{.Purpose}}</td></tr>
				</table>
				<p style="margin: 24px 0 0; font-size: 22px; font-weight: bold; color: #963c14;">Amount received: {{.AmountText}}</p>
				<p style="margin: 24px 0 0; font-size: 12px; color: #6e6e6e;">This is a computer generated receipt.</p>
			</td>
		</tr>
	</table>
</body>
</html>
`
