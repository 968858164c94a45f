// Package report renders the client risk assessment report as PDF
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// Data is everything a report shows
type Data struct {
	Client      *model.Client
	Current     model.RiskAssessment // the client re-evaluated against the current config
	Status      types.ReviewStatus
	Documents   []*model.Document
	GeneratedAt time.Time
}

// FileName returns the attachment name of the report
func (d *Data) FileName() string {
	name := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "\"", "").
		Replace(d.Client.FirstName + "_" + d.Client.LastName)
	return fmt.Sprintf("KYC_Report_%s.pdf", name)
}

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{0x1e, 0x40, 0xaf}
	colorDanger  = rgb{0xdc, 0x26, 0x26}
	colorWarning = rgb{0xca, 0x8a, 0x04}
	colorSuccess = rgb{0x16, 0xa3, 0x4a}
	colorGray    = rgb{0x64, 0x74, 0x8b}
	colorText    = rgb{0x1e, 0x29, 0x3b}
	colorBoxFill = rgb{0xf8, 0xfa, 0xfc}
	colorBoxLine = rgb{0xe2, 0xe8, 0xf0}
	colorWhite   = rgb{0xff, 0xff, 0xff}
)

func bandColor(band types.RiskBand) rgb {
	switch band {
	case types.RiskBandRed:
		return colorDanger
	case types.RiskBandYellow:
		return colorWarning
	default:
		return colorSuccess
	}
}

func statusColor(status types.ReviewStatus) rgb {
	switch status {
	case types.ReviewStatusOverdue:
		return colorDanger
	case types.ReviewStatusDueSoon:
		return colorWarning
	default:
		return colorSuccess
	}
}

// Renderer writes reports. The zero value is not usable; call New.
type Renderer struct {
	compress bool
}

type Option func(*Renderer)

// WithCompression toggles stream compression (on by default)
func WithCompression(enabled bool) Option {
	return func(r *Renderer) {
		r.compress = enabled
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const (
	marginX = 15.0
	pageW   = 210.0
)

// Render writes the PDF report of data to w
func (r *Renderer) Render(w io.Writer, data *Data) error {
	if data == nil || data.Client == nil {
		return goerr.New("report data has no client")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(data.GeneratedAt)
	pdf.SetModificationDate(data.GeneratedAt)
	pdf.SetTitle("KYC Risk Assessment Report", true)
	pdf.SetCreator("KYClytics", true)
	pdf.SetAutoPageBreak(true, 20)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	c := data.Client

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		setText(pdf, colorGray)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 4, "This report is generated by KYClytics for compliance purposes only.", "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("© %d KYClytics. All rights reserved.", data.GeneratedAt.Year())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// banner
	setFill(pdf, colorPrimary)
	pdf.Rect(0, 0, pageW, 40, "F")
	setText(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(marginX, 18, "KYClytics")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginX, 27, "Know Your Customer Compliance Platform")
	reportID := strings.ToUpper(c.ID.String())
	if len(reportID) > 8 {
		reportID = reportID[:8]
	}
	pdf.Text(pageW-75, 18, "Report ID: "+reportID)
	pdf.Text(pageW-75, 24, "Generated: "+data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))

	// title
	pdf.SetXY(marginX, 48)
	setText(pdf, colorPrimary)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "KYC Risk Assessment Report", "", 1, "L", false, 0, "")
	setDraw(pdf, colorPrimary)
	pdf.SetLineWidth(0.6)
	pdf.Line(marginX, 60, pageW-marginX, 60)

	// score boxes
	boxY := 66.0
	boxW := (pageW - 2*marginX - 10) / 3
	summaryBox(pdf, marginX, boxY, boxW, "RISK SCORE", fmt.Sprintf("%d", c.Score), bandColor(c.Band), 22)
	summaryBox(pdf, marginX+boxW+5, boxY, boxW, "RISK BAND", c.Band.String(), bandColor(c.Band), 16)
	summaryBox(pdf, marginX+2*(boxW+5), boxY, boxW, "NEXT REVIEW", c.NextReview.Format("2006-01-02"), colorText, 13)

	pdf.SetY(boxY + 30)

	// client information
	sectionHeader(pdf, "CLIENT INFORMATION")
	pep := "No"
	pepColor := colorSuccess
	if c.PEP {
		pep = "Yes - Politically Exposed Person"
		pepColor = colorDanger
	}
	fieldRow(pdf, tr,
		field{"Full Name", c.FullName(), colorText},
		field{"Date of Birth", c.DOB, colorText})
	fieldRow(pdf, tr,
		field{"Address", c.Address + ", " + c.PostalCode, colorText},
		field{"Country", c.Country, colorText})
	fieldRow(pdf, tr,
		field{"Occupation", c.Job, colorText},
		field{"Industry", c.Industry, colorText})
	fieldRow(pdf, tr,
		field{"PEP Status", pep, pepColor},
		field{"Review Status", strings.ReplaceAll(data.Status.String(), "_", " "), statusColor(data.Status)})

	// risk factors
	sectionHeader(pdf, "RISK FACTORS")
	pdf.SetFont("Helvetica", "", 11)
	if len(data.Current.Factors) == 0 {
		setText(pdf, colorSuccess)
		pdf.CellFormat(0, 7, "No significant risk factors identified.", "", 1, "L", false, 0, "")
	} else {
		setText(pdf, colorDanger)
		for _, f := range data.Current.Factors {
			pdf.MultiCell(0, 6, tr("- "+f), "", "L", false)
		}
	}
	if data.Current.Score != c.Score || data.Current.Band != c.Band {
		pdf.Ln(2)
		setText(pdf, colorGray)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, fmt.Sprintf(
			"Under the current risk configuration this client would score %d (%s). Rescore the client to update the stored assessment.",
			data.Current.Score, data.Current.Band), "", "L", false)
	}
	pdf.Ln(4)

	// documents
	sectionHeader(pdf, "ATTACHED DOCUMENTS")
	if len(data.Documents) == 0 {
		setText(pdf, colorGray)
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, "No documents have been attached to this client profile.", "", 1, "L", false, 0, "")
	} else {
		for i, d := range data.Documents {
			setText(pdf, colorText)
			pdf.SetFont("Helvetica", "", 11)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d. %s", i+1, d.Name)), "", 1, "L", false, 0, "")
			setText(pdf, colorGray)
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 5, fmt.Sprintf("    Size: %s | Uploaded: %s", d.SizeLabel(), d.UploadedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
			pdf.Ln(1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return goerr.Wrap(err, "failed to render PDF report", goerr.V("client_id", c.ID))
	}
	return nil
}

type field struct {
	label string
	value string
	color rgb
}

func fieldRow(pdf *fpdf.Fpdf, tr func(string) string, left, right field) {
	colW := (pageW - 2*marginX) / 2
	y := pdf.GetY()

	for i, f := range []field{left, right} {
		x := marginX + float64(i)*colW
		pdf.SetXY(x, y)
		setText(pdf, colorGray)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(colW, 5, f.label, "", 2, "L", false, 0, "")
		setText(pdf, f.color)
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(colW, 6, tr(f.value), "", 0, "L", false, 0, "")
	}
	pdf.SetXY(marginX, y+14)
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetX(marginX)
	setFill(pdf, colorPrimary)
	setText(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "  "+title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
}

func summaryBox(pdf *fpdf.Fpdf, x, y, w float64, label, value string, valueColor rgb, size float64) {
	setFill(pdf, colorBoxFill)
	setDraw(pdf, colorBoxLine)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, w, 24, "FD")

	pdf.SetXY(x, y+3)
	setText(pdf, colorGray)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(w, 5, label, "", 0, "C", false, 0, "")

	pdf.SetXY(x, y+10)
	setText(pdf, valueColor)
	pdf.SetFont("Helvetica", "B", size)
	pdf.CellFormat(w, 10, value, "", 0, "C", false, 0, "")
}

func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func setDraw(pdf *fpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }
