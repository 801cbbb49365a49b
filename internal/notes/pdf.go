package notes

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 20.0
	watermarkText = "Learning Tracker"
)

var numberedItem = regexp.MustCompile(`^\d+\.\s`)

// RenderPDF renders markdown-formatted notes into a PDF document with a
// title page header and a diagonal watermark on every page. The
// markdown support is deliberately the subset the notes generator
// emits: #/##/### headings, whole-line bold, bullets, numbered items.
func RenderPDF(notesText, videoTitle, videoID string, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 25)

	// Watermark runs as the header so every page gets one, including
	// pages created by automatic breaks.
	pdf.SetHeaderFunc(func() {
		w, h := pdf.GetPageSize()
		pdf.SetFont("Helvetica", "B", 60)
		pdf.SetTextColor(230, 230, 230)
		pdf.TransformBegin()
		pdf.TransformRotate(45, w/2, h/2)
		tw := pdf.GetStringWidth(watermarkText)
		pdf.Text(w/2-tw/2, h/2, watermarkText)
		pdf.TransformEnd()
		pdf.SetTextColor(0, 0, 0)
	})

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	// Title block.
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(pdfMargin, 30)
	pdf.MultiCell(0, 10, "Study Notes", "", "L", false)

	if videoTitle != "" {
		pdf.SetFont("Helvetica", "", 16)
		pdf.SetXY(pdfMargin, 50)
		pdf.MultiCell(0, 8, tr(videoTitle), "", "L", false)
	}

	if videoID == "" {
		videoID = "N/A"
	}
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(pdfMargin, 80)
	pdf.MultiCell(0, 6, "Generated on: "+now.Format("2006-01-02"), "", "L", false)
	pdf.SetX(pdfMargin)
	pdf.MultiCell(0, 6, "Video ID: "+videoID, "", "L", false)

	pdf.SetY(110)
	writeMarkdown(pdf, tr, notesText)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMarkdown(pdf *fpdf.Fpdf, tr func(string) string, content string) {
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			pdf.Ln(3)
			continue
		}
		pdf.SetX(pdfMargin)

		switch {
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Helvetica", "B", 18)
			pdf.MultiCell(0, 9, tr(strings.TrimPrefix(line, "# ")), "", "L", false)
			pdf.Ln(3)
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 7, tr(strings.TrimPrefix(line, "## ")), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "### "):
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, tr(strings.TrimPrefix(line, "### ")), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4:
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(strings.Trim(line, "*")), "", "L", false)
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetX(pdfMargin + 5)
			pdf.MultiCell(0, 5, tr("• "+line[2:]), "", "L", false)
		case numberedItem.MatchString(line):
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetX(pdfMargin + 5)
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}
}

var filenameStrip = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
var filenameSpaces = regexp.MustCompile(`\s+`)

// Filename builds the download name: the sanitized video title (or
// "study_notes") plus the date.
func Filename(videoTitle string, now time.Time) string {
	name := "study_notes"
	if videoTitle != "" {
		s := filenameStrip.ReplaceAllString(videoTitle, "")
		s = filenameSpaces.ReplaceAllString(strings.TrimSpace(s), "_")
		if len(s) > 50 {
			s = s[:50]
		}
		if s != "" {
			name = s
		}
	}
	return name + "_" + now.Format("2006-01-02") + ".pdf"
}
