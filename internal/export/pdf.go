package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/resh-o/agora/internal/core"
)

// PDFExporter exports debates to PDF format.
type PDFExporter struct{}

// Export writes the debate as PDF.
func (e *PDFExporter) Export(session *core.DebateSession, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, e.sanitizeText(session.Topic), "", "C", false)
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Debate Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	id := session.ID
	if len(id) > 8 {
		id = id[:8] + "..."
	}
	e.addMetadataRow(pdf, "ID:", id)
	e.addMetadataRow(pdf, "Status:", string(session.Status))
	e.addMetadataRow(pdf, "Created:", session.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	if session.StartedAt != nil && session.CompletedAt != nil {
		e.addMetadataRow(pdf, "Completed:", session.CompletedAt.Format("January 2, 2006 at 3:04 PM"))
		e.addMetadataRow(pdf, "Duration:", formatDuration(*session.StartedAt, *session.CompletedAt))
	}
	pdf.Ln(5)

	// Participants section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Participants")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for i, p := range session.Participants {
		r, g, b := participantColor(i)
		e.addParticipantBox(pdf, p, r, g, b)
		pdf.Ln(3)
	}
	pdf.Ln(5)

	// Transcript
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Transcript")
	pdf.Ln(8)

	if len(session.Messages) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No messages recorded.")
		pdf.Ln(6)
	} else {
		index := speakerIndex(session)
		for _, msg := range session.Messages {
			if pdf.GetY() > 250 {
				pdf.AddPage()
			}

			label := speakerLabel(msg)
			r, g, b := 230, 230, 230
			if msg.Type == core.MessagePhilosopher {
				r, g, b = participantColor(index[label])
			}
			pdf.SetFillColor(r, g, b)

			pdf.SetFont("Arial", "B", 10)
			header := fmt.Sprintf("%s (%s)", label, msg.Timestamp.Format("3:04 PM"))
			pdf.CellFormat(0, 7, header, "", 1, "", true, 0, "")

			pdf.SetFont("Arial", "", 9)
			pdf.SetFillColor(255, 255, 255)
			pdf.MultiCell(0, 5, e.sanitizeText(msg.Content), "", "", false)
			pdf.Ln(5)
		}
	}

	// Footer
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 10, "Exported from agora", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}

// Helper to add a metadata row
func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 5, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, value)
	pdf.Ln(5)
}

// Helper to add a participant box
func (e *PDFExporter) addParticipantBox(pdf *gofpdf.Fpdf, p core.DebateParticipant, r, g, b int) {
	pdf.SetFillColor(r, g, b)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, p.Name, "", 1, "", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(255, 255, 255)
	if p.Position != "" {
		pdf.Cell(30, 5, "Position:")
		pdf.MultiCell(0, 5, e.sanitizeText(p.Position), "", "", false)
	}
	pdf.Cell(30, 5, "Contributions:")
	pdf.Cell(0, 5, fmt.Sprintf("%d", p.TurnCount))
	pdf.Ln(5)
}

// participantColor cycles through a small palette of light fill colors.
func participantColor(i int) (r, g, b int) {
	palette := [][3]int{
		{200, 230, 255}, // Light blue
		{200, 255, 200}, // Light green
		{255, 230, 200}, // Light orange
		{240, 215, 255}, // Light purple
		{255, 215, 215}, // Light red
	}
	c := palette[i%len(palette)]
	return c[0], c[1], c[2]
}

// speakerIndex maps participant names to their position in speaking order.
func speakerIndex(session *core.DebateSession) map[string]int {
	index := make(map[string]int)
	for i, p := range session.Participants {
		index[p.Name] = i
	}
	return index
}

// Sanitize text for PDF (remove problematic characters)
func (e *PDFExporter) sanitizeText(text string) string {
	// gofpdf uses Windows-1252 encoding by default
	// Replace common Unicode characters that might cause issues
	replacer := strings.NewReplacer(
		"‘", "'", // Left single quote
		"’", "'", // Right single quote
		"“", "\"", // Left double quote
		"”", "\"", // Right double quote
		"–", "-", // En dash
		"—", "--", // Em dash
		"…", "...", // Ellipsis
		"•", "*", // Bullet
		" ", " ", // Non-breaking space
	)
	return replacer.Replace(text)
}
