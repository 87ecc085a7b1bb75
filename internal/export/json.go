package export

import (
	"encoding/json"
	"io"

	"github.com/resh-o/agora/internal/core"
)

// JSONExporter exports debates to JSON format.
type JSONExporter struct{}

// ExportData represents the full export structure.
type ExportData struct {
	Debate  *core.DebateSession `json:"debate"`
	Summary core.DebateSummary  `json:"summary"`
}

// Export writes the debate as JSON.
func (e *JSONExporter) Export(session *core.DebateSession, w io.Writer) error {
	data := ExportData{
		Debate:  session,
		Summary: session.Summary(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return "json"
}
