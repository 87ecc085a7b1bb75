package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/resh-o/agora/internal/core"
)

// MarkdownExporter exports debates to Markdown format.
type MarkdownExporter struct{}

// Export writes the debate as Markdown.
func (e *MarkdownExporter) Export(session *core.DebateSession, w io.Writer) error {
	var sb strings.Builder

	// Title
	sb.WriteString(fmt.Sprintf("# %s\n\n", session.Topic))
	if session.Description != "" {
		sb.WriteString(session.Description + "\n\n")
	}

	// Metadata
	sb.WriteString("## Debate Information\n\n")
	sb.WriteString(fmt.Sprintf("- **ID:** `%s`\n", session.ID))
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n", session.Status))
	sb.WriteString(fmt.Sprintf("- **Created:** %s\n", session.CreatedAt.Format("January 2, 2006 at 3:04 PM")))
	if session.StartedAt != nil && session.CompletedAt != nil {
		sb.WriteString(fmt.Sprintf("- **Completed:** %s\n", session.CompletedAt.Format("January 2, 2006 at 3:04 PM")))
		sb.WriteString(fmt.Sprintf("- **Duration:** %s\n", formatDuration(*session.StartedAt, *session.CompletedAt)))
	}
	sb.WriteString("\n")

	// Participants
	sb.WriteString("## Participants\n\n")
	for _, p := range session.Participants {
		sb.WriteString(fmt.Sprintf("### %s\n", p.Name))
		if p.Position != "" {
			sb.WriteString(fmt.Sprintf("- **Position:** %s\n", p.Position))
		}
		sb.WriteString(fmt.Sprintf("- **Contributions:** %d\n", p.TurnCount))
		sb.WriteString("\n")
	}

	// Transcript
	sb.WriteString("## Transcript\n\n")

	if len(session.Messages) == 0 {
		sb.WriteString("*No messages recorded.*\n\n")
	} else {
		for _, msg := range session.Messages {
			sb.WriteString(fmt.Sprintf("#### %s\n\n", speakerLabel(msg)))
			sb.WriteString(fmt.Sprintf("*%s*\n\n", msg.Timestamp.Format("3:04 PM")))
			sb.WriteString(msg.Content)
			sb.WriteString("\n\n---\n\n")
		}
	}

	// Footer
	sb.WriteString("---\n\n")
	sb.WriteString("*Exported from agora*\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}
