package frontend

import (
	"fmt"
	"strings"

	"github.com/viswa-prakash/estatebot/internal/agent"
	"github.com/viswa-prakash/estatebot/internal/tool"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

type Renderer struct {
	headingStyle lipgloss.Style
	answerStyle  lipgloss.Style
	noteStyle    lipgloss.Style
	headerStyle  lipgloss.Style
	cellStyle    lipgloss.Style
	oddRowStyle  lipgloss.Style
	evenRowStyle lipgloss.Style
	borderStyle  lipgloss.Style
}

func NewRenderer() *Renderer {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")
	amber := lipgloss.Color("214")

	return &Renderer{
		headingStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			MarginBottom(1),
		answerStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1),
		noteStyle: lipgloss.NewStyle().
			Foreground(amber).
			Italic(true),
		headerStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1),
		cellStyle: lipgloss.NewStyle().
			Padding(0, 1),
		oddRowStyle: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
		evenRowStyle: lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(purple),
	}
}

// RenderAnswer formats an answer for the terminal.
func (r *Renderer) RenderAnswer(a Answer) string {
	var sb strings.Builder
	sb.WriteString(r.headingStyle.Render(Heading))
	sb.WriteString("\n")
	sb.WriteString(r.answerStyle.Render(strings.TrimSpace(a.Text)))
	if note := outcomeNote(a); note != "" {
		sb.WriteString("\n")
		sb.WriteString(r.noteStyle.Render(note))
	}
	sb.WriteString("\n")
	return sb.String()
}

// PlainAnswer is the unstyled form used for pipes and HTTP responses.
func PlainAnswer(a Answer) string {
	text := Heading + "\n\n" + strings.TrimSpace(a.Text)
	if note := outcomeNote(a); note != "" {
		text += "\n\n" + note
	}
	return text + "\n"
}

func outcomeNote(a Answer) string {
	switch a.Outcome {
	case agent.OutcomeTruncated:
		return fmt.Sprintf("(stopped after %d reasoning steps without a final answer)", a.Turns)
	case agent.OutcomeNoOp:
		if a.Fallback {
			return "(the agent ended without a final answer)"
		}
	}
	return ""
}

// RenderTools lists the tool catalog as a table.
func (r *Renderer) RenderTools(descriptors []tool.ToolDescriptor) string {
	if len(descriptors) == 0 {
		return "No tools registered"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.headerStyle
			case col == 0:
				return r.cellStyle
			case row%2 == 0:
				return r.evenRowStyle
			default:
				return r.oddRowStyle
			}
		}).
		Headers("Name", "Risk", "Capabilities", "Description")

	for _, d := range descriptors {
		t.Row(
			d.Definition.Name,
			string(d.Metadata.Risk),
			strings.Join(d.Metadata.Capabilities, ", "),
			truncateString(d.Definition.Description, 60),
		)
	}

	return t.String()
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
