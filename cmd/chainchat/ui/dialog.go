package ui

import (
	"strings"

	"chainchat/internal/chat"
)

// ConfirmDialog is the render input for the action review dialog.
type ConfirmDialog struct {
	Action    chat.Action
	AgentName string
	// Editor is the textarea view when the payload is being edited, empty
	// otherwise.
	Editor string
	// InFlight disables the confirm/reject hints while a decision is
	// outstanding.
	InFlight bool
	Width    int
}

// RenderConfirmDialog renders the review dialog for an action awaiting
// confirmation.
func RenderConfirmDialog(s Styles, d ConfirmDialog) string {
	var sb strings.Builder

	sb.WriteString(s.Title.Render("Review action") + " " + StateBadge(s, d.Action.State) + "\n")
	sb.WriteString(s.Muted.Render("proposed by "+d.AgentName) + "\n\n")

	if d.Editor != "" {
		sb.WriteString(d.Editor)
		sb.WriteString("\n\n")
		sb.WriteString(s.Muted.Render("Esc: done editing"))
	} else {
		if d.Action.Task != nil {
			sb.WriteString(renderTxSummary(s, d.Action.Task))
			sb.WriteString("\n\n")
		}
		if d.InFlight {
			sb.WriteString(s.Warning.Render("submitting…"))
		} else {
			sb.WriteString(s.Success.Render("y") + s.Muted.Render(": confirm  ") +
				s.Error.Render("n") + s.Muted.Render(": reject  ") +
				s.Info.Render("e") + s.Muted.Render(": edit payload  ") +
				s.Muted.Render("esc: dismiss"))
		}
	}

	dialog := s.Dialog
	if d.Width > 0 {
		dialog = dialog.Width(d.Width)
	}
	return dialog.Render(sb.String())
}
