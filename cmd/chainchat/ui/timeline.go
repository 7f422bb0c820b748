package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"chainchat/internal/chains"
	"chainchat/internal/chat"
)

// StateBadge renders an action lifecycle state as a colored badge.
func StateBadge(s Styles, state chat.ActionState) string {
	style := s.Badge
	switch state {
	case chat.StateReviewing:
		style = style.Background(Warning).Foreground(lipgloss.Color("#000000"))
	case chat.StateConfirmed, chat.StateProcessed:
		style = style.Background(Success)
	case chat.StateRejected:
		style = style.Background(Destructive)
	case chat.StatePending, chat.StateGenerating, chat.StatePaused:
		style = style.Background(s.Theme.Muted)
	}
	return style.Render(strings.ToUpper(state.String()))
}

// RenderUserMessage renders one user chat turn.
func RenderUserMessage(s Styles, m chat.Message) string {
	var sb strings.Builder
	label := s.Bold.Foreground(s.Theme.Primary).MarginTop(1)
	sb.WriteString(label.Render("You") + " " + s.Muted.Render(m.CreatedAt.Local().Format("15:04")) + "\n")
	sb.WriteString(s.UserInput.Render(m.Content))
	sb.WriteString("\n")
	return sb.String()
}

// RenderAction renders one agent action as a card: the agent's response text,
// the proposed transaction, the state badge, and the result when present.
// renderMarkdown formats the agent's response text; plain text passes through
// when it is nil.
func RenderAction(s Styles, a chat.Action, agentName string, chainID int, renderMarkdown func(string) string) string {
	var sb strings.Builder

	label := s.Bold.Foreground(s.Theme.Accent).MarginTop(1)
	header := label.Render(agentName) + " " + StateBadge(s, a.State)
	if a.Skill != "" {
		header += " " + s.Muted.Render(a.Skill)
	}
	sb.WriteString(header + "\n")

	if resp := a.Response(); resp != "" {
		rendered := resp
		if renderMarkdown != nil {
			rendered = renderMarkdown(resp)
		}
		sb.WriteString(s.AgentResponse.Render(rendered))
		sb.WriteString("\n")
	} else if a.State == chat.StateGenerating || a.State == chat.StatePending {
		sb.WriteString(s.Muted.Render("…working on it") + "\n")
	}

	if a.Task != nil && a.Task.Tx.MethodSignature != "" {
		sb.WriteString(s.Card.Render(renderTxSummary(s, a.Task)))
		sb.WriteString("\n")
	}

	if result := renderResult(s, a, chainID); result != "" {
		sb.WriteString(result)
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderTxSummary(s Styles, t *chat.Task) string {
	var sb strings.Builder
	kind := "transaction"
	if t.IsCall {
		kind = "read call"
	}
	sb.WriteString(s.Muted.Render("proposed "+kind) + "\n")
	sb.WriteString(s.Bold.Render(t.Tx.ContractName) + s.Muted.Render(" @ "+shortAddress(t.Tx.Address)) + "\n")
	sb.WriteString(s.Body.Render(t.Tx.MethodSignature))
	if len(t.Tx.Arguments) > 0 {
		args, err := json.Marshal(t.Tx.Arguments)
		if err == nil {
			sb.WriteString("\n" + s.Muted.Render("args: "+string(args)))
		}
	}
	return sb.String()
}

func renderResult(s Styles, a chat.Action, chainID int) string {
	if out, ok := a.CallOutput(); ok {
		return s.Success.Render("→ ") + s.Body.Render(formatCallOutput(out))
	}
	if r, ok := a.TxReceipt(); ok && r.TxHash != "" {
		line := s.Success.Render("✓ tx ") + s.Body.Render(shortHash(r.TxHash))
		if url := chains.TxURL(chainID, r.TxHash); url != "" {
			line += " " + s.Muted.Render(url)
		}
		return line
	}
	return ""
}

// formatCallOutput renders a raw call result compactly: bare JSON strings are
// unquoted, everything else stays as-is.
func formatCallOutput(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:10] + "…"
}

// RenderAgentStates renders the per-agent status line shown under the header.
func RenderAgentStates(s Styles, states map[string]string, nameOf func(string) string) string {
	if len(states) == 0 {
		return ""
	}
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %s", nameOf(id), states[id]))
	}
	return s.Subtitle.Render(strings.Join(parts, " · "))
}

// FormatTimestamp renders a timeline timestamp for display.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format("15:04:05")
}
