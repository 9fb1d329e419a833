package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
)

var (
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8")).Bold(true)
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A3A3A3")).Bold(true)
	assetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	speakStyle  = lipgloss.NewStyle().Italic(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func kindStyle(kind domain.SourceKind) lipgloss.Style {
	switch kind {
	case domain.SourceUser:
		return userStyle
	case domain.SourceAsset:
		return assetStyle
	case domain.SourceError:
		return errorStyle
	default:
		return systemStyle
	}
}

// Renderer turns server messages into terminal lines.
type Renderer struct {
	// Verbose includes highlight and focus signals.
	Verbose bool
}

// Render formats one raw message. ok is false for messages that print nothing.
func (r Renderer) Render(data []byte) (line string, ok bool) {
	var base protocol.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return "", false
	}

	switch base.Type {
	case protocol.TypeLog:
		var m protocol.LogMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		source := m.Name
		if source == "" {
			source = string(m.Kind)
		}
		return kindStyle(m.Kind).Render(source) + " " + m.Text, true

	case protocol.TypeStatus:
		var m protocol.StatusMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		return statusStyle.Render("STATUS: " + strings.ToUpper(m.Text)), true

	case protocol.TypeSelection:
		var m protocol.SelectionMessage
		if json.Unmarshal(data, &m) != nil || m.Text == "" {
			return "", false
		}
		return dimStyle.Render("» " + m.Text), true

	case protocol.TypeSpeak:
		var m protocol.SpeakMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		return speakStyle.Render("(speak) " + m.Text), true

	case protocol.TypeAssetMoved:
		var m protocol.AssetMovedMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		loc := m.Asset.Location
		return dimStyle.Render(fmt.Sprintf("%s now at %s (%.5f, %.5f)", m.Asset.Name, loc.Grid, loc.Lat, loc.Lon)), true

	case protocol.TypeOutcome:
		var m protocol.OutcomeMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		line := "outcome: " + string(m.Outcome)
		if len(m.Targets) > 0 {
			line += " -> " + strings.Join(m.Targets, ", ")
		}
		return dimStyle.Render(line), true

	case protocol.TypeError:
		var m protocol.ErrorMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		return errorStyle.Render(fmt.Sprintf("error [%s]: %s", m.Code, m.Message)), true

	case protocol.TypeHighlight:
		if !r.Verbose {
			return "", false
		}
		var m protocol.HighlightMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		state := "off"
		if m.Active {
			state = "on"
		}
		return dimStyle.Render(fmt.Sprintf("highlight %s (%s) %s", m.AssetID, m.Group, state)), true

	case protocol.TypeFocus:
		if !r.Verbose {
			return "", false
		}
		var m protocol.FocusMessage
		if json.Unmarshal(data, &m) != nil {
			return "", false
		}
		return dimStyle.Render("focus " + m.AssetID), true
	}
	return "", false
}

// RenderWelcome lists the fleet and the recognized commands.
func RenderWelcome(ack *protocol.HelloAckMessage) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Assets"))
	b.WriteString("\n")
	for _, a := range ack.Assets {
		fmt.Fprintf(&b, "  %-16s %-8s %s\n", a.Name, a.Type, a.Location.Grid)
	}
	b.WriteString(headerStyle.Render("Commands"))
	b.WriteString("\n")
	for _, i := range ack.Intents {
		fmt.Fprintf(&b, "  %-14s %s\n", i.Keyword, dimStyle.Render(i.Example))
	}
	return b.String()
}
