package main

import "github.com/charmbracelet/lipgloss"

type colors struct {
	text, textMuted, border, selection lipgloss.AdaptiveColor
	primary, accent, warn, danger      lipgloss.AdaptiveColor
}

var palette = colors{
	text:      lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#E6EDF3"},
	textMuted: lipgloss.AdaptiveColor{Light: "#656D76", Dark: "#8B949E"},
	border:    lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#30363D"},
	selection: lipgloss.AdaptiveColor{Light: "#DDF4FF", Dark: "#1F3B5C"},
	primary:   lipgloss.AdaptiveColor{Light: "#3F51B5", Dark: "#8C9EFF"},
	accent:    lipgloss.AdaptiveColor{Light: "#C2185B", Dark: "#FF80AB"},
	warn:      lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"},
	danger:    lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF8A80"},
}

// roleColor maps a presentation color role onto the palette. The empty role
// renders in the default text color.
func roleColor(role string) lipgloss.TerminalColor {
	switch role {
	case "primary":
		return palette.primary
	case "accent":
		return palette.accent
	case "warn":
		return palette.warn
	default:
		return palette.text
	}
}

type styles struct {
	app, topBar, topCounts              lipgloss.Style
	filterBar, filterActive, filterIdle lipgloss.Style
	columnTitle                         lipgloss.Style
	panel, panelFocused                 lipgloss.Style
	statusBar, statusSeg                lipgloss.Style
	listItem, listSel                   lipgloss.Style
	notice, errorText                   lipgloss.Style
	detailLabel                         lipgloss.Style
	modal, modalTitle, modalHint        lipgloss.Style
	errorModal                          lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Copy().Bold(true).Padding(0, 1),
		topCounts:    base.Copy().Foreground(palette.textMuted),
		filterBar:    base.Padding(0, 1),
		filterActive: base.Copy().Bold(true).Foreground(palette.text).Background(palette.selection).Padding(0, 1),
		filterIdle:   base.Copy().Foreground(palette.textMuted).Padding(0, 1),
		columnTitle:  base.Copy().Bold(true).Padding(0, 1),
		panel:        base.BorderStyle(panelBorder).BorderForeground(palette.border),
		panelFocused: base.BorderStyle(focusedBorder).BorderForeground(palette.primary),
		statusBar:    base.Padding(0, 1),
		statusSeg:    base.Padding(0, 1).MarginRight(1),
		listItem:     base.Padding(0, 1),
		listSel:      base.Padding(0, 1).Bold(true),
		notice:       base.Copy().Foreground(palette.textMuted).Padding(1, 2),
		errorText:    base.Copy().Foreground(palette.danger).Padding(1, 2),
		detailLabel:  base.Copy().Foreground(palette.textMuted),
		modal:        base.Border(lipgloss.RoundedBorder()).BorderForeground(palette.primary).Padding(1, 2),
		modalTitle:   base.Copy().Bold(true),
		modalHint:    base.Copy().Faint(true),
		errorModal:   base.Border(lipgloss.ThickBorder()).BorderForeground(palette.danger).Padding(1, 2),
	}
}
