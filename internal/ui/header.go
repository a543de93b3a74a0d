package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stickerpicker/internal/catalog"
)

// renderMain renders the header, the sticker grid, and the footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the status bar: phase, counts, host binding.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface))
	compact := m.width < LayoutCompactWidth
	sep := bg.Render("  ")

	parts := []string{
		styles.Logo.Render("stickerpicker"),
		styles.PhaseStyle(m.snapshot.Phase.String()).Render(phaseLabel(m.snapshot)),
	}

	if m.snapshot.Phase == catalog.Loading {
		parts = append(parts, bg.Render(m.spinner.View()))
	}

	packCount := len(m.snapshot.Packs)
	stickerCount := m.snapshot.StickerCount()
	parts = append(parts, bg.Inherit(styles.MutedText).Render("Packs:")+bg.Render(" ")+
		bg.Inherit(styles.Text).Render(fmt.Sprintf("%d", packCount)))
	parts = append(parts, bg.Inherit(styles.MutedText).Render("Stickers:")+bg.Render(" ")+
		bg.Inherit(styles.Text).Render(fmt.Sprintf("%d", stickerCount)))

	if !compact {
		parts = append(parts, bg.Inherit(styles.MutedText).Render("Thumbs:")+bg.Render(" ")+
			bg.Inherit(styles.InfoText).Render(fmt.Sprintf("%d/%d", m.tracker.Loaded(), len(m.grid.cells))))
	}

	parts = append(parts, m.renderBinding(styles, bg, compact))

	if m.snapshot.Phase == catalog.Failed && m.snapshot.Error != "" {
		limit := 60
		if compact {
			limit = 24
		}
		parts = append(parts, bg.Inherit(styles.DangerText).Render("ERROR "+truncate(m.snapshot.Error, limit)))
	}

	return styles.Header.Width(m.width).Render(fitLine(strings.Join(parts, sep), m.width-2))
}

// fitLine cuts s to width cells so a bar never wraps.
func fitLine(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(max(1, width)).Render(s)
}

func (m Model) renderBinding(styles Styles, bg lipgloss.Style, compact bool) string {
	if m.sender == nil {
		return bg.Inherit(styles.FaintText).Render("no bridge")
	}
	widgetID, ok := m.sender.Binding()
	if !ok {
		label := "Host: waiting"
		if !compact && m.listen != "" {
			label += " on " + m.listen
		}
		return bg.Inherit(styles.WarningText).Render(label)
	}
	return bg.Inherit(styles.MutedText).Render("Host:") + bg.Render(" ") +
		bg.Inherit(styles.SuccessText).Render(truncate(widgetID, 24))
}

// renderCommandBar lists the most useful keys.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.WarningText.Render("<"+h.Key+">")+" "+styles.MutedText.Render(h.Desc))
	}
	return fitLine(" "+strings.Join(parts, "  "), m.width)
}

// renderContent renders the visible window of the grid, or a state message
// when there is nothing to show.
func (m Model) renderContent() string {
	h := m.contentHeight()
	if len(m.grid.cells) == 0 {
		return m.renderPlaceholder(h)
	}

	styles := m.theme.Styles()
	var selected *stickerCell
	if m.selected < len(m.grid.cells) {
		selected = m.grid.cells[m.selected]
	}

	out := make([]string, 0, h)
	end := m.offset + h
	for _, row := range m.grid.rows {
		if row.line+row.height <= m.offset {
			continue
		}
		if row.line >= end {
			break
		}
		for i, line := range m.renderRow(row, selected, styles) {
			if n := row.line + i; n >= m.offset && n < end {
				out = append(out, line)
			}
		}
	}
	for len(out) < h {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func (m Model) renderRow(row gridRow, selected *stickerCell, styles Styles) []string {
	if len(row.cells) == 0 {
		title := styles.PackTitle.Render(truncate(row.title, max(1, m.width-2)))
		return []string{" " + title}
	}
	boxes := make([]string, 0, len(row.cells))
	for _, c := range row.cells {
		boxes = append(boxes, m.renderCell(c, c == selected, styles))
	}
	lines := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, boxes...), "\n")
	for len(lines) < row.height {
		lines = append(lines, "")
	}
	return lines[:row.height]
}

func (m Model) renderCell(c *stickerCell, selected bool, styles Styles) string {
	inner := cellWidth - 2
	label := truncate(c.sticker.Body, inner)
	if label == "" {
		label = "(untitled)"
	}
	var thumb string
	if c.source != "" {
		thumb = styles.SuccessText.Render(truncate("▣ "+thumbLabel(c.source), inner))
	} else {
		thumb = styles.FaintText.Render("░░░░")
	}
	box := styles.Cell
	if selected {
		box = styles.SelectedCell
	}
	return box.MaxHeight(cellHeight).Render(label + "\n" + thumb)
}

// thumbLabel shortens a thumbnail URL to its media id for display.
func thumbLabel(url string) string {
	rest := url
	if i := strings.Index(rest, "/media-thumbnail/"); i >= 0 {
		rest = rest[i+len("/media-thumbnail/"):]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		rest = rest[i+1:]
	}
	return rest
}

func (m Model) renderPlaceholder(h int) string {
	styles := m.theme.Styles()
	var msg string
	switch {
	case m.query != "" && len(m.snapshot.Packs) > 0:
		msg = styles.MutedText.Render(fmt.Sprintf("No stickers match %q", m.query))
	case m.snapshot.Phase == catalog.Loading:
		msg = m.spinner.View() + " " + styles.MutedText.Render("Loading packs...")
	case m.snapshot.Phase == catalog.Failed:
		msg = styles.DangerText.Render("Failed to load packs: " + m.snapshot.Error)
	default:
		msg = styles.MutedText.Render("No packs found :(")
	}
	return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, msg)
}

// renderFooter shows the search input while searching, otherwise the last
// action and the active filter.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.searching {
		return styles.Footer.Width(m.width).Render(fitLine(m.search.View(), m.width-2))
	}
	var parts []string
	if m.query != "" {
		parts = append(parts, "filter: "+m.query)
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, styles.DangerText.Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	return styles.Footer.Width(m.width).Render(fitLine(strings.Join(parts, "  •  "), m.width-2))
}
