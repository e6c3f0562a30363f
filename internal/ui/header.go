package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TzachiGitHub/pokedex/internal/state"
	"github.com/TzachiGitHub/pokedex/internal/urlstate"
)

// renderHeader renders the title bar: logo, shareable query, paging mode,
// sync status and theme.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	left := []string{
		bg.Render("◓ "+textAppTitle, styles.Logo),
		bg.Render(snap.Query.String(), styles.MutedText),
	}
	if snap.Mode == state.ModeManual {
		left = append(left, bg.Render("page "+itoa(currentPage(snap)), styles.InfoText))
	}

	var right []string
	if snap.SyncOffline() {
		right = append(right, bg.Render("● "+textSyncOffline, styles.WarningText))
	}
	right = append(right, bg.Render(m.themeLabel(), styles.FaintText))

	width := max(m.width-2, 0)
	line := bg.SpreadLine(bg.Join(left, 2), bg.Join(right, 2), width)
	return styles.Surface.Padding(0, 1).Width(m.width).MaxWidth(m.width).Render(line)
}

// themeLabel shows the key action, like the toggle's tooltip.
func (m Model) themeLabel() string {
	if m.theme.Mode == ThemeDark {
		return "☾ T: " + textSwitchToLight
	}
	return "☀ T: " + textSwitchToDark
}

// renderFilterBar renders the search input, the type filter and the clear
// action when any filter is active.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	typ := snap.Query.Type
	if typ == "" {
		typ = textAllTypes
	}
	typeLabel := styles.MutedText.Render(textTypeLabel+": ") + styles.Text.Bold(true).Render(typ)
	if snap.Query.Type != "" {
		typeLabel = styles.MutedText.Render(textTypeLabel+": ") + m.theme.TypeChip(snap.Query.Type).Render(typ)
	}

	parts := []string{m.search.View(), typeLabel}
	if snap.Query.HasActiveFilters() || m.previewing() {
		parts = append(parts, keyHint(m.theme, "x", textClearAllFilters))
	}
	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Padding(0, 1).Render(strings.Join(parts, "   "))
}

// renderSortBar renders the sort order, the page size and the results
// counter.
func (m Model) renderSortBar() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	sortLabel := textAscending
	if snap.Query.Sort == urlstate.SortDesc {
		sortLabel = textDescending
	}
	left := styles.MutedText.Render(textSortByNumber+" ") + styles.AccentText.Bold(true).Render(sortLabel)

	sizes := make([]string, 0, len(urlstate.ValidPageSizes))
	for _, n := range urlstate.ValidPageSizes {
		if n == snap.Query.Limit {
			sizes = append(sizes, styles.AccentText.Bold(true).Render("["+itoa(n)+"]"))
		} else {
			sizes = append(sizes, styles.FaintText.Render(" "+itoa(n)+" "))
		}
	}
	left += "   " + styles.MutedText.Render(textShow+" ") + strings.Join(sizes, "")

	right := ""
	if snap.HasPagination {
		right = styles.MutedText.Render(showingResultsText(snap.Pagination.Shown(), snap.Pagination.TotalItems))
	}

	width := max(m.width-2, 0)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	line := left
	if gap >= 1 {
		line = left + strings.Repeat(" ", gap) + right
	}
	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Padding(0, 1).Render(line)
}

// renderDetail renders the secondary stats and icon URL of the selected
// record.
func (m Model) renderDetail() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	p, ok := m.selected()
	if !ok {
		return bg.FillLine("", m.width)
	}
	parts := []string{
		bg.Render(p.Name, styles.Text.Bold(true)),
		bg.Render(strings.Join(p.Types(), "/"), styles.MutedText),
		bg.Render("Total "+itoa(p.Total), styles.Text),
		bg.Render("Sp.Atk "+itoa(p.SpecialAttack), styles.MutedText),
		bg.Render("Sp.Def "+itoa(p.SpecialDefense), styles.MutedText),
	}
	if p.Captured {
		parts = append(parts, bg.Render(textCaptured, styles.SuccessText))
	} else {
		parts = append(parts, bg.Render(textNotCaptured, styles.FaintText))
	}
	if url := m.iconURL(p.Number); url != "" {
		parts = append(parts, bg.Render(url, styles.InfoText))
	}
	return bg.FillLine(bg.Spaces(1)+bg.Join(parts, 2), m.width)
}
