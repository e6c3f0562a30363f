package ui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
	"github.com/TzachiGitHub/pokedex/internal/scroll"
	"github.com/TzachiGitHub/pokedex/internal/state"
	"github.com/TzachiGitHub/pokedex/internal/urlstate"
)

const (
	rowHeight     = 2   // lines per record
	skeletonCount = 10  // placeholder rows while the first page loads
	statMax       = 255 // stat bars are drawn against this value
	statBarWidth  = 8
	nameWidth     = 16
	chromeLines   = 5 // header, filter bar, sort bar, detail, footer
)

// syncList recomputes the listed records, keeps the cursor on screen and
// feeds the viewport to the load-more trigger. It returns the load-more
// command when the trigger fires.
func (m *Model) syncList() tea.Cmd {
	m.refreshVisible()

	n := len(m.visible)
	m.cursor = max(min(m.cursor, n-1), 0)
	rows := m.rowsVisible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(min(m.offset, n-1), 0)

	if !m.ready {
		return nil
	}
	m.list.Width = m.width
	m.list.Height = m.listHeight()
	m.list.SetContent(m.renderRows())
	m.list.SetYOffset(m.offset * rowHeight)

	snap := m.snapshot
	// Locally filtered previews and failed appends never load more on
	// their own; the latter waits for an explicit retry.
	hasMore := snap.HasPagination && snap.Pagination.HasNext && snap.Err == "" && !m.previewing()
	loading := snap.Loading || snap.LoadingMore
	vp := scroll.Viewport{Offset: m.offset, Height: rows, Total: n}
	if m.trigger.Observe(vp, hasMore, loading) {
		return m.runOp(opLoadMore, m.controller.LoadMore)
	}
	return nil
}

// bodyHeight is the number of lines between the bars and the detail line.
func (m Model) bodyHeight() int {
	return max(m.height-chromeLines, 1)
}

// listHeight leaves room for the reload banner when one is shown.
func (m Model) listHeight() int {
	if m.snapshot.Loading && m.snapshot.HasData() {
		return max(m.bodyHeight()-1, 1)
	}
	return m.bodyHeight()
}

func (m Model) rowsVisible() int {
	return max(m.listHeight()/rowHeight, 1)
}

// renderBody picks the list state to show.
func (m Model) renderBody() string {
	snap := m.snapshot
	box := lipgloss.NewStyle().Width(m.width).Height(m.bodyHeight()).MaxHeight(m.bodyHeight())

	switch {
	case snap.Err != "" && !snap.HasData():
		return box.Render(m.renderErrorState())
	case (snap.Loading || snap.Phase == state.PhaseIdle) && !snap.HasData():
		return box.Render(m.renderSkeletons())
	case len(m.visible) == 0:
		return box.Render(m.renderEmptyState())
	case snap.Loading:
		banner := m.spinner.View() + " " + m.theme.Styles().AccentText.Bold(true).Render(textLoadingPokemon)
		return box.Render(banner + "\n" + m.list.View())
	}
	return box.Render(m.list.View())
}

func (m Model) renderErrorState() string {
	styles := m.theme.Styles()
	lines := []string{
		styles.DangerText.Render(textErrorLoading),
		styles.MutedText.Render(m.snapshot.Err),
		"",
		keyHint(m.theme, "r", textRetry),
	}
	return m.centered(lines)
}

func (m Model) renderEmptyState() string {
	styles := m.theme.Styles()
	lines := []string{
		styles.Text.Bold(true).Render(textNoPokemonFound),
		styles.MutedText.Render(textTryAdjusting),
		"",
		keyHint(m.theme, "x", textResetFilters),
	}
	return m.centered(lines)
}

func (m Model) centered(lines []string) string {
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, block)
}

func (m Model) renderSkeletons() string {
	styles := m.theme.Styles()
	lines := make([]string, 0, skeletonCount*rowHeight)
	for range skeletonCount {
		lines = append(lines,
			styles.FaintText.Render("  ▒▒▒▒ ▒▒▒▒▒▒▒▒▒▒▒▒ ▒▒▒▒▒ ▒▒▒▒▒"),
			styles.FaintText.Render("     ▒▒ ▒▒▒▒▒▒▒▒  ▒▒▒ ▒▒▒▒▒▒▒▒  ▒▒▒ ▒▒▒▒▒▒▒▒"))
	}
	return strings.Join(lines, "\n")
}

// renderRows renders every listed record followed by the list trailer.
func (m Model) renderRows() string {
	lines := make([]string, 0, len(m.visible)*rowHeight+2)
	term := m.highlightTerm()
	for i, p := range m.visible {
		lines = append(lines, m.renderRow(p, i == m.cursor, term)...)
	}
	return strings.Join(append(lines, m.renderTrailer()...), "\n")
}

// renderTrailer renders what follows the last record: the load-more
// spinner, the end-of-list message or the inline error.
func (m Model) renderTrailer() []string {
	snap := m.snapshot
	styles := m.theme.Styles()
	switch {
	case snap.LoadingMore:
		return []string{"  " + m.spinner.View() + " " + styles.MutedText.Render(textLoadingMore)}
	case snap.Err != "":
		msg := textFailedToReload
		if snap.FailedAppend {
			msg = textFailedToLoadMore
		}
		return []string{
			"  " + styles.DangerText.Render(msg),
			"  " + styles.FaintText.Render(snap.Err),
		}
	case snap.AtEnd() && !m.previewing():
		return []string{"  " + styles.AccentText.Render(seenAllText(len(snap.Records)))}
	}
	return nil
}

// renderRow renders one record as two lines: identity, then stats.
func (m Model) renderRow(p pokeapi.Pokemon, selected bool, term string) []string {
	styles := m.theme.Styles()

	cursor := "  "
	nameStyle := styles.Text
	if selected {
		cursor = styles.AccentText.Bold(true).Render("▶ ")
		nameStyle = nameStyle.Bold(true)
	}

	name := highlightName(truncate(p.Name, nameWidth), term, nameStyle, styles.AccentText.Bold(true).Underline(true))
	name += strings.Repeat(" ", max(nameWidth-lipgloss.Width(name), 0))

	parts := []string{
		cursor + styles.Badge.Render(numberBadge(p.Number)),
		name,
	}
	for _, typ := range p.Types() {
		parts = append(parts, m.theme.TypeChip(typ).Render(typ))
	}
	parts = append(parts, styles.MutedText.Render(generationText(p.Generation)))
	if p.Legendary {
		parts = append(parts, styles.WarningText.Bold(true).Render("★ "+textLegendary))
	}
	parts = append(parts, m.captureMarker(p))

	stats := strings.Join([]string{
		m.statBar(textStatHP, p.HitPoints, m.theme.StatHP),
		m.statBar(textStatAttack, p.Attack, m.theme.StatAttack),
		m.statBar(textStatDefense, p.Defense, m.theme.StatDefense),
		m.statBar(textStatSpeed, p.Speed, m.theme.StatSpeed),
	}, "  ")

	return []string{strings.Join(parts, " "), "       " + stats}
}

func (m Model) captureMarker(p pokeapi.Pokemon) string {
	styles := m.theme.Styles()
	switch {
	case m.snapshot.IsPending(p.Key()):
		return styles.FaintText.Render(m.spinner.View())
	case p.Captured:
		return styles.SuccessText.Render("● " + textCaptured)
	}
	return styles.FaintText.Render("○")
}

// statBar draws value against statMax as a fixed-width bar.
func (m Model) statBar(label string, value int, color string) string {
	styles := m.theme.Styles()
	filled := min(max(value*statBarWidth/statMax, 0), statBarWidth)
	if value > 0 && filled == 0 {
		filled = 1
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled)) +
		styles.FaintText.Render(strings.Repeat("░", statBarWidth-filled))
	return styles.MutedText.Render(padRight(label, 3)) + " " + bar + " " +
		styles.Text.Render(padRight(itoa(value), 3))
}

// highlightName styles the characters of name matched by term.
func highlightName(name, term string, base, match lipgloss.Style) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return base.Render(name)
	}
	matches := fuzzy.Find(term, []string{name})
	if len(matches) == 0 {
		return base.Render(name)
	}
	hit := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range name {
		if hit[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func keyHint(theme Theme, k, label string) string {
	styles := theme.Styles()
	return styles.WarningText.Bold(true).Render("["+k+"]") + " " + styles.Text.Render(label)
}

// nextType cycles "" (all types) → types[0] → ... → "".
func nextType(types []string, current string) string {
	if len(types) == 0 {
		return ""
	}
	i := slices.Index(types, current)
	if i == len(types)-1 {
		return ""
	}
	return types[i+1]
}

// nextPageSize cycles through urlstate.ValidPageSizes.
func nextPageSize(current int) int {
	sizes := urlstate.ValidPageSizes
	i := slices.Index(sizes, current)
	return sizes[(i+1)%len(sizes)]
}

// currentPage is the last page shown, falling back to the query.
func currentPage(snap state.Snapshot) int {
	if snap.HasPagination && snap.Pagination.Page > 0 {
		return snap.Pagination.Page
	}
	return max(snap.Query.Page, 1)
}
