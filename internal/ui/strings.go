package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// User-visible text.
const (
	textAppTitle          = "Pokédex"
	textSearchPlaceholder = "Search Pokemon by name, type, number..."
	textTypeLabel         = "Type"
	textAllTypes          = "All Types"
	textClearAllFilters   = "Clear all filters"

	textLoadingPokemon = "Loading Pokemon..."
	textLoadingMore    = "Loading more Pokemon..."

	textLegendary   = "Legendary"
	textCaptured    = "Captured"
	textNotCaptured = "Not captured"
	textStatHP      = "HP"
	textStatAttack  = "ATK"
	textStatDefense = "DEF"
	textStatSpeed   = "SPD"

	textErrorLoading     = "Error loading Pokemon"
	textRetry            = "Retry"
	textNoPokemonFound   = "No Pokemon found"
	textTryAdjusting     = "Try adjusting your search or filters"
	textResetFilters     = "Reset filters"
	textFailedToLoadMore = "Failed to load more Pokemon. Press r to try again."
	textFailedToReload   = "Failed to reload Pokemon. Press r to try again."

	textSortByNumber = "Sort by #:"
	textAscending    = "Asc"
	textDescending   = "Desc"
	textShow         = "Show"

	textSwitchToDark  = "Switch to dark mode"
	textSwitchToLight = "Switch to light mode"
	textSyncOffline   = "sync offline"
)

func seenAllText(count int) string {
	return fmt.Sprintf("You've seen all %s Pokemon!", humanize.Comma(int64(count)))
}

func showingResultsText(shown, total int) string {
	return fmt.Sprintf("Showing %s of %s Pokemon", humanize.Comma(int64(shown)), humanize.Comma(int64(total)))
}

func generationText(gen int) string {
	return fmt.Sprintf("Gen %d", gen)
}

// numberBadge formats a catalog number as "#025".
func numberBadge(n int) string {
	return fmt.Sprintf("#%03d", n)
}

// truncate shortens value to at most width terminal cells, ending with an
// ellipsis when cut.
func truncate(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "…")
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
