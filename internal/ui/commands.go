package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TzachiGitHub/pokedex/internal/scroll"
)

// searchDebounce is how long typing must pause before a search is sent.
const searchDebounce = 300 * time.Millisecond

// Operation labels for opDoneMsg.
const (
	opMount     = "mount"
	opRefresh   = "refresh"
	opRetry     = "retry"
	opLoadMore  = "load more"
	opSetPage   = "set page"
	opSetType   = "set type"
	opSetSort   = "set sort"
	opSetLimit  = "set limit"
	opSetSearch = "set search"
	opReset     = "reset filters"
	opToggle    = "toggle capture"
)

// Messages

type storeChangedMsg struct{}

type opDoneMsg struct {
	op  string
	err error
}

type searchDebounceMsg struct{ seq int }

type restoreTickMsg struct{}

// Commands

// waitForChange blocks until the store signals a change. A closed channel
// ends the subscription.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// runOp runs a controller operation off the UI goroutine. Its effects arrive
// through the store; the returned message only carries the error.
func (m Model) runOp(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func debounceSearch(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func restoreTickCmd() tea.Cmd {
	return tea.Tick(scroll.PollInterval, func(time.Time) tea.Msg {
		return restoreTickMsg{}
	})
}
