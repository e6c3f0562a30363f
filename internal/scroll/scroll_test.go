package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TzachiGitHub/pokedex/internal/prefs"
)

func TestTrigger_FiresOncePerEntry(t *testing.T) {
	calls := 0
	tr := NewTrigger(Options{Margin: 2, Threshold: DefaultThreshold}, func() { calls++ })

	// 20 rows, 5 visible: sentinel at 20 is far away.
	assert.False(t, tr.Observe(Viewport{Offset: 0, Height: 5, Total: 20}, true, false))
	// Within the margin: rows 13..17 plus 2 rows of margin reach row 19, not 20.
	assert.False(t, tr.Observe(Viewport{Offset: 13, Height: 5, Total: 20}, true, false))
	assert.True(t, tr.Observe(Viewport{Offset: 14, Height: 5, Total: 20}, true, false))
	assert.False(t, tr.Observe(Viewport{Offset: 15, Height: 5, Total: 20}, true, false), "stays visible")
	assert.Equal(t, 1, calls)

	// Leaving and re-entering fires again.
	assert.False(t, tr.Observe(Viewport{Offset: 0, Height: 5, Total: 20}, true, false))
	assert.True(t, tr.Observe(Viewport{Offset: 16, Height: 5, Total: 20}, true, false))
	assert.Equal(t, 2, calls)
}

func TestTrigger_SuppressedWithoutMoreOrWhileLoading(t *testing.T) {
	tr := NewTrigger(Options{}, nil)
	vp := Viewport{Offset: 0, Height: 10, Total: 3}

	assert.False(t, tr.Observe(vp, false, false))
	assert.False(t, tr.Observe(vp, true, true))
	// Load finished with the sentinel still on screen: re-armed.
	assert.True(t, tr.Observe(vp, true, false))
	assert.False(t, tr.Observe(vp, true, false))
}

func TestTrigger_OptionChangesRearm(t *testing.T) {
	tr := NewTrigger(Options{}, nil)
	vp := Viewport{Offset: 0, Height: 10, Total: 3}
	require.True(t, tr.Observe(vp, true, false))

	tr.SetOptions(Options{Margin: 5})
	assert.Equal(t, 5, tr.Options().Margin)
	assert.True(t, tr.Observe(vp, true, false))

	var got int
	tr.SetCallback(func() { got++ })
	assert.True(t, tr.Observe(vp, true, false))
	assert.Equal(t, 1, got)

	tr.Reset()
	assert.True(t, tr.Observe(vp, true, false))
}

func TestTrigger_DisconnectStops(t *testing.T) {
	calls := 0
	tr := NewTrigger(Options{}, func() { calls++ })
	tr.Disconnect()
	assert.False(t, tr.Observe(Viewport{Height: 10, Total: 1}, true, false))
	assert.Zero(t, calls)
}

func TestTrigger_EmptyViewportNeverFires(t *testing.T) {
	tr := NewTrigger(Options{Margin: 10}, nil)
	assert.False(t, tr.Observe(Viewport{Height: 0, Total: 0}, true, false))
}

func TestRestorer_WaitsForContentThenRestoresOnce(t *testing.T) {
	store := prefs.NewMemory(nil)
	r := NewRestorer(store)
	require.NoError(t, r.Save(40))

	off, ok := r.Pending()
	require.True(t, ok)
	assert.Equal(t, 40, off)

	// Not counted while loading or empty.
	_, done := r.Poll(100, true, true)
	assert.False(t, done)
	_, done = r.Poll(100, false, false)
	assert.False(t, done)

	_, done = r.Poll(20, false, true)
	assert.False(t, done)

	off, done = r.Poll(45, false, true)
	require.True(t, done)
	assert.Equal(t, 40, off)
	assert.True(t, r.Restored())

	_, stored := store.Get(prefs.KeyScrollPosition)
	assert.False(t, stored, "offset cleared after restore")

	require.NoError(t, store.Set(prefs.KeyScrollPosition, "10"))
	_, done = r.Poll(100, false, true)
	assert.False(t, done, "restores at most once")
}

func TestRestorer_GivesUpAfterMaxAttempts(t *testing.T) {
	store := prefs.NewMemory(map[string]string{prefs.KeyScrollPosition: "500"})
	r := NewRestorer(store)

	for i := 1; i < MaxAttempts; i++ {
		_, done := r.Poll(10, false, true)
		require.False(t, done, "attempt %d", i)
	}
	off, done := r.Poll(10, false, true)
	require.True(t, done)
	assert.Equal(t, 500, off)
}

func TestRestorer_NothingStored(t *testing.T) {
	r := NewRestorer(prefs.NewMemory(nil))
	_, done := r.Poll(100, false, true)
	assert.False(t, done)
	assert.False(t, r.Restored())

	bad := prefs.NewMemory(map[string]string{prefs.KeyScrollPosition: "abc"})
	r = NewRestorer(bad)
	_, ok := r.Pending()
	assert.False(t, ok)
	_, stillThere := bad.Get(prefs.KeyScrollPosition)
	assert.False(t, stillThere)
}

func TestRestorer_NilSafe(t *testing.T) {
	var r *Restorer
	assert.NoError(t, r.Save(3))
	_, done := r.Poll(1, false, true)
	assert.False(t, done)
}
