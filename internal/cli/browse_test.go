package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/membership/membershiptest"
	"github.com/matzehuels/categorycloud/pkg/membership/memory"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step applies msg and runs any command it returns, feeding the result back.
func step(t *testing.T, m browseModel, msg tea.Msg) browseModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(browseModel)
	if cmd != nil {
		if loaded, ok := cmd().(cloudLoadedMsg); ok {
			next, _ = m.Update(loaded)
			m = next.(browseModel)
		}
	}
	return m
}

func newTestBrowser(t *testing.T) browseModel {
	t.Helper()
	m := newBrowseModel(context.Background(), memory.New(membershiptest.Fixture()), cloud.DefaultOptions(), "Fruits")
	msg := m.Init()()
	next, _ := m.Update(msg)
	return next.(browseModel)
}

func TestBrowseInitialLoad(t *testing.T) {
	m := newTestBrowser(t)
	require.NoError(t, m.err)
	require.False(t, m.loading)
	require.Len(t, m.cloud.Items, 2)

	view := m.View()
	assert.Contains(t, view, "Fruits")
	assert.Contains(t, view, "Apple")
	assert.Contains(t, view, "Banana Cultivars")
}

func TestBrowseDescendAndBack(t *testing.T) {
	m := newTestBrowser(t)

	m = step(t, m, key("down"))
	assert.Equal(t, 1, m.cursor)

	m = step(t, m, key("enter"))
	assert.Equal(t, []string{"Fruits", "Banana_Cultivars"}, m.path)
	assert.True(t, strings.Contains(m.View(), "no subcategories"))

	m = step(t, m, key("backspace"))
	assert.Equal(t, []string{"Fruits"}, m.path)
	require.NoError(t, m.err)
	assert.Equal(t, 0, m.cursor)

	// Backing out of the root is a no-op.
	m = step(t, m, key("backspace"))
	assert.Equal(t, []string{"Fruits"}, m.path)
}

func TestBrowseToggleOrder(t *testing.T) {
	m := newTestBrowser(t)
	assert.Equal(t, "Apple", m.cloud.Items[0].Name)

	m = step(t, m, key("o"))
	assert.Equal(t, "Banana_Cultivars", m.cloud.Items[0].Name)
}

func TestBrowseIgnoresStaleResults(t *testing.T) {
	m := newTestBrowser(t)
	next, _ := m.Update(cloudLoadedMsg{category: "Vegetables", cloud: &cloud.Cloud{}})
	m = next.(browseModel)
	assert.Len(t, m.cloud.Items, 2)
}

func TestBrowseQuit(t *testing.T) {
	m := newTestBrowser(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(3, 0))
	assert.Equal(t, strings.Repeat("▇", barWidth), bar(9, 9))
	assert.Equal(t, "▇", bar(1, 100))
}
