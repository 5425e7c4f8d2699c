package tui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/domain"
	"tmm/internal/tui"
)

func testPackages() []*domain.Package {
	mk := func(owner, name string) *domain.Package {
		return &domain.Package{
			Owner: owner,
			Name:  name,
			UUID:  uuid.New(),
			Versions: []domain.PackageVersion{{
				UUID:          uuid.New(),
				VersionNumber: "1.0.0",
				FullName:      owner + "-" + name + "-1.0.0",
			}},
		}
	}
	return []*domain.Package{
		mk("Owner", "Alpha"),
		mk("Owner", "Beta"),
		mk("Other", "Gamma"),
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowser_InitialState(t *testing.T) {
	b := tui.NewBrowser(testPackages())

	assert.Equal(t, 0, b.Selected())
	assert.Len(t, b.Filtered(), 3)
	assert.Nil(t, b.Choice())
	assert.NotEmpty(t, b.View())
}

func TestBrowser_Navigation(t *testing.T) {
	b := tui.NewBrowser(testPackages())

	model, _ := b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b = model.(tui.Browser)
	assert.Equal(t, 1, b.Selected())

	model, _ = b.Update(tea.KeyMsg{Type: tea.KeyUp})
	b = model.(tui.Browser)
	assert.Equal(t, 0, b.Selected())

	// Cursor never runs off the top.
	model, _ = b.Update(tea.KeyMsg{Type: tea.KeyUp})
	b = model.(tui.Browser)
	assert.Equal(t, 0, b.Selected())
}

func TestBrowser_EnterPicksSelection(t *testing.T) {
	b := tui.NewBrowser(testPackages())

	model, _ := b.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, cmd := model.(tui.Browser).Update(tea.KeyMsg{Type: tea.KeyEnter})
	b = model.(tui.Browser)

	require.NotNil(t, b.Choice())
	assert.Equal(t, "Owner-Beta", b.Choice().FullName())

	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestBrowser_EscQuitsWithoutChoice(t *testing.T) {
	b := tui.NewBrowser(testPackages())

	model, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	b = model.(tui.Browser)

	assert.Nil(t, b.Choice())
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestBrowser_FilterNarrowsListing(t *testing.T) {
	b := tui.NewBrowser(testPackages())

	model, _ := b.Update(keyMsg("gam"))
	b = model.(tui.Browser)

	require.Len(t, b.Filtered(), 1)
	assert.Equal(t, "Other-Gamma", b.Filtered()[0].FullName())
	assert.Equal(t, 0, b.Selected())
}
