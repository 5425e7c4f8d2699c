package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tmm/internal/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	deprecated    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

const maxVisible = 15

// PackageSelectedMsg is sent when the user picks a package to install.
type PackageSelectedMsg struct {
	Package *domain.Package
}

// Browser is an interactive package picker: a filter input over the
// registry listing with keyboard selection.
type Browser struct {
	packages []*domain.Package
	filtered []*domain.Package
	filter   textinput.Model
	selected int
	width    int
	height   int
	choice   *domain.Package
}

// NewBrowser creates a browser over the given packages.
func NewBrowser(packages []*domain.Package) Browser {
	input := textinput.New()
	input.Placeholder = "Filter packages..."
	input.Focus()

	return Browser{
		packages: packages,
		filtered: packages,
		filter:   input,
		width:    80,
		height:   24,
	}
}

// Choice returns the picked package, or nil when the user quit without
// choosing.
func (b Browser) Choice() *domain.Package {
	return b.choice
}

// Selected returns the cursor position within the filtered listing.
func (b Browser) Selected() int {
	return b.selected
}

// Filtered returns the packages currently matching the filter.
func (b Browser) Filtered() []*domain.Package {
	return b.filtered
}

// Init implements tea.Model.
func (b Browser) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return b, tea.Quit

		case "up":
			if b.selected > 0 {
				b.selected--
			}
			return b, nil

		case "down":
			if b.selected < len(b.filtered)-1 {
				b.selected++
			}
			return b, nil

		case "enter":
			if b.selected < len(b.filtered) {
				b.choice = b.filtered[b.selected]
			}
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.applyFilter()
	return b, cmd
}

func (b *Browser) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(b.filter.Value()))
	if query == "" {
		b.filtered = b.packages
	} else {
		var matched []*domain.Package
		for _, pkg := range b.packages {
			if strings.Contains(strings.ToLower(pkg.FullName()), query) {
				matched = append(matched, pkg)
			}
		}
		b.filtered = matched
	}

	if b.selected >= len(b.filtered) {
		b.selected = 0
	}
}

// View implements tea.Model.
func (b Browser) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Packages"))
	sb.WriteString("\n")
	sb.WriteString(b.filter.View())
	sb.WriteString("\n\n")

	start := 0
	if b.selected >= maxVisible {
		start = b.selected - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(b.filtered) {
		end = len(b.filtered)
	}

	for i := start; i < end; i++ {
		pkg := b.filtered[i]
		line := pkg.FullName()
		if latest := pkg.Latest(); latest != nil {
			line = fmt.Sprintf("%s  v%s", line, latest.VersionNumber)
		}

		switch {
		case i == b.selected:
			sb.WriteString(selectedStyle.Render("> " + line))
		case pkg.IsDeprecated:
			sb.WriteString(deprecated.Render("  " + line))
		default:
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n%d packages", len(b.filtered)))
	return sb.String()
}
