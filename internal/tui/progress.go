package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tmm/internal/core"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ProgressMsg carries one install progress event into the model.
type ProgressMsg core.InstallProgress

// progressClosedMsg is sent when the event stream ends.
type progressClosedMsg struct{}

// InstallView renders a live install: a progress bar over total bytes and
// a status line naming the mod currently being processed.
type InstallView struct {
	events <-chan core.InstallProgress
	bar    progress.Model
	latest core.InstallProgress
	width  int
	done   bool
	failed bool
}

// NewInstallView creates a view consuming the given progress stream.
func NewInstallView(events <-chan core.InstallProgress) InstallView {
	return InstallView{
		events: events,
		bar:    progress.New(progress.WithDefaultGradient()),
		width:  80,
	}
}

// Done reports whether the install finished, successfully or not.
func (v InstallView) Done() bool {
	return v.done
}

// Failed reports whether the install ended in an error.
func (v InstallView) Failed() bool {
	return v.failed
}

// Init implements tea.Model.
func (v InstallView) Init() tea.Cmd {
	return v.waitForEvent()
}

func (v InstallView) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-v.events
		if !ok {
			return progressClosedMsg{}
		}
		return ProgressMsg(event)
	}
}

// Update implements tea.Model.
func (v InstallView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.bar.Width = msg.Width - 4
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			v.failed = true
			return v, tea.Quit
		}
		return v, nil

	case ProgressMsg:
		v.latest = core.InstallProgress(msg)
		switch v.latest.Task {
		case core.TaskDone:
			v.done = true
			return v, tea.Quit
		case core.TaskError:
			v.done = true
			v.failed = true
			return v, tea.Quit
		}
		return v, v.waitForEvent()

	case progressClosedMsg:
		v.done = true
		return v, tea.Quit
	}

	return v, nil
}

// View implements tea.Model.
func (v InstallView) View() string {
	if v.failed {
		return errorStyle.Render("✗ Install failed") + "\n"
	}
	if v.done {
		return doneStyle.Render(fmt.Sprintf("✓ Installed %d mods", v.latest.TotalMods)) + "\n"
	}

	status := statusLine(v.latest)
	bar := v.bar.ViewAs(v.latest.TotalProgress)
	counter := dimStyle.Render(fmt.Sprintf("%d/%d", v.latest.InstalledMods, v.latest.TotalMods))

	return fmt.Sprintf("%s\n%s %s\n", statusStyle.Render(status), bar, counter)
}

func statusLine(p core.InstallProgress) string {
	switch p.Task {
	case core.TaskDownloading:
		return fmt.Sprintf("Downloading %s (%s / %s)", p.CurrentName, formatBytes(p.Downloaded), formatBytes(p.TotalBytes))
	case core.TaskExtracting:
		return fmt.Sprintf("Extracting %s", p.CurrentName)
	case core.TaskInstalling:
		return fmt.Sprintf("Installing %s", p.CurrentName)
	default:
		return "Preparing..."
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
