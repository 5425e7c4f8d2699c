package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"tmm/internal/core"
	"tmm/internal/domain"
	"tmm/internal/profile"
	"tmm/internal/tui"
)

// findInstalledMod locates a profile entry by Owner-Name (case
// insensitive), or by bare mod name when unambiguous.
func findInstalledMod(prof *profile.Profile, name string) (uuid.UUID, error) {
	var matches []uuid.UUID
	for i := range prof.Mods {
		full := prof.Mods[i].FullName
		if strings.EqualFold(full, name) {
			return prof.Mods[i].UUID, nil
		}
		if idx := strings.LastIndexByte(full, '-'); idx >= 0 && strings.EqualFold(full[idx+1:], name) {
			matches = append(matches, prof.Mods[i].UUID)
		}
	}

	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrModNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%q matches multiple mods; use the full Owner-Name form", name)
	}
}

// promptConfirm asks a yes/no question listing the affected mods. The
// --yes flag answers yes without prompting.
func promptConfirm(question string, dependants []domain.Dependant) (bool, error) {
	if yesFlag {
		return true, nil
	}

	fmt.Println(question)
	for _, dep := range dependants {
		fmt.Printf("  - %s\n", dep.Name)
	}
	fmt.Print("Continue? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// runWithProgress runs an install operation while rendering a live
// progress view. With --json the view is skipped and the operation runs
// in the foreground.
func runWithProgress(service *core.Service, operation func() error) error {
	if jsonOutput {
		return operation()
	}

	events := service.Progress().Subscribe()
	defer service.Progress().Unsubscribe()

	errCh := make(chan error, 1)
	go func() { errCh <- operation() }()

	program := tea.NewProgram(tui.NewInstallView(events))
	if _, err := program.Run(); err != nil {
		// Fall back to waiting without the view.
		return <-errCh
	}

	return <-errCh
}
