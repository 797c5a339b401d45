package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Choice is one entry of an interactive installer selection
type Choice struct {
	Name        string
	Description string
	// Selected pre-checks the entry
	Selected bool
}

// SelectInstallers shows a multi-select of choices and returns the chosen
// names in the order given.
func SelectInstallers(title string, choices []Choice) ([]string, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("no installers to choose from")
	}

	options := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		label := c.Name
		if c.Description != "" {
			label = fmt.Sprintf("%s - %s", c.Name, c.Description)
		}
		options[i] = huh.NewOption(label, c.Name).Selected(c.Selected)
	}

	var selected []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(options...).
		Value(&selected)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	return orderLike(choices, selected), nil
}

// orderLike returns the selected names in choice order
func orderLike(choices []Choice, selected []string) []string {
	picked := make(map[string]bool, len(selected))
	for _, name := range selected {
		picked[name] = true
	}
	out := make([]string, 0, len(selected))
	for _, c := range choices {
		if picked[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}

// IsInteractive returns true if stdin and stdout are terminals
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"TRAVIS",
	"CIRCLECI",
	"BUILDKITE",
}

// ShouldPrompt returns true if prompts should be shown: never in CI or when
// stdin is not a terminal.
func ShouldPrompt() bool {
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}
	return IsInteractive()
}
