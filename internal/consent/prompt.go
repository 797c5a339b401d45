package consent

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/felixgeelhaar/devboot/internal/errors"
)

// NewTerminalPrompter picks the interactive TUI when in is a terminal and a
// plain line reader otherwise.
func NewTerminalPrompter(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return &TeaPrompter{In: in, Out: out}
	}
	return &LinePrompter{In: in, Out: out}
}

// LinePrompter asks on out and reads a single answer line from in
type LinePrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// Prompt implements Prompter. Anything other than y/yes declines.
func (p *LinePrompter) Prompt(req Request) (bool, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}

	fmt.Fprintf(p.Out, "%s requires accepting third-party terms: %s\nDo you accept? (y/N): ",
		req.Description, req.TermsURL)

	response, err := p.reader.ReadString('\n')
	if err != nil && response == "" {
		return false, errors.NewConsentUnavailableError(err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// TeaPrompter shows a bubbletea confirmation panel
type TeaPrompter struct {
	In  io.Reader
	Out io.Writer
}

// Prompt implements Prompter
func (p *TeaPrompter) Prompt(req Request) (bool, error) {
	opts := []tea.ProgramOption{}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	program := tea.NewProgram(consentModel{req: req}, opts...)
	finalModel, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("run consent UI: %w", err)
	}

	return finalModel.(consentModel).approved, nil
}

// consentModel is the bubbletea model for the consent panel
type consentModel struct {
	req      Request
	approved bool
	quitting bool
}

func (m consentModel) Init() tea.Cmd {
	return nil
}

func (m consentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			m.approved = true
			m.quitting = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.approved = false
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m consentModel) View() string {
	if m.quitting {
		if m.approved {
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Render("✓ Terms accepted\n")
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Render("✗ Terms declined\n")
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.req.Description) + "\n\n")
	b.WriteString("Installing this component requires accepting third-party terms.\n")
	b.WriteString(labelStyle.Render("Terms: ") + m.req.TermsURL + "\n\n")
	b.WriteString("Accept and continue? ")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("(y)") + " / ")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("(n)"))

	return panel.Render(b.String()) + "\n"
}
