// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/pdfmd/internal/console"
)

// tuiSource runs a terminal file picker. A program failure (the recovered
// environment error) silently falls back to the textual prompt.
type tuiSource struct {
	multiple bool
	out      io.Writer
	fallback FileSource
}

func newTUISource(multiple bool, out io.Writer) *tuiSource {
	return &tuiSource{
		multiple: multiple,
		out:      out,
		fallback: NewPromptSource(os.Stdin, out, multiple),
	}
}

// Select runs the picker program and validates the chosen paths. If the
// program cannot run at all, the prompt source takes over; cancelling the
// picker or confirming an empty selection yields ErrNoFileSelected.
func (s *tuiSource) Select(ctx context.Context) ([]string, error) {
	model := newPickModel(s.multiple)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	final, err := program.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		fmt.Fprintln(s.out, "interactive picker unavailable, falling back to text input")
		return s.fallback.Select(ctx)
	}

	m, ok := final.(pickModel)
	if !ok || m.cancelled || len(m.selected) == 0 {
		return nil, ErrNoFileSelected
	}
	return Validate(m.selected, s.out)
}

// keyMap holds the picker-level bindings layered on top of the filepicker's
// own navigation keys.
type keyMap struct {
	Confirm key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Confirm: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "confirm selection"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// pickModel wraps a bubbles filepicker restricted to PDF files. In multiple
// mode each enter adds a file and ctrl+d confirms; in single mode the first
// selection finishes the program.
type pickModel struct {
	fp        filepicker.Model
	keys      keyMap
	styles    *console.Styles
	multiple  bool
	selected  []string
	notice    string
	cancelled bool
}

func newPickModel(multiple bool) pickModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return pickModel{
		fp:       fp,
		keys:     defaultKeyMap(),
		styles:   console.DefaultStyles(),
		multiple: multiple,
	}
}

func (m pickModel) Init() tea.Cmd {
	return m.fp.Init()
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.fp.Height = msg.Height - 5
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			if m.multiple && len(m.selected) > 0 {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)

	if ok, path := m.fp.DidSelectFile(msg); ok {
		m.notice = ""
		if !contains(m.selected, path) {
			m.selected = append(m.selected, path)
		}
		if !m.multiple {
			return m, tea.Quit
		}
	}
	if ok, path := m.fp.DidSelectDisabledFile(msg); ok {
		m.notice = path + " is not a PDF file"
	}

	return m, cmd
}

func (m pickModel) View() string {
	if m.cancelled {
		return ""
	}

	title := "Select a PDF file"
	if m.multiple {
		title = "Select PDF files"
	}
	view := m.styles.Header.Render(title) + "\n\n" + m.fp.View() + "\n"

	if m.notice != "" {
		view += m.styles.Warning.Render(m.notice) + "\n"
	}
	if m.multiple {
		view += m.styles.Subtle.Render(fmt.Sprintf("%d selected · enter add · ctrl+d confirm · q cancel", len(m.selected))) + "\n"
	} else {
		view += m.styles.Subtle.Render("enter select · q cancel") + "\n"
	}
	return view
}

func contains(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
