// Package tui is the local terminal client: a scrolling game log, a side
// panel with location, clock, inventory and map, and a command line.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cory-johannsen/whatif/internal/game/engine"
	"github.com/cory-johannsen/whatif/internal/game/mapview"
	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/storage"
)

var (
	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	entryStyles = map[state.EntryType]lipgloss.Style{
		state.EntryResponse: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		state.EntryError:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		state.EntrySuccess:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")),
		state.EntrySystem:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7FF")).Italic(true),
		state.EntryWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
		state.EntryEnding:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D75FD7")).Bold(true),
	}

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// quitWords leave the client; the game is saved first.
var quitWords = map[string]bool{"выход": true, "выйти": true, "quit": true, "exit": true}

// commandDoneMsg carries the result of one engine command back to Update.
type commandDoneMsg struct {
	res     engine.Result
	saveErr error
}

// Model is the bubbletea model for one game.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	store  storage.Store
	key    string
	game   *engine.Session
	logger *zap.Logger

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	log      []string
	panel    string
	help     string
	busy     bool
	saveErr  error
	width    int
	height   int
	quitting bool
}

// New creates a Model playing game, saved under key after every command.
//
// Precondition: eng, store, game and logger must be non-nil.
func New(ctx context.Context, eng *engine.Engine, store storage.Store, key string, game *engine.Session, logger *zap.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		engine:   eng,
		store:    store,
		key:      key,
		game:     game,
		logger:   logger,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
	m.appendEntries(eng.Intro(game))
	m.panel = m.renderPanel()
	return m
}

func (m Model) t(msgid string, vars ...any) string {
	return m.engine.Catalog().T(msgid, vars...)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// execute runs line through the engine off the UI goroutine and saves.
func (m Model) execute(line string) tea.Cmd {
	ctx, eng, store, key, game := m.ctx, m.engine, m.store, m.key, m.game
	return func() tea.Msg {
		res := eng.Execute(ctx, game, line)
		var err error
		if len(res.Entries) > 0 {
			err = eng.Save(ctx, store, key, game)
		}
		return commandDoneMsg{res: res, saveErr: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m.quit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			if quitWords[strings.ToLower(line)] {
				return m.quit()
			}
			m.busy = true
			m.help = ""
			m.log = append(m.log, commandStyle.Width(m.logWidth()).Render("> "+line))
			m.refresh()
			return m, tea.Batch(m.spinner.Tick, m.execute(line))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 3)
		m.input.Width = max(m.logWidth()-4, 10)
		if !m.busy {
			m.panel = m.renderPanel()
		}
		m.refresh()
		return m, nil

	case commandDoneMsg:
		m.busy = false
		m.saveErr = msg.saveErr
		m.appendEntries(msg.res.Entries)
		if msg.res.ShowHelp {
			m.help = m.engine.Help(m.game.Variant())
		}
		if msg.res.Ending != "" {
			m.log = append(m.log, hintStyle.Render(m.t("The end. Type \"сброс\" to play again or \"выход\" to leave.")))
		}
		m.panel = m.renderPanel()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.engine.Save(context.WithoutCancel(m.ctx), m.store, m.key, m.game); err != nil {
		m.logger.Warn("saving on exit", zap.Error(err))
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) appendEntries(entries []state.LogEntry) {
	w := m.logWidth()
	for _, e := range entries {
		if e.Type == state.EntryCommand {
			continue
		}
		style, ok := entryStyles[e.Type]
		if !ok {
			style = entryStyles[state.EntryResponse]
		}
		m.log = append(m.log, style.Width(w).Render(e.Text))
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.log, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) logWidth() int {
	if m.width == 0 {
		return 80
	}
	return int(float64(m.width) * 0.7)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return m.t("Goodbye.") + "\n"
	}
	side := m.panel
	if m.help != "" {
		side = panelStyle.Width(m.panelWidth()).Render(m.help)
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), side)

	prompt := m.input.View()
	if m.busy {
		prompt = m.spinner.View() + " " + m.t("Thinking...")
	}
	footer := hintStyle.Render(fmt.Sprintf("%s  |  Esc", m.key))
	if m.saveErr != nil {
		footer = entryStyles[state.EntryWarning].Render(m.saveErr.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, "", prompt, footer)
}

func (m Model) panelWidth() int {
	return max(m.width-m.logWidth()-4, 20)
}

// renderPanel draws the side panel from a copy of the session. It takes the
// session lock, so it is only called while no command is running.
func (m Model) renderPanel() string {
	w, g := m.game.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t("Location")) + "\n")
	if loc, ok := w.Location(g.CurrentLocationID); ok {
		b.WriteString(loc.Name + "\n")
	}
	b.WriteString(m.t("Turn %d", g.Turn) + "\n")
	if daytime, dark, ok := m.game.Clock(); ok {
		clock := m.t("Night")
		if daytime {
			clock = m.t("Day")
		}
		if dark {
			clock += ", " + m.t("Dark")
		}
		b.WriteString(clock + "\n")
	}

	b.WriteString("\n" + titleStyle.Render(m.t("Inventory")) + "\n")
	if len(g.Inventory) == 0 {
		b.WriteString(m.t("empty") + "\n")
	}
	for _, it := range g.Inventory {
		b.WriteString("- " + it.Name + "\n")
	}

	b.WriteString("\n" + titleStyle.Render(m.t("Map")) + "\n")
	b.WriteString(mapview.Render(mapview.Build(w, g)))

	return panelStyle.Width(m.panelWidth()).Render(b.String())
}
