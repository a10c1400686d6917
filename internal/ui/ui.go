// Package ui is the terminal front end. It hosts the training state machine,
// translating key presses into trainer calls and trainer effects into
// network commands.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/conorfennell/memorizer/internal/api"
	"github.com/conorfennell/memorizer/internal/domain"
	"github.com/conorfennell/memorizer/internal/training"
)

var (
	redStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	greenStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	cyanStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	greyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	yellowBoldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")).Bold(true)
)

const requestTimeout = 30 * time.Second

type view int

const (
	viewSelect view = iota
	viewTrain
)

// Messages delivered back into the event loop by network commands.
type decksMsg struct {
	decks []string
	err   error
}

type questionMsg struct {
	gen int
	q   *domain.Question
	err error
}

type ackMsg struct {
	gen int
	err error
}

type deckChosenMsg struct {
	deck string
}

// Model is the root bubbletea model: deck selection first, then training.
// The selector and the trainer are never active at the same time.
type Model struct {
	client *api.Client
	user   string
	deck   string

	view   view
	sel    selectModel
	train  trainModel
	width  int
	height int
}

// New builds the root model. With a non-empty deck the selector is skipped
// and training starts immediately.
func New(client *api.Client, user, deck string) Model {
	m := Model{
		client: client,
		user:   user,
		deck:   deck,
		sel:    newSelectModel(user),
	}
	m.train = newTrainModel(training.New(user, nil), client)
	m.train.user = user
	m.train.deck = deck
	if deck != "" {
		m.view = viewTrain
	}
	return m
}

// Init cannot persist model changes, so the session fields are already in
// place and only the trainer's entry action runs here.
func (m Model) Init() tea.Cmd {
	if m.view == viewTrain {
		return m.train.runEffect(m.train.trainer.Start(m.user, m.deck))
	}
	return fetchDecksCmd(m.client, m.user)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global messages first.
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	case deckChosenMsg:
		// Selecting a deck hides the selector and shows the trainer.
		m.view = viewTrain
		m.deck = msg.deck
		var cmd tea.Cmd
		m.train, cmd = m.train.start(m.user, msg.deck)
		return m, cmd
	}

	switch m.view {
	case viewSelect:
		model, cmd := m.sel.Update(msg)
		m.sel = model.(selectModel)
		return m, cmd
	case viewTrain:
		model, cmd := m.train.Update(msg)
		m.train = model.(trainModel)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.view == viewTrain {
		return m.train.View()
	}
	return m.sel.View()
}

func fetchDecksCmd(client *api.Client, user string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		decks, err := client.Decks(ctx, user)
		return decksMsg{decks: decks, err: err}
	}
}
