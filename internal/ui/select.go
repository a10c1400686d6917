package ui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// selectModel renders one selectable entry per deck belonging to the user.
type selectModel struct {
	user   string
	decks  []string
	cursor int
	loaded bool
}

func newSelectModel(user string) selectModel {
	return selectModel{user: user}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case decksMsg:
		if msg.err != nil {
			// Deck list stays empty; the user can restart with --deck.
			slog.Error("failed to fetch deck list", "user", m.user, "error", msg.err)
			return m, nil
		}
		m.decks = msg.decks
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.decks)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.decks) > 0 {
				deck := m.decks[m.cursor]
				return m, func() tea.Msg { return deckChosenMsg{deck: deck} }
			}
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  Decks for %s\n\n", cyanStyle.Render(m.user))

	switch {
	case !m.loaded:
		b.WriteString(greyStyle.Render("  retrieving decks..."))
	case len(m.decks) == 0:
		b.WriteString(greyStyle.Render("  no decks"))
	default:
		for i, deck := range m.decks {
			if i == m.cursor {
				fmt.Fprintf(&b, "  %s %s\n", yellowBoldStyle.Render(">"), yellowBoldStyle.Render(deck))
			} else {
				fmt.Fprintf(&b, "    %s\n", deck)
			}
		}
	}

	b.WriteString(greyStyle.Render("\n\n  enter = train, esc = quit\n"))
	return b.String()
}
