package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conorfennell/memorizer/internal/api"
	"github.com/conorfennell/memorizer/internal/training"
)

// trainModel hosts one training session. All transition logic lives in the
// trainer; this model only adapts key presses and runs the effects.
type trainModel struct {
	trainer *training.Trainer
	client  *api.Client
	user    string
	deck    string
	input   textinput.Model
}

func newTrainModel(trainer *training.Trainer, client *api.Client) trainModel {
	input := textinput.New()
	input.Placeholder = "answer"
	input.CharLimit = 256
	return trainModel{
		trainer: trainer,
		client:  client,
		input:   input,
	}
}

func (m trainModel) Init() tea.Cmd {
	return nil
}

// start enters the session for deck and issues the first fetch.
func (m trainModel) start(user, deck string) (trainModel, tea.Cmd) {
	m.user = user
	m.deck = deck
	m.input.Reset()
	return m, m.runEffect(m.trainer.Start(user, deck))
}

func (m trainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case questionMsg:
		eff := m.trainer.HandleQuestion(msg.gen, msg.q, msg.err)
		if m.trainer.Session().State == training.QuestionAsk {
			m.input.Reset()
			m.input.Focus()
		}
		return m, m.runEffect(eff)

	case ackMsg:
		return m, m.runEffect(m.trainer.HandleRateAck(msg.gen, msg.err))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey implements the session keyboard contract. Keys that don't apply
// to the current state fall through to the trainer's guards and do nothing.
func (m trainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.trainer.Session().State {
	case training.QuestionAsk:
		switch msg.String() {
		case "enter", "ctrl+enter":
			m.trainer.SubmitTypedAnswer(m.input.Value())
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case training.AnswerGiven:
		switch msg.String() {
		case "right":
			m.trainer.AdjustRating(1)
		case "left":
			m.trainer.AdjustRating(-1)
		case "1", "2", "3", "4", "5", "6":
			m.trainer.SetRating(int(msg.String()[0] - '0'))
		case "enter", " ":
			return m, m.runEffect(m.trainer.SubmitRatingFromHighlight())
		}
	}
	return m, nil
}

// runEffect turns a trainer effect into the command that performs it.
func (m trainModel) runEffect(eff training.Effect) tea.Cmd {
	client, user, deck := m.client, m.user, m.deck
	switch eff.Kind {
	case training.EffectFetchQuestion:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			q, err := client.NextQuestion(ctx, user, deck)
			return questionMsg{gen: eff.Generation, q: q, err: err}
		}
	case training.EffectSubmitScore:
		sub := eff.Submission
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			err := client.SubmitAnswer(ctx, user, deck, sub)
			return ackMsg{gen: eff.Generation, err: err}
		}
	}
	return nil
}

func (m trainModel) View() string {
	vm := m.trainer.View()
	var b strings.Builder

	fmt.Fprintf(&b, "\n  %s / %s\n\n", cyanStyle.Render(vm.User), cyanStyle.Render(vm.Deck))

	switch vm.Panel {
	case training.PanelRetrieving:
		b.WriteString(greyStyle.Render("  retrieving next question..."))

	case training.PanelQuestion:
		fmt.Fprintf(&b, "  %s\n", yellowBoldStyle.Render(vm.Prompt))
		if vm.Transform != "" {
			fmt.Fprintf(&b, "  %s\n", greyStyle.Render(vm.Transform))
		}
		fmt.Fprintf(&b, "\n  %s\n", m.input.View())
		b.WriteString(greyStyle.Render("\n  enter = submit answer"))

	case training.PanelAnswer:
		fmt.Fprintf(&b, "  %s\n", yellowBoldStyle.Render(vm.Prompt))
		if vm.Transform != "" {
			fmt.Fprintf(&b, "  %s\n", greyStyle.Render(vm.Transform))
		}
		typedStyle := redStyle
		if vm.Correct {
			typedStyle = greenStyle
		}
		fmt.Fprintf(&b, "\n  you answered: %s\n", typedStyle.Render(vm.Typed))
		if !vm.Correct {
			fmt.Fprintf(&b, "  correct:      %s\n", greenStyle.Render(vm.Answer))
		}
		fmt.Fprintf(&b, "\n%s\n", ratingBar(vm.Rating))
		b.WriteString(greyStyle.Render("\n  arrows/1-6 = pick rating, enter = submit"))

	case training.PanelSubmitting:
		b.WriteString(greyStyle.Render("  submitting rating..."))

	case training.PanelComplete:
		b.WriteString(greenStyle.Render("  Deck complete, no more questions!"))
		b.WriteString(greyStyle.Render("\n\n  esc = quit"))
	}

	b.WriteString("\n")
	return b.String()
}

// ratingBar renders the six rating positions with exactly the highlighted
// one marked, or none when no rating is picked yet.
func ratingBar(rating int) string {
	var cells []string
	for n := training.MinRating; n <= training.MaxRating; n++ {
		cell := fmt.Sprintf(" %d %s ", n, training.RatingLabel(n))
		if n == rating {
			cell = selectedStyle.Render(cell)
		} else {
			cell = greyStyle.Render(cell)
		}
		cells = append(cells, cell)
	}
	return "  " + strings.Join(cells, " ")
}
