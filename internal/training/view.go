package training

// Panel names the visual region shown for a state. Exactly one panel is
// visible at a time.
type Panel int

const (
	// PanelRetrieving is the "fetching next question" indicator.
	PanelRetrieving Panel = iota
	// PanelQuestion shows the prompt and the answer input.
	PanelQuestion
	// PanelAnswer shows the prompt, the typed answer, the true answer and
	// the rating scale.
	PanelAnswer
	// PanelSubmitting is the "sending rating" indicator.
	PanelSubmitting
	// PanelComplete is the terminal "deck finished" notice.
	PanelComplete
)

// ViewModel is a pure description of what the display should show. Building
// it never mutates the session, so rendering twice in the same state yields
// identical output.
type ViewModel struct {
	Panel     Panel
	User      string
	Deck      string
	Prompt    string
	Transform string
	Typed     string
	Correct   bool
	Answer    string // the true answer, empty until revealed
	Rating    int    // highlighted rating, 0 when unset
}

// View derives the view model for the current session state.
func (t *Trainer) View() ViewModel {
	vm := ViewModel{
		User: t.session.User,
		Deck: t.session.Deck,
	}
	q := t.session.Current

	switch t.session.State {
	case ObtainingQuestion:
		vm.Panel = PanelRetrieving
	case QuestionAsk:
		vm.Panel = PanelQuestion
		vm.Prompt = q.From
		vm.Transform = q.Transform
	case AnswerGiven:
		vm.Panel = PanelAnswer
		vm.Prompt = q.From
		vm.Transform = q.Transform
		vm.Typed = q.Answer
		vm.Answer = q.To
		vm.Correct = q.Answer == q.To
		vm.Rating = t.session.Rating
	case RateSubmit:
		vm.Panel = PanelSubmitting
		vm.Prompt = q.From
		vm.Transform = q.Transform
	case NoMoreQuestions:
		vm.Panel = PanelComplete
	}
	return vm
}

// RatingLabel describes a rating position on the scale, matching the labels
// the score gauge has always used.
func RatingLabel(rating int) string {
	switch rating {
	case 1:
		return "blackout"
	case 2:
		return "familiar"
	case 3:
		return "ah yes"
	case 4:
		return "effort"
	case 5:
		return "hesitated"
	case 6:
		return "aced"
	}
	return ""
}
