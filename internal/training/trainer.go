package training

import (
	"log/slog"

	"github.com/conorfennell/memorizer/internal/domain"
)

// State enumerates the phases of one training session.
type State int

const (
	// ObtainingQuestion means a next-question request is pending.
	ObtainingQuestion State = iota
	// QuestionAsk means a question is displayed and the user is typing an answer.
	QuestionAsk
	// AnswerGiven means the true answer is revealed and a self-rating is pending.
	AnswerGiven
	// RateSubmit means the scored answer has been sent and an ack is pending.
	RateSubmit
	// NoMoreQuestions is terminal: the deck is exhausted.
	NoMoreQuestions
)

func (s State) String() string {
	switch s {
	case ObtainingQuestion:
		return "obtaining-question"
	case QuestionAsk:
		return "question-ask"
	case AnswerGiven:
		return "answer-given"
	case RateSubmit:
		return "rate-submit"
	case NoMoreQuestions:
		return "no-more-questions"
	}
	return "unknown"
}

// Self-rating bounds. 0 means no rating is highlighted.
const (
	MinRating = 1
	MaxRating = 6
)

// Score maps a self-rating in [1, 6] onto the scheduler's [0, 1] scale.
// The integer arithmetic happens before the division so the six ratings land
// exactly on 0.0, 0.2, 0.4, 0.6, 0.8 and 1.0.
func Score(rating int) float64 {
	return float64((rating-1)*2) / 10
}

// Session is the in-memory state of one training interaction. It is owned by
// a Trainer and mutated only through Trainer methods.
type Session struct {
	User       string
	Deck       string
	State      State
	Current    *domain.Question
	Rating     int // highlighted self-rating, 0 when unset
	Generation int
}

// EffectKind tags the side effect a transition asks its host to perform.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectFetchQuestion asks the host to request the next question.
	EffectFetchQuestion
	// EffectSubmitScore asks the host to post the scored answer.
	EffectSubmitScore
)

// Effect is returned by the state-mutating methods. The host runs the
// request it describes and feeds the result back through HandleQuestion or
// HandleRateAck, tagged with the same generation.
type Effect struct {
	Kind       EffectKind
	Generation int
	Submission domain.Submission
}

var none = Effect{Kind: EffectNone}

// Trainer drives the training session state machine. It performs no IO
// itself: network requests are described as Effects and display output as the
// view model returned by View. All methods must be called from a single
// goroutine.
type Trainer struct {
	session Session
	log     *slog.Logger
}

// New returns a Trainer before any deck has been entered.
func New(user string, log *slog.Logger) *Trainer {
	if log == nil {
		log = slog.Default()
	}
	return &Trainer{
		session: Session{User: user, State: NoMoreQuestions},
		log:     log,
	}
}

// Session returns a copy of the current session state.
func (t *Trainer) Session() Session {
	return t.session
}

// Start enters a training session for deck. Any result still in flight for a
// previous deck is invalidated by bumping the generation counter.
func (t *Trainer) Start(user, deck string) Effect {
	t.session = Session{
		User:       user,
		Deck:       deck,
		State:      ObtainingQuestion,
		Generation: t.session.Generation + 1,
	}
	return Effect{Kind: EffectFetchQuestion, Generation: t.session.Generation}
}

// HandleQuestion receives the outcome of a next-question request. A nil
// question with a nil error means the deck is exhausted. Results from a
// superseded generation are discarded.
func (t *Trainer) HandleQuestion(gen int, q *domain.Question, err error) Effect {
	if gen != t.session.Generation || t.session.State != ObtainingQuestion {
		return none
	}
	if err != nil {
		t.log.Error("next question request failed", "deck", t.session.Deck, "error", err)
		return none
	}
	if q == nil {
		t.session.State = NoMoreQuestions
		t.session.Current = nil
		return none
	}
	t.session.Current = q
	t.session.State = QuestionAsk
	return none
}

// SubmitTypedAnswer stores the typed answer and reveals the true one. Outside
// QuestionAsk it is a no-op, which makes stray submissions harmless.
func (t *Trainer) SubmitTypedAnswer(text string) {
	if t.session.State != QuestionAsk || t.session.Current == nil {
		return
	}
	t.session.Current.Answer = text
	t.session.Rating = 0
	t.session.State = AnswerGiven
}

// AdjustRating steps the highlighted rating by delta, clamped to [1, 6].
// From the unset position a step up starts at 3 and a step down starts at 4,
// so a single press lands mid-scale either way.
func (t *Trainer) AdjustRating(delta int) {
	if t.session.State != AnswerGiven {
		return
	}
	r := t.session.Rating
	if r == 0 {
		if delta > 0 {
			r = 3
		} else {
			r = 4
		}
	}
	t.session.Rating = clampRating(r + delta)
}

// SetRating highlights an absolute rating, clamped to [1, 6].
func (t *Trainer) SetRating(n int) {
	if t.session.State != AnswerGiven {
		return
	}
	t.session.Rating = clampRating(n)
}

// SubmitRating submits an explicit rating, e.g. from a pointer press on one
// of the six rating buttons.
func (t *Trainer) SubmitRating(n int) Effect {
	if t.session.State != AnswerGiven || t.session.Current == nil {
		return none
	}
	t.session.Rating = clampRating(n)
	t.session.State = RateSubmit
	return Effect{
		Kind:       EffectSubmitScore,
		Generation: t.session.Generation,
		Submission: domain.Submission{
			Question: *t.session.Current,
			Score:    Score(t.session.Rating),
		},
	}
}

// SubmitRatingFromHighlight submits the highlighted rating. With no rating
// highlighted it is a no-op.
func (t *Trainer) SubmitRatingFromHighlight() Effect {
	if t.session.Rating == 0 {
		return none
	}
	return t.SubmitRating(t.session.Rating)
}

// HandleRateAck receives the outcome of a scored-answer request. On success
// the session moves on to fetch the next question; on failure it stays in
// RateSubmit.
func (t *Trainer) HandleRateAck(gen int, err error) Effect {
	if gen != t.session.Generation || t.session.State != RateSubmit {
		return none
	}
	if err != nil {
		t.log.Error("submit answer request failed", "deck", t.session.Deck, "error", err)
		return none
	}
	t.session.Current = nil
	t.session.Rating = 0
	t.session.State = ObtainingQuestion
	return Effect{Kind: EffectFetchQuestion, Generation: t.session.Generation}
}

func clampRating(n int) int {
	if n < MinRating {
		return MinRating
	}
	if n > MaxRating {
		return MaxRating
	}
	return n
}
