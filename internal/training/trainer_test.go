package training

import (
	"errors"
	"testing"

	"github.com/conorfennell/memorizer/internal/domain"
)

func startedTrainer(t *testing.T) (*Trainer, int) {
	t.Helper()
	tr := New("alice", nil)
	eff := tr.Start("alice", "spanish")
	if eff.Kind != EffectFetchQuestion {
		t.Fatalf("Expected Start to request a fetch, got effect kind %d", eff.Kind)
	}
	return tr, eff.Generation
}

func askedTrainer(t *testing.T) (*Trainer, int) {
	t.Helper()
	tr, gen := startedTrainer(t)
	tr.HandleQuestion(gen, &domain.Question{From: "hola", To: "hello", Learnable: "l1"}, nil)
	if got := tr.Session().State; got != QuestionAsk {
		t.Fatalf("Expected state %v after question arrived, got %v", QuestionAsk, got)
	}
	return tr, gen
}

func ratedTrainer(t *testing.T) (*Trainer, int) {
	t.Helper()
	tr, gen := askedTrainer(t)
	tr.SubmitTypedAnswer("hullo")
	if got := tr.Session().State; got != AnswerGiven {
		t.Fatalf("Expected state %v after answering, got %v", AnswerGiven, got)
	}
	return tr, gen
}

func TestScore(t *testing.T) {
	expected := map[int]float64{
		1: 0.0,
		2: 0.2,
		3: 0.4,
		4: 0.6,
		5: 0.8,
		6: 1.0,
	}
	for rating, want := range expected {
		if got := Score(rating); got != want {
			t.Errorf("Score(%d) = %v, want exactly %v", rating, got, want)
		}
	}
}

func TestStartFetchesQuestion(t *testing.T) {
	tr, gen := startedTrainer(t)

	s := tr.Session()
	if s.State != ObtainingQuestion {
		t.Errorf("Expected state %v after Start, got %v", ObtainingQuestion, s.State)
	}
	if s.User != "alice" || s.Deck != "spanish" {
		t.Errorf("Expected session for alice/spanish, got %s/%s", s.User, s.Deck)
	}

	tr.HandleQuestion(gen, &domain.Question{From: "hola", To: "hello"}, nil)
	vm := tr.View()
	if vm.Panel != PanelQuestion {
		t.Errorf("Expected question panel, got %v", vm.Panel)
	}
	if vm.Prompt != "hola" {
		t.Errorf("Expected displayed prompt %q, got %q", "hola", vm.Prompt)
	}
}

func TestSubmitTypedAnswer(t *testing.T) {
	tr, _ := askedTrainer(t)
	tr.SubmitTypedAnswer("hullo")

	vm := tr.View()
	if vm.Panel != PanelAnswer {
		t.Errorf("Expected answer panel, got %v", vm.Panel)
	}
	if vm.Typed != "hullo" {
		t.Errorf("Expected typed answer %q, got %q", "hullo", vm.Typed)
	}
	if vm.Answer != "hello" {
		t.Errorf("Expected true answer %q, got %q", "hello", vm.Answer)
	}
	if vm.Rating != 0 {
		t.Errorf("Expected rating highlight unset, got %d", vm.Rating)
	}
}

func TestSubmitTypedAnswerGuards(t *testing.T) {
	tr, gen := startedTrainer(t)

	before := tr.Session()
	tr.SubmitTypedAnswer("too early")
	after := tr.Session()

	if after.State != before.State {
		t.Errorf("Expected state unchanged, got %v", after.State)
	}
	if after.Current != nil {
		t.Errorf("Expected no current question, got %+v", after.Current)
	}

	// Answering twice must not overwrite the stored answer.
	tr.HandleQuestion(gen, &domain.Question{From: "hola", To: "hello"}, nil)
	tr.SubmitTypedAnswer("first")
	tr.SubmitTypedAnswer("second")
	if got := tr.Session().Current.Answer; got != "first" {
		t.Errorf("Expected stored answer %q, got %q", "first", got)
	}
}

func TestAdjustRatingDefaultsAndClamping(t *testing.T) {
	testCases := []struct {
		name     string
		deltas   []int
		expected []int
	}{
		{"right from unset lands on 4", []int{1}, []int{4}},
		{"left from unset lands on 3", []int{-1}, []int{3}},
		{"left twice", []int{-1, -1}, []int{3, 2}},
		{"right twice", []int{1, 1}, []int{4, 5}},
		{"clamped at lower bound", []int{-1, -1, -1, -1}, []int{3, 2, 1, 1}},
		{"clamped at upper bound", []int{1, 1, 1, 1}, []int{4, 5, 6, 6}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr, _ := ratedTrainer(t)
			for i, d := range tc.deltas {
				tr.AdjustRating(d)
				if got := tr.Session().Rating; got != tc.expected[i] {
					t.Errorf("After step %d expected highlight %d, got %d", i+1, tc.expected[i], got)
				}
			}
		})
	}
}

func TestSetRatingClamps(t *testing.T) {
	tr, _ := ratedTrainer(t)

	tr.SetRating(9)
	if got := tr.Session().Rating; got != 6 {
		t.Errorf("Expected highlight clamped to 6, got %d", got)
	}
	tr.SetRating(-2)
	if got := tr.Session().Rating; got != 1 {
		t.Errorf("Expected highlight clamped to 1, got %d", got)
	}
}

func TestRatingIgnoredOutsideAnswerGiven(t *testing.T) {
	tr, _ := askedTrainer(t)
	tr.AdjustRating(1)
	tr.SetRating(5)
	if got := tr.Session().Rating; got != 0 {
		t.Errorf("Expected no highlight while still answering, got %d", got)
	}
	if eff := tr.SubmitRating(5); eff.Kind != EffectNone {
		t.Errorf("Expected rating submission to be a no-op, got effect kind %d", eff.Kind)
	}
}

func TestSubmitRatingFromHighlight(t *testing.T) {
	t.Run("unset highlight is a no-op", func(t *testing.T) {
		tr, _ := ratedTrainer(t)
		if eff := tr.SubmitRatingFromHighlight(); eff.Kind != EffectNone {
			t.Errorf("Expected no effect with unset highlight, got kind %d", eff.Kind)
		}
		if got := tr.Session().State; got != AnswerGiven {
			t.Errorf("Expected state unchanged, got %v", got)
		}
	})

	t.Run("highlight 5 submits score 0.8", func(t *testing.T) {
		tr, gen := ratedTrainer(t)
		tr.SetRating(5)
		eff := tr.SubmitRatingFromHighlight()
		if eff.Kind != EffectSubmitScore {
			t.Fatalf("Expected a score submission, got effect kind %d", eff.Kind)
		}
		if eff.Submission.Score != 0.8 {
			t.Errorf("Expected score 0.8, got %v", eff.Submission.Score)
		}
		if eff.Submission.Question.Answer != "hullo" {
			t.Errorf("Expected typed answer attached to submission, got %q", eff.Submission.Question.Answer)
		}
		if got := tr.Session().State; got != RateSubmit {
			t.Errorf("Expected state %v, got %v", RateSubmit, got)
		}

		// Ack loops back to fetching the next question.
		next := tr.HandleRateAck(gen, nil)
		if next.Kind != EffectFetchQuestion {
			t.Errorf("Expected a new fetch after ack, got effect kind %d", next.Kind)
		}
		if got := tr.Session().State; got != ObtainingQuestion {
			t.Errorf("Expected state %v after ack, got %v", ObtainingQuestion, got)
		}
	})
}

func TestDeckExhaustion(t *testing.T) {
	tr, gen := startedTrainer(t)
	eff := tr.HandleQuestion(gen, nil, nil)
	if eff.Kind != EffectNone {
		t.Errorf("Expected no further requests after exhaustion, got effect kind %d", eff.Kind)
	}
	if got := tr.Session().State; got != NoMoreQuestions {
		t.Errorf("Expected state %v, got %v", NoMoreQuestions, got)
	}
	// Terminal: nothing moves the session on.
	tr.SubmitTypedAnswer("hello")
	tr.AdjustRating(1)
	if eff := tr.SubmitRatingFromHighlight(); eff.Kind != EffectNone {
		t.Errorf("Expected terminal state to ignore input, got effect kind %d", eff.Kind)
	}
	if got := tr.Session().State; got != NoMoreQuestions {
		t.Errorf("Expected state to stay %v, got %v", NoMoreQuestions, got)
	}
}

func TestNetworkFailureStallsSession(t *testing.T) {
	t.Run("fetch failure", func(t *testing.T) {
		tr, gen := startedTrainer(t)
		eff := tr.HandleQuestion(gen, nil, errors.New("connection refused"))
		if eff.Kind != EffectNone {
			t.Errorf("Expected no retry on failure, got effect kind %d", eff.Kind)
		}
		if got := tr.Session().State; got != ObtainingQuestion {
			t.Errorf("Expected session to stay in %v, got %v", ObtainingQuestion, got)
		}
	})

	t.Run("submit failure", func(t *testing.T) {
		tr, gen := ratedTrainer(t)
		tr.SubmitRating(3)
		eff := tr.HandleRateAck(gen, errors.New("connection refused"))
		if eff.Kind != EffectNone {
			t.Errorf("Expected no retry on failure, got effect kind %d", eff.Kind)
		}
		if got := tr.Session().State; got != RateSubmit {
			t.Errorf("Expected session to stay in %v, got %v", RateSubmit, got)
		}
	})
}

func TestStaleGenerationDiscarded(t *testing.T) {
	tr, gen := startedTrainer(t)

	// A new deck supersedes the in-flight fetch for the old one.
	tr.Start("alice", "german")
	tr.HandleQuestion(gen, &domain.Question{From: "hola", To: "hello"}, nil)

	s := tr.Session()
	if s.State != ObtainingQuestion {
		t.Errorf("Expected superseding session to keep waiting, got %v", s.State)
	}
	if s.Current != nil {
		t.Errorf("Expected stale question to be dropped, got %+v", s.Current)
	}
	if s.Deck != "german" {
		t.Errorf("Expected deck %q, got %q", "german", s.Deck)
	}
}

func TestViewIdempotent(t *testing.T) {
	tr, gen := startedTrainer(t)

	assertStable := func(state string) {
		first := tr.View()
		second := tr.View()
		if first != second {
			t.Errorf("In %s expected identical view models, got %+v then %+v", state, first, second)
		}
	}

	assertStable("obtaining-question")
	tr.HandleQuestion(gen, &domain.Question{From: "hola", To: "hello"}, nil)
	assertStable("question-ask")
	tr.SubmitTypedAnswer("hello")
	assertStable("answer-given")
	tr.SubmitRating(6)
	assertStable("rate-submit")
	tr.HandleRateAck(gen, nil)
	tr.HandleQuestion(gen, nil, nil)
	assertStable("no-more-questions")
}

func TestExactlyOnePanelPerState(t *testing.T) {
	tr, gen := startedTrainer(t)

	expected := []struct {
		advance func()
		panel   Panel
	}{
		{func() {}, PanelRetrieving},
		{func() { tr.HandleQuestion(gen, &domain.Question{From: "q", To: "a"}, nil) }, PanelQuestion},
		{func() { tr.SubmitTypedAnswer("a") }, PanelAnswer},
		{func() { tr.SubmitRating(4) }, PanelSubmitting},
		{func() { tr.HandleRateAck(gen, nil); tr.HandleQuestion(gen, nil, nil) }, PanelComplete},
	}

	for _, step := range expected {
		step.advance()
		if got := tr.View().Panel; got != step.panel {
			t.Errorf("In state %v expected panel %v, got %v", tr.Session().State, step.panel, got)
		}
	}
}

func TestAnswerCorrectness(t *testing.T) {
	tr, _ := askedTrainer(t)
	tr.SubmitTypedAnswer("hello")
	if vm := tr.View(); !vm.Correct {
		t.Errorf("Expected matching answer to be marked correct, got %+v", vm)
	}
}
