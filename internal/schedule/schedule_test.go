package schedule

import (
	"math"
	"testing"
	"time"
)

func TestNextStability(t *testing.T) {
	params := DefaultParams()
	stability := 10.0
	difficulty := 5.0

	// S' = 10 * (1 + 0.2 * 5^(-0.5) * 10^0.1 * (e^(4 * (1-0.9)) - 1))
	// S' = 10 * (1 + 0.112 * 0.4918) = 10.55
	expected := 10.55

	newStability := params.nextStability(stability, difficulty)

	if math.Abs(newStability-expected) > 0.01 {
		t.Errorf("Expected new stability to be around %.2f, but got %.2f", expected, newStability)
	}
}

func TestReview(t *testing.T) {
	params := DefaultParams()
	now := time.Now()
	initial := CardState{
		Stability:  10,
		Difficulty: 5,
		Due:        now,
		LastReview: now.Add(-10 * 24 * time.Hour),
	}

	t.Run("low score resets stability", func(t *testing.T) {
		next := params.Review(initial, 0.2, now)
		if next.Stability != 1 {
			t.Errorf("Expected stability to be reset to 1, but got %.2f", next.Stability)
		}
		if next.Difficulty <= initial.Difficulty {
			t.Errorf("Expected difficulty to increase, but it did not. Got %.2f", next.Difficulty)
		}
		if !next.Due.Equal(now.Add(params.RelearnDelay)) {
			t.Errorf("Expected lapsed card to come back after %v, due at %v", params.RelearnDelay, next.Due)
		}
	})

	t.Run("high score grows stability", func(t *testing.T) {
		next := params.Review(initial, 1.0, now)
		if next.Stability <= initial.Stability {
			t.Errorf("Expected stability to increase, but it did not. Got %.2f", next.Stability)
		}
		if next.Difficulty != initial.Difficulty {
			t.Errorf("Expected difficulty to remain the same for an easy recall, but it changed to %.2f", next.Difficulty)
		}
		if !next.Due.After(now.Add(24 * time.Hour)) {
			t.Errorf("Expected at least a day before the next review, due at %v", next.Due)
		}
	})

	t.Run("effortful score bumps difficulty", func(t *testing.T) {
		next := params.Review(initial, 0.6, now)
		if next.Stability <= initial.Stability {
			t.Errorf("Expected stability to increase, but it did not. Got %.2f", next.Stability)
		}
		if next.Difficulty <= initial.Difficulty {
			t.Errorf("Expected difficulty to increase for an effortful recall. Got %.2f", next.Difficulty)
		}
	})

	t.Run("scores are clamped", func(t *testing.T) {
		next := params.Review(initial, 3.5, now)
		if next.Stability <= initial.Stability {
			t.Errorf("Expected an out-of-range score to clamp to 1.0 and grow stability, got %.2f", next.Stability)
		}
	})
}

func TestNewCardStateDueImmediately(t *testing.T) {
	now := time.Now()
	cs := NewCardState(now)
	if cs.Due.After(now) {
		t.Errorf("Expected a new card to be due immediately, due at %v", cs.Due)
	}
}
