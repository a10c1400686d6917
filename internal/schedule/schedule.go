package schedule

import (
	"math"
	"time"
)

// Params holds the parameters of the scheduling model. The stability growth
// formula follows FSRS; the grading is driven by the 0.0-1.0 recall scores
// this system submits instead of discrete ratings.
type Params struct {
	A                float64 // scales the overall memory increase
	B                float64 // difficulty exponent
	C                float64 // stability exponent
	D                float64 // retention effect scaler
	DesiredRetention float64 // desired retention rate (e.g., 0.9 for 90%)

	// LapseThreshold is the score below which a review counts as forgotten.
	// On the six-step scale it cuts between "familiar" (0.2) and "ah yes" (0.4).
	LapseThreshold float64

	// RelearnDelay is how soon a lapsed card is asked again, so it comes
	// back within the same session.
	RelearnDelay time.Duration
}

// DefaultParams provides a sensible starting point.
func DefaultParams() *Params {
	return &Params{
		A:                0.2,
		B:                0.5,
		C:                0.1,
		D:                4.0,
		DesiredRetention: 0.9,
		LapseThreshold:   0.4,
		RelearnDelay:     time.Minute,
	}
}

// CardState holds the memory state of a card.
type CardState struct {
	Stability  float64
	Difficulty float64
	Due        time.Time
	LastReview time.Time
}

// NewCardState is the state of a never-reviewed card: due immediately.
func NewCardState(now time.Time) CardState {
	return CardState{Due: now}
}

// Review folds a submitted score into the card state and schedules the next
// due time. Scores are clamped to [0, 1].
func (p *Params) Review(cs CardState, score float64, now time.Time) CardState {
	score = math.Max(0, math.Min(1, score))

	if score < p.LapseThreshold {
		// Forgotten: reset stability and bring the card back shortly.
		return CardState{
			Stability:  1,
			Difficulty: math.Min(10, cs.Difficulty+0.5),
			Due:        now.Add(p.RelearnDelay),
			LastReview: now,
		}
	}

	newStability := p.nextStability(cs.Stability, cs.Difficulty)
	newDifficulty := cs.Difficulty
	if score < 0.7 {
		// Recalled with effort: the card is harder than its record suggests.
		newDifficulty = math.Min(10, newDifficulty+0.1)
	}

	return CardState{
		Stability:  newStability,
		Difficulty: newDifficulty,
		Due:        now.Add(interval(newStability)),
		LastReview: now,
	}
}

// nextStability applies the growth formula for a remembered card.
// S' = S * (1 + a * D^(-b) * S^c * (e^(d * (1-R)) - 1))
func (p *Params) nextStability(stability, difficulty float64) float64 {
	if stability < 1 {
		stability = 1
	}
	if difficulty < 1 {
		difficulty = 1
	}

	factor := p.A * math.Pow(difficulty, -p.B) * math.Pow(stability, p.C)
	multiplier := math.Exp(p.D*(1-p.DesiredRetention)) - 1

	return stability * (1 + factor*multiplier)
}

// interval converts a stability in days to the wait before the next review.
func interval(stability float64) time.Duration {
	days := time.Duration(math.Round(stability))
	return days * 24 * time.Hour
}
