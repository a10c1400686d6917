package domain

import "time"

// Question is a single prompt served by the scheduler. From is shown to the
// user, Transform describes what to do with it, and To holds the expected
// answer (never shown before the user has answered). Answer is filled in
// locally with whatever the user typed before the question is sent back.
type Question struct {
	From      string `json:"from"`
	Transform string `json:"transform"`
	To        string `json:"to"`
	Learnable string `json:"learnable"`
	Answer    string `json:"answer,omitempty"`
}

// Submission is the body of a scored-answer request. Score is the user's
// self-rating mapped onto [0, 1].
type Submission struct {
	Question Question `json:"question"`
	Score    float64  `json:"score"`
}

// Card is a question-answer-context entry parsed out of a deck file.
// Learnable is the content hash that identifies the card on the wire.
type Card struct {
	Question  string
	Answer    string
	Context   string
	Learnable string
}

// Record is one completed review, as stored by the scheduler backend.
type Record struct {
	User      string
	Deck      string
	Learnable string
	Prompt    string
	Expected  string
	Given     string
	Score     float64
	Time      time.Time
}
