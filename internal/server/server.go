// Package server implements the scheduler backend the trainer talks to,
// serving the question/answer API from the card store.
package server

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/conorfennell/memorizer/internal/config"
	"github.com/conorfennell/memorizer/internal/deck"
	"github.com/conorfennell/memorizer/internal/domain"
	"github.com/conorfennell/memorizer/internal/schedule"
	"github.com/conorfennell/memorizer/internal/storage"
)

// Server holds the dependencies for the HTTP API.
type Server struct {
	db     *storage.DB
	router *http.ServeMux
	params *schedule.Params
	users  []string
	decks  map[string][]string // user -> deck names, in config order
	now    func() time.Time
}

// New creates and configures a new server over the given store and the
// user/deck listing from the config.
func New(db *storage.DB, cfg *config.Server) *Server {
	s := &Server{
		db:     db,
		router: http.NewServeMux(),
		params: schedule.DefaultParams(),
		decks:  make(map[string][]string),
		now:    time.Now,
	}
	for _, u := range cfg.Users {
		s.users = append(s.users, u.Name)
		names := make([]string, 0, len(u.Decks))
		for _, d := range u.Decks {
			names = append(names, d.Name)
		}
		s.decks[u.Name] = names
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/api/users", s.handleUsers())
	s.router.HandleFunc("/api/deck/", s.handleDecks())
	s.router.HandleFunc("/api/question/", s.handleQuestion())
	s.router.HandleFunc("/api/submit_answer/", s.handleSubmitAnswer())
}

// handleUsers lists every configured user.
func (s *Server) handleUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string][]string{"users": append([]string{}, s.users...)})
	}
}

// handleDecks lists the deck names for one user. Unknown users get an empty
// list, matching the deck selector's expectations.
func (s *Server) handleDecks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimPrefix(r.URL.Path, "/api/deck/")
		decks := s.decks[user]
		if decks == nil {
			decks = []string{}
		}
		writeJSON(w, map[string][]string{"decks": decks})
	}
}

// handleQuestion serves the next due question for (user, deck), or a JSON
// null when nothing is due.
func (s *Server) handleQuestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, deckName, ok := splitUserDeck(r.URL.Path, "/api/question/")
		if !ok || !s.knownDeck(user, deckName) {
			http.NotFound(w, r)
			return
		}

		card, err := s.db.NextDue(user, deckName, s.now())
		if err != nil {
			slog.Error("failed to pick next due card", "user", user, "deck", deckName, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if card == nil {
			writeJSON(w, nil)
			return
		}
		writeJSON(w, deck.Question(card.Card))
	}
}

// handleSubmitAnswer records a scored answer and reschedules the card.
func (s *Server) handleSubmitAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		user, deckName, ok := splitUserDeck(r.URL.Path, "/api/submit_answer/")
		if !ok || !s.knownDeck(user, deckName) {
			http.NotFound(w, r)
			return
		}

		var sub domain.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "Invalid submission", http.StatusBadRequest)
			return
		}

		card, err := s.db.FindCard(user, deckName, sub.Question.Learnable)
		if err != nil {
			slog.Error("failed to look up card", "learnable", sub.Question.Learnable, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if card == nil {
			http.NotFound(w, r)
			return
		}

		now := s.now()
		score := math.Max(0, math.Min(1, sub.Score))
		next := s.params.Review(card.State(), score, now)
		if err := s.db.UpdateCardState(user, deckName, card.Card.Learnable, next); err != nil {
			slog.Error("failed to update card state", "learnable", card.Card.Learnable, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		record := domain.Record{
			User:      user,
			Deck:      deckName,
			Learnable: card.Card.Learnable,
			Prompt:    card.Card.Question,
			Expected:  card.Card.Answer,
			Given:     sub.Question.Answer,
			Score:     score,
			Time:      now,
		}
		if err := s.db.InsertRecord(record); err != nil {
			slog.Error("failed to insert record", "learnable", card.Card.Learnable, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]string{"response": "stored"})
	}
}

func (s *Server) knownDeck(user, deckName string) bool {
	for _, d := range s.decks[user] {
		if d == deckName {
			return true
		}
	}
	return false
}

func splitUserDeck(path, prefix string) (user, deckName string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
