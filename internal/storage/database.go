package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/conorfennell/memorizer/internal/domain"
	"github.com/conorfennell/memorizer/internal/schedule"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Card is a stored card together with its scheduling state.
type Card struct {
	User       string
	Deck       string
	Card       domain.Card
	Stability  float64
	Difficulty float64
	Due        time.Time
	LastReview sql.NullTime
}

// State converts the stored columns into a scheduler card state.
func (c *Card) State() schedule.CardState {
	return schedule.CardState{
		Stability:  c.Stability,
		Difficulty: c.Difficulty,
		Due:        c.Due,
		LastReview: c.LastReview.Time,
	}
}

// UpsertCard inserts a card for (user, deck) if it isn't stored yet. Existing
// cards keep their scheduling state; new cards are due immediately.
func (db *DB) UpsertCard(user, deck string, card domain.Card, now time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO cards (user, deck, learnable, question, answer, context, due)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user, deck, learnable) DO NOTHING
	`,
		user,
		deck,
		card.Learnable,
		card.Question,
		card.Answer,
		card.Context,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert card %s: %w", card.Learnable, err)
	}
	return nil
}

// FindCard retrieves a single card by its learnable id, or nil when absent.
func (db *DB) FindCard(user, deck, learnable string) (*Card, error) {
	row := db.conn.QueryRow(`
		SELECT user, deck, learnable, question, answer, context, stability, difficulty, due, last_review
		FROM cards WHERE user = ? AND deck = ? AND learnable = ?
	`, user, deck, learnable)
	return scanCard(row)
}

// NextDue returns the earliest card at or past its due time, or nil when the
// deck is exhausted for now.
func (db *DB) NextDue(user, deck string, now time.Time) (*Card, error) {
	row := db.conn.QueryRow(`
		SELECT user, deck, learnable, question, answer, context, stability, difficulty, due, last_review
		FROM cards WHERE user = ? AND deck = ? AND due <= ?
		ORDER BY due ASC LIMIT 1
	`, user, deck, now)
	return scanCard(row)
}

func scanCard(row *sql.Row) (*Card, error) {
	var c Card
	err := row.Scan(
		&c.User,
		&c.Deck,
		&c.Card.Learnable,
		&c.Card.Question,
		&c.Card.Answer,
		&c.Card.Context,
		&c.Stability,
		&c.Difficulty,
		&c.Due,
		&c.LastReview,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}
	return &c, nil
}

// UpdateCardState writes back a card's scheduling state after a review.
func (db *DB) UpdateCardState(user, deck, learnable string, cs schedule.CardState) error {
	_, err := db.conn.Exec(`
		UPDATE cards
		SET stability = ?, difficulty = ?, due = ?, last_review = ?
		WHERE user = ? AND deck = ? AND learnable = ?
	`,
		cs.Stability,
		cs.Difficulty,
		cs.Due,
		sql.NullTime{Time: cs.LastReview, Valid: !cs.LastReview.IsZero()},
		user,
		deck,
		learnable,
	)
	if err != nil {
		return fmt.Errorf("failed to update card state for %s: %w", learnable, err)
	}
	return nil
}

// Learnables lists the ids of all cards stored for (user, deck).
func (db *DB) Learnables(user, deck string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT learnable FROM cards WHERE user = ? AND deck = ?
	`, user, deck)
	if err != nil {
		return nil, fmt.Errorf("failed to list learnables: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan learnable row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteCard removes a card that disappeared from its deck source.
func (db *DB) DeleteCard(user, deck, learnable string) error {
	_, err := db.conn.Exec(`
		DELETE FROM cards WHERE user = ? AND deck = ? AND learnable = ?
	`, user, deck, learnable)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", learnable, err)
	}
	return nil
}

// InsertRecord appends a completed review to the log.
func (db *DB) InsertRecord(r domain.Record) error {
	_, err := db.conn.Exec(`
		INSERT INTO records (user, deck, learnable, prompt, expected, given, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.User,
		r.Deck,
		r.Learnable,
		r.Prompt,
		r.Expected,
		r.Given,
		r.Score,
		r.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record for %s: %w", r.Learnable, err)
	}
	return nil
}

// Records returns the review log for (user, deck), oldest first.
func (db *DB) Records(user, deck string) ([]domain.Record, error) {
	rows, err := db.conn.Query(`
		SELECT user, deck, learnable, prompt, expected, given, score, created_at
		FROM records WHERE user = ? AND deck = ?
		ORDER BY id ASC
	`, user, deck)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(&r.User, &r.Deck, &r.Learnable, &r.Prompt, &r.Expected, &r.Given, &r.Score, &r.Time); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
