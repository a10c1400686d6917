package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/conorfennell/memorizer/internal/domain"
)

// Client talks to the scheduler backend over JSON/HTTP.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for the scheduler at base, e.g.
// "http://localhost:8080".
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Users lists all known users.
func (c *Client) Users(ctx context.Context) ([]string, error) {
	var resp struct {
		Users []string `json:"users"`
	}
	if err := c.getJSON(ctx, "/api/users", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// Decks lists the deck names belonging to user.
func (c *Client) Decks(ctx context.Context, user string) ([]string, error) {
	var resp struct {
		Decks []string `json:"decks"`
	}
	if err := c.getJSON(ctx, "/api/deck/"+url.PathEscape(user), &resp); err != nil {
		return nil, err
	}
	return resp.Decks, nil
}

// NextQuestion asks the scheduler for the next question in deck. A nil
// question with a nil error means the deck is exhausted.
func (c *Client) NextQuestion(ctx context.Context, user, deck string) (*domain.Question, error) {
	path := fmt.Sprintf("/api/question/%s/%s", url.PathEscape(user), url.PathEscape(deck))
	var q *domain.Question
	if err := c.getJSON(ctx, path, &q); err != nil {
		return nil, err
	}
	return q, nil
}

// SubmitAnswer posts a scored answer for deck.
func (c *Client) SubmitAnswer(ctx context.Context, user, deck string, sub domain.Submission) error {
	path := fmt.Sprintf("/api/submit_answer/%s/%s", url.PathEscape(user), url.PathEscape(deck))

	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit answer: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(msg))
}
