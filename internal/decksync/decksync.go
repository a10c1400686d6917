// Package decksync reconciles configured deck sources into the card store.
// Cards present in a source are upserted (keeping their scheduling state),
// cards that disappeared from it are deleted.
package decksync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/memorizer/internal/config"
	"github.com/conorfennell/memorizer/internal/deck"
	"github.com/conorfennell/memorizer/internal/domain"
	"github.com/conorfennell/memorizer/internal/gitsource"
	"github.com/conorfennell/memorizer/internal/storage"
)

// Run reconciles every deck of every configured user. Per-deck failures are
// logged and skipped so one broken source doesn't block the rest.
func Run(db *storage.DB, cfg *config.Server) {
	slog.Info("starting sync for all deck sources")
	for _, user := range cfg.Users {
		for _, ref := range user.Decks {
			if err := SyncDeck(db, user.Name, ref, cfg.ReposDir); err != nil {
				slog.Error("failed to sync deck", "user", user.Name, "deck", ref.Name, "error", err)
			}
		}
	}
	slog.Info("sync complete")
}

// SyncDeck reconciles one deck source for one user.
func SyncDeck(db *storage.DB, user string, ref config.DeckRef, reposDir string) error {
	path := ref.Path
	if gitsource.IsGitURL(path) {
		if err := os.MkdirAll(reposDir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create repos directory: %w", err)
		}
		local, err := gitsource.Mirror(reposDir, path)
		if err != nil {
			return err
		}
		path = local
	}

	cards, err := collectCards(path)
	if err != nil {
		return err
	}

	now := time.Now()
	found := make(map[string]bool, len(cards))
	for _, card := range cards {
		found[card.Learnable] = true
		if err := db.UpsertCard(user, ref.Name, card, now); err != nil {
			return err
		}
	}

	stored, err := db.Learnables(user, ref.Name)
	if err != nil {
		return err
	}
	var orphaned int
	for _, id := range stored {
		if !found[id] {
			orphaned++
			if err := db.DeleteCard(user, ref.Name, id); err != nil {
				slog.Warn("failed to delete orphaned card", "learnable", id, "error", err)
			}
		}
	}

	slog.Info("deck reconciled",
		"user", user,
		"deck", ref.Name,
		"cards", len(cards),
		"orphaned_deleted", orphaned,
	)
	return nil
}

// collectCards parses a single deck file, or every deck file under a
// directory.
func collectCards(path string) ([]domain.Card, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat deck source %s: %w", path, err)
	}

	if !info.IsDir() {
		return deck.ParseFile(path)
	}

	var cards []domain.Card
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDeckFile(d.Name()) {
			return nil
		}
		fileCards, err := deck.ParseFile(p)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}
		cards = append(cards, fileCards...)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return cards, nil
}

func isDeckFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".txt")
}
