package deck

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/memorizer/internal/domain"
)

// Normalize flattens a card's content into a canonical form so that
// whitespace, casing and line-ending differences don't change its identity.
func Normalize(card domain.Card) string {
	clean := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		return strings.ReplaceAll(p, "\r\n", "\n")
	}
	// Joined with newlines so adjacent fields can't run together.
	return strings.Join([]string{clean(card.Question), clean(card.Answer), clean(card.Context)}, "\n")
}

// Learnable returns the card's identity on the wire: the SHA-256 of its
// normalized content, hex encoded.
func Learnable(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}

// Question converts a card to its wire shape. The context block, when
// present, doubles as the transform hint shown under the prompt.
func Question(card domain.Card) domain.Question {
	return domain.Question{
		From:      card.Question,
		Transform: card.Context,
		To:        card.Answer,
		Learnable: card.Learnable,
	}
}
