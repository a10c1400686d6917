package deck

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/memorizer/internal/domain"
)

// Deck files are plain text. Each card is a block of "Q:", "A:" and "C:"
// prefixed sections; a section runs until the next prefix, a "---" separator
// or the next "Q:". Cards without a question are dropped.
const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	contextPrefix  = "C:"
	separator      = "---"
)

type field int

const (
	fieldNone field = iota
	fieldQuestion
	fieldAnswer
	fieldContext
)

type cardBuilder struct {
	card  domain.Card
	field field
	lines []string
}

func (b *cardBuilder) open(f field, first string) {
	b.closeField()
	b.field = f
	b.lines = append(b.lines, strings.TrimPrefix(first, " "))
}

func (b *cardBuilder) closeField() {
	if len(b.lines) == 0 {
		return
	}
	text := strings.Join(b.lines, "\n")
	switch b.field {
	case fieldQuestion:
		b.card.Question = text
	case fieldAnswer:
		b.card.Answer = text
	case fieldContext:
		b.card.Context = text
	}
	b.lines = nil
}

func (b *cardBuilder) finish() (domain.Card, bool) {
	b.closeField()
	card, ok := b.card, b.card.Question != ""
	*b = cardBuilder{}
	return card, ok
}

// ParseFile reads the deck file at path.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse extracts all cards from r. Every returned card carries its learnable
// id, the hash of its normalized content.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	var b cardBuilder

	emit := func() {
		if card, ok := b.finish(); ok {
			card.Learnable = Learnable(card)
			cards = append(cards, card)
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == separator:
			emit()
		case strings.HasPrefix(line, questionPrefix):
			if b.field != fieldNone {
				emit()
			}
			b.open(fieldQuestion, line[len(questionPrefix):])
		case strings.HasPrefix(line, answerPrefix):
			b.open(fieldAnswer, line[len(answerPrefix):])
		case strings.HasPrefix(line, contextPrefix):
			b.open(fieldContext, line[len(contextPrefix):])
		case b.field != fieldNone:
			b.lines = append(b.lines, line)
		}
	}
	emit()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
