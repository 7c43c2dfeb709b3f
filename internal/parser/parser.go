package parser

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/maurya-sachin/prepdeck/internal/domain"
)

const (
	questionMarker   = "**Q:**"
	answerMarker     = "**A:**"
	difficultyMarker = "**Difficulty:**"
)

// cardHeading matches a card-introducing heading such as
// "## Card 12: Closures" or "### Card: Event Loop".
var cardHeading = regexp.MustCompile(`^#{2,3}\s+Card\s*(\d*)\s*:\s*(.*)$`)

// anyHeading matches any markdown heading line.
var anyHeading = regexp.MustCompile(`^#{1,6}\s`)

type state int

const (
	seeking state = iota
	inCard // heading seen, waiting for a Q/A marker
	readingQuestion
	readingAnswer
)

// ParseFile reads a deck file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.FlashCard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads markdown from r and extracts all flashcards in document
// order. A card block is a "## Card N: Title" heading followed by
// "**Q:**" and "**A:**" sections and an optional "**Difficulty:**" line.
// Blocks missing a question or an answer are skipped. Other bold
// metadata lines ("**Tags:**", frequency markers) terminate the current
// section without being folded into it.
func Parse(r io.Reader) ([]domain.FlashCard, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cards []domain.FlashCard
	var current domain.FlashCard
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch currentState {
		case readingQuestion:
			current.Question = content
		case readingAnswer:
			current.Answer = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Question != "" && current.Answer != "" {
			if current.Number == 0 {
				current.Number = len(cards) + 1
			}
			cards = append(cards, current)
		}
		current = domain.FlashCard{}
		currentState = seeking
	}

	startSection := func(s state, rest string) {
		flushBlock()
		currentState = s
		if rest = strings.TrimPrefix(rest, " "); rest != "" {
			block = append(block, rest)
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" {
			finishCard()
			continue
		}

		if m := cardHeading.FindStringSubmatch(trimmed); m != nil {
			if currentState != seeking {
				finishCard()
			}
			currentState = inCard
			current.Title = strings.TrimSpace(m[2])
			if n, err := strconv.Atoi(m[1]); err == nil {
				current.Number = n
			}
			continue
		}
		if anyHeading.MatchString(trimmed) {
			// Any other heading ends the card in progress.
			finishCard()
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, questionMarker):
			if currentState == readingQuestion || currentState == readingAnswer {
				// A new question without a heading starts a new card.
				finishCard()
			}
			startSection(readingQuestion, trimmed[len(questionMarker):])
		case strings.HasPrefix(trimmed, answerMarker):
			startSection(readingAnswer, trimmed[len(answerMarker):])
		case strings.HasPrefix(trimmed, difficultyMarker):
			flushBlock()
			if currentState != seeking {
				current.Difficulty = cleanDifficulty(trimmed[len(difficultyMarker):])
				currentState = inCard
			}
		case strings.HasPrefix(trimmed, "**") && strings.Contains(trimmed, ":**"):
			// Metadata line (tags, frequency, sources). Ends the current
			// section so its text is not misread as question or answer.
			flushBlock()
			if currentState != seeking {
				currentState = inCard
			}
		default:
			if currentState == readingQuestion || currentState == readingAnswer {
				block = append(block, line)
			}
		}
	}

	finishCard() // the last card has no trailing delimiter

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// cleanDifficulty strips the traffic-light emoji the content files put in
// front of the label, leaving the bare text (e.g. "Medium").
func cleanDifficulty(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"🟢", "🟡", "🔴"} {
		s = strings.TrimPrefix(s, marker)
	}
	return strings.TrimSpace(s)
}
