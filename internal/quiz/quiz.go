// Package quiz builds question material for a review card.
package quiz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/vocabox/internal/model"
)

// Mode is how a card is answered.
type Mode string

const (
	ModeFlash Mode = "flash"
	ModeMCQ   Mode = "mcq"
	ModeType  Mode = "type"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeFlash, ModeMCQ, ModeType:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (expected flash, mcq, or type)", s)
}

// Direction selects which side of an item is the prompt.
type Direction string

const (
	LtToTl Direction = "lt2tl"
	TlToLt Direction = "tl2lt"
)

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case LtToTl, TlToLt:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q (expected lt2tl or tl2lt)", s)
}

// Prompt returns the side of item shown to the learner.
func (d Direction) Prompt(item model.VocabItem) string {
	if d == TlToLt {
		return item.TextB
	}
	return item.TextA
}

// Answer returns the side of item the learner has to recall.
func (d Direction) Answer(item model.VocabItem) string {
	if d == TlToLt {
		return item.TextA
	}
	return item.TextB
}

// ChoiceCount is the number of options in a multiple-choice card.
const ChoiceCount = 4

// Generator produces randomized answer choices.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator using rnd.
func NewWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Choices returns up to n shuffled options for item: its answer plus
// distinct distractors drawn without replacement from corpus.
func (g *Generator) Choices(item model.VocabItem, corpus []model.VocabItem, dir Direction, n int) []string {
	answer := dir.Answer(item)
	choices := []string{answer}
	candidates := make([]string, 0, len(corpus))
	for _, w := range corpus {
		if a := dir.Answer(w); a != answer {
			candidates = append(candidates, a)
		}
	}
	for len(choices) < n && len(candidates) > 0 {
		i := g.rnd.Intn(len(candidates))
		candidate := candidates[i]
		candidates[i] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
		if !contains(choices, candidate) {
			choices = append(choices, candidate)
		}
	}
	g.rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// Normalize trims and lowercases s for answer comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether guess equals answer after normalization.
func Matches(guess, answer string) bool {
	return Normalize(guess) == Normalize(answer)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
