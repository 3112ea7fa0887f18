// Package textgen provides the random text source for generated CSV cells.
package textgen

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jaswdr/faker"
)

// MinMaxChars is the smallest length limit Text accepts.
const MinMaxChars = 5

// maxAttempts bounds the retries when every drawn word is too long.
const maxAttempts = 100

// ErrMaxCharsTooSmall is returned when the length limit is below MinMaxChars.
var ErrMaxCharsTooSmall = errors.New("max chars must be at least 5")

// Faker builds short lorem texts from a seedable random source.
type Faker struct {
	f faker.Faker
}

// New returns a Faker drawing from src.
func New(src rand.Source) *Faker {
	return &Faker{f: faker.NewWithSeed(src)}
}

// NewSeeded returns a Faker whose output is fully determined by seed.
func NewSeeded(seed int64) *Faker {
	return New(rand.NewSource(seed))
}

// NewRandom returns a time-seeded Faker and the seed it used.
func NewRandom() (*Faker, int64) {
	seed := time.Now().UnixNano()
	return NewSeeded(seed), seed
}

// Text returns a sentence of lorem words no longer than maxChars runes,
// capitalized and terminated by a period.
//
// Words are drawn until the running length reaches maxChars, then the last
// one is dropped, so the remaining words plus the period always fit.
func (t *Faker) Text(maxChars int) (string, error) {
	if maxChars < MinMaxChars {
		return "", fmt.Errorf("%w: got %d", ErrMaxCharsTooSmall, maxChars)
	}

	for range maxAttempts {
		words := t.words(maxChars)
		if len(words) == 0 {
			continue
		}
		return sentence(words), nil
	}

	return "", fmt.Errorf("no lorem word fits in %d characters", maxChars)
}

func (t *Faker) words(maxChars int) []string {
	var words []string
	size := 0
	for size < maxChars {
		word := t.f.Lorem().Word()
		if word == "" {
			continue
		}
		if size > 0 {
			size++
		}
		size += utf8.RuneCountInString(word)
		words = append(words, word)
	}
	return words[:len(words)-1]
}

func sentence(words []string) string {
	s := strings.Join(words, " ")
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:] + "."
}
