// Package slug produces unique, URL-safe profile slugs.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	MinLength = 3
	MaxLength = 50
)

var (
	pattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	digits  = regexp.MustCompile(`^[0-9-]+$`)
	nonWord = regexp.MustCompile(`[^a-z0-9]+`)

	ErrExhausted = errors.New("slug: no free candidate found")
)

// Valid reports whether s is a well-formed slug.
func Valid(s string) bool {
	return len(s) >= MinLength && len(s) <= MaxLength && pattern.MatchString(s) && !digits.MatchString(s)
}

// Slugify lowercases s, strips diacritics and joins words with single hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := nonWord.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(out, "-")
}

// Reserver records slugs taken during a run.
type Reserver interface {
	// Reserve claims slug and reports whether it was free.
	Reserve(ctx context.Context, slug string) (bool, error)
}

// Generator turns names into reserved slugs, probing numeric suffixes on conflict.
type Generator struct {
	reserver    Reserver
	maxAttempts int
}

func NewGenerator(r Reserver) *Generator {
	return &Generator{reserver: r, maxAttempts: 100}
}

// Generate returns a valid slug derived from the name that no earlier call has returned.
func (g *Generator) Generate(ctx context.Context, firstName, lastName string) (string, error) {
	base := normalizeBase(Slugify(firstName + " " + lastName))

	for i := 1; i <= g.maxAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = withSuffix(base, fmt.Sprintf("%d", i))
		}
		ok, err := g.reserver.Reserve(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug: reserve %q: %w", candidate, err)
		}
		if ok {
			return candidate, nil
		}
	}

	candidate := withSuffix(base, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	ok, err := g.reserver.Reserve(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("slug: reserve %q: %w", candidate, err)
	}
	if !ok {
		return "", fmt.Errorf("%w for %q", ErrExhausted, base)
	}
	return candidate, nil
}

func normalizeBase(base string) string {
	if base == "" || digits.MatchString(base) {
		base = strings.Trim("user-"+base, "-")
	}
	if len(base) < MinLength {
		base = "user-" + base
	}
	if len(base) > MaxLength {
		base = strings.TrimRight(base[:MaxLength], "-")
	}
	return base
}

func withSuffix(base, suffix string) string {
	room := MaxLength - len(suffix) - 1
	if len(base) > room {
		base = strings.TrimRight(base[:room], "-")
	}
	return base + "-" + suffix
}
