package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	maxSlugRunes    = 120
	maxSlugAttempts = 50
)

// slugify lower-cases s and joins its letter and digit runs with dashes.
// Hangul and other letters are kept as-is.
func slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	n := 0
	for _, r := range strings.ToLower(s) {
		if n >= maxSlugRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash {
				b.WriteByte('-')
				n++
				pendingDash = false
			}
			b.WriteRune(r)
			n++
			continue
		}
		if b.Len() > 0 {
			pendingDash = true
		}
	}
	return b.String()
}

// uniqueSlug appends -2, -3, ... to base until exists reports a free slug.
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	if base == "" {
		base = "ad"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + uuid.NewString()[:8], nil
}
