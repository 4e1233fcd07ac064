package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	repo "github.com/djjoel12/talksellr/internal/repository"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugAttempts = 100

// 名前からURL用のスラッグを作る（"Café Été" -> "cafe-ete"）
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "shop"
	}
	return slug
}

// 使われていれば -1, -2 ... を付ける
func uniqueSlug(ctx context.Context, shops repo.ShopRepository, name string) (string, error) {
	base := Slugify(name)
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		exists, err := shops.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
