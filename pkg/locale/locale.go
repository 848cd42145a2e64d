// Package locale negotiates the storefront locale of a request.
package locale

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type ctxKey struct{}

// Resolver matches Accept-Language headers against the storefront's supported locales.
type Resolver struct {
	supported []language.Tag
	matcher   language.Matcher
}

// NewResolver builds a resolver whose first choice is defaultLocale.
func NewResolver(defaultLocale string, supported []string) (*Resolver, error) {
	def, err := language.Parse(strings.TrimSpace(defaultLocale))
	if err != nil {
		return nil, fmt.Errorf("default locale %q: %w", defaultLocale, err)
	}
	tags := []language.Tag{def}
	for _, raw := range supported {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("supported locale %q: %w", raw, err)
		}
		if tag != def {
			tags = append(tags, tag)
		}
	}
	return &Resolver{supported: tags, matcher: language.NewMatcher(tags)}, nil
}

// Default returns the fallback locale.
func (r *Resolver) Default() language.Tag {
	return r.supported[0]
}

// Resolve picks the best supported locale for an Accept-Language header value.
func (r *Resolver) Resolve(acceptLanguage string) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return r.Default()
	}
	wanted, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(wanted) == 0 {
		return r.Default()
	}
	_, index, confidence := r.matcher.Match(wanted...)
	if confidence == language.No {
		return r.Default()
	}
	return r.supported[index]
}

func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the request locale, or language.Und when none was negotiated.
func FromContext(ctx context.Context) language.Tag {
	if ctx == nil {
		return language.Und
	}
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return language.Und
}

// Language returns the lowercase base language of tag ("fr" for fr-CA), or "" for Und.
func Language(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	base, _ := tag.Base()
	return strings.ToLower(base.String())
}
