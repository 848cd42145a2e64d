package wishlist

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/angelmondragon/storefront-wishlist/pkg/locale"
)

// SharedURLBuilder renders the public, locale-aware address of a shared wishlist.
type SharedURLBuilder struct {
	base     *url.URL
	fallback language.Tag
}

// NewSharedURLBuilder accepts an absolute base URL, or "" for relative links.
// fallback is used for requests without a negotiated locale.
func NewSharedURLBuilder(baseURL string, fallback language.Tag) (SharedURLBuilder, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return SharedURLBuilder{fallback: fallback}, nil
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return SharedURLBuilder{}, fmt.Errorf("public base url %q must be absolute", baseURL)
	}
	return SharedURLBuilder{base: base, fallback: fallback}, nil
}

// Build returns {base}/{language}/wishlist/shared/{code}.
func (b SharedURLBuilder) Build(tag language.Tag, code string) string {
	lang := locale.Language(tag)
	if lang == "" {
		lang = locale.Language(b.fallback)
	}
	segments := make([]string, 0, 4)
	if lang != "" {
		segments = append(segments, lang)
	}
	segments = append(segments, "wishlist", "shared", code)
	if b.base == nil {
		return (&url.URL{Path: "/"}).JoinPath(segments...).String()
	}
	return b.base.JoinPath(segments...).String()
}
