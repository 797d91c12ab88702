package middleware

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"
)

type contextKey string

// AuthorKey is the context key for the acting author's name.
const AuthorKey contextKey = "author"

// maxAuthorLen bounds, in runes, what a client can stamp onto a training version.
const maxAuthorLen = 128

// AuthorExtractor records who is making a change. It reads the X-Author
// header, then the author query parameter. Training versions created by the
// request default to this author.
func AuthorExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		author := strings.TrimSpace(r.Header.Get("X-Author"))
		if author == "" {
			author = strings.TrimSpace(r.URL.Query().Get("author"))
		}
		author = truncateRunes(author, maxAuthorLen)
		if author == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthor(r.Context(), author)))
	})
}

// WithAuthor returns a copy of ctx carrying author.
func WithAuthor(ctx context.Context, author string) context.Context {
	return context.WithValue(ctx, AuthorKey, author)
}

// GetAuthor retrieves the author from the request context, or "".
func GetAuthor(ctx context.Context) string {
	if v, ok := ctx.Value(AuthorKey).(string); ok {
		return v
	}
	return ""
}

// truncateRunes cuts s to at most n runes, never inside a multi-byte rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
