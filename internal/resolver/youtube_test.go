package resolver

import (
	"errors"
	"net/http"
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"

	"github.com/edulingo/backend/internal/apperr"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=abc123", true},
		{"watch url no www", "https://youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", true},
		{"shorts", "https://www.youtube.com/shorts/abc123", true},
		{"embed", "https://www.youtube.com/embed/abc123", true},
		{"http scheme", "http://www.youtube.com/watch?v=abc123", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"not a url", "abc123", false},
		{"wrong host", "https://vimeo.com/12345", false},
		{"youtube without video", "https://www.youtube.com/feed/subscriptions", false},
		{"bare short link", "https://youtu.be/", false},
		{"ftp scheme", "ftp://youtube.com/watch?v=abc123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "want validation error, got %v", err)
		})
	}
}

func TestClassify(t *testing.T) {
	rateLimited := classify(youtube.ErrUnexpectedStatusCode(http.StatusTooManyRequests))
	assert.True(t, apperr.IsKind(rateLimited, apperr.KindRateLimited))
	assert.Contains(t, rateLimited.Error(), "rate limit")

	notFound := classify(youtube.ErrUnexpectedStatusCode(http.StatusNotFound))
	assert.True(t, apperr.IsKind(notFound, apperr.KindInternal))

	plain := classify(errors.New("connection reset"))
	assert.True(t, apperr.IsKind(plain, apperr.KindInternal))
	assert.Contains(t, plain.Error(), "resolve youtube video")
}
