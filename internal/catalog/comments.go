package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"filmcatalog/pkg/models"
)

const (
	minCommentRating = 1
	maxCommentRating = 10
)

// Extractor turns embedded comment entries into comment documents. Identity
// and creation time are bound at extraction.
type Extractor struct {
	Now   func() time.Time
	NewID func() (string, error)
}

func NewExtractor() *Extractor {
	return &Extractor{
		Now: func() time.Time { return time.Now().UTC() },
		NewID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
}

// Extract produces one document per entry, in order. Object entries are read
// through the comment aliases, a bare string becomes the description, and any
// other entry yields an empty comment. Entries are never modified.
func (e *Extractor) Extract(entries []any) ([]models.Comment, error) {
	out := make([]models.Comment, 0, len(entries))
	for i, entry := range entries {
		id, err := e.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate comment id %d: %w", i, err)
		}

		c := models.Comment{ID: id, CreatedAt: e.Now()}
		switch t := entry.(type) {
		case map[string]any:
			c.UserName = commentText(t, "userName")
			c.Description = commentText(t, "description")
			c.Rating = ParseCommentRating(lookup(t, commentFields, "rating")).Value
		case string:
			c.Description = t
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseCommentRating reads an integer rating in [1,10]. Anything else,
// including out of range numbers, defaults to 0.
func ParseCommentRating(v any, present bool) Coerced[int] {
	r := coerceLeadingInt(v, present)
	if !r.Ok() {
		return Coerced[int]{Outcome: r.Outcome}
	}
	if r.Value < minCommentRating || r.Value > maxCommentRating {
		return Coerced[int]{Outcome: OutcomeDefaulted}
	}
	return r
}

func commentText(raw map[string]any, canonical string) string {
	v, ok := lookup(raw, commentFields, canonical)
	if !ok {
		return ""
	}
	s, _ := toText(v)
	return s
}
