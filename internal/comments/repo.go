package comments

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filmcatalog/pkg/database"
	"filmcatalog/pkg/models"
)

var ErrFilmNotFound = errors.New("film not found")

type Repo struct {
	Films    database.Collection
	Comments database.Collection
}

func NewRepo(store database.Store) *Repo {
	return &Repo{
		Films:    store.Collection(database.FilmsCollection),
		Comments: store.Collection(database.CommentsCollection),
	}
}

// ForFilm resolves the film's comment references in the order the film lists
// them. References with no matching document are skipped.
func (r *Repo) ForFilm(ctx context.Context, filmID string) ([]models.Comment, error) {
	var films []models.Document
	if err := r.Films.Find(ctx, database.FindOptions{IDs: []string{filmID}, Limit: 1}, &films); err != nil {
		return nil, fmt.Errorf("get film %s: %w", filmID, err)
	}
	if len(films) == 0 {
		return nil, ErrFilmNotFound
	}

	refs := commentRefs(films[0]["comments"])
	if len(refs) == 0 {
		return []models.Comment{}, nil
	}

	var found []models.Comment
	if err := r.Comments.Find(ctx, database.FindOptions{IDs: refs}, &found); err != nil {
		return nil, fmt.Errorf("comments for film %s: %w", filmID, err)
	}

	byID := make(map[string]models.Comment, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]models.Comment, 0, len(refs))
	for _, id := range refs {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// commentRefs reads the identity list off a stored film. Films added through
// the form may carry anything under "comments", so only strings count.
func commentRefs(v any) []string {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case primitive.A:
		items = t
	case []string:
		items = make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
	case string:
		items = []any{t}
	}

	refs := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			refs = append(refs, s)
		}
	}
	return refs
}
