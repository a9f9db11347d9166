package films

import (
	"context"
	"fmt"

	"filmcatalog/pkg/database"
	"filmcatalog/pkg/models"
)

const defaultPageSize = 10

type Repo struct {
	Films    database.Collection
	PageSize int
	Cache    *PageCache
}

func NewRepo(store database.Store, pageSize int, cache *PageCache) *Repo {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Repo{
		Films:    store.Collection(database.FilmsCollection),
		PageSize: pageSize,
		Cache:    cache,
	}
}

// Page returns the 1-based page of films in insertion order. A page past the
// end is empty, never nil.
func (r *Repo) Page(ctx context.Context, page int) ([]models.Document, error) {
	if page < 1 {
		page = 1
	}
	key, cacheable := r.Cache.Key(ctx, page, r.PageSize)
	if cacheable {
		if docs, ok := r.Cache.Get(ctx, key); ok {
			return docs, nil
		}
	}

	docs := make([]models.Document, 0, r.PageSize)
	err := r.Films.Find(ctx, database.FindOptions{
		Skip:  int64(page-1) * int64(r.PageSize),
		Limit: int64(r.PageSize),
	}, &docs)
	if err != nil {
		return nil, fmt.Errorf("list films page %d: %w", page, err)
	}
	if docs == nil {
		docs = []models.Document{}
	}

	if cacheable {
		r.Cache.Set(ctx, key, docs)
	}
	return docs, nil
}

// GetByID returns nil, nil when no film has that identity.
func (r *Repo) GetByID(ctx context.Context, id string) (models.Document, error) {
	var docs []models.Document
	if err := r.Films.Find(ctx, database.FindOptions{IDs: []string{id}, Limit: 1}, &docs); err != nil {
		return nil, fmt.Errorf("get film %s: %w", id, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// Insert stores doc exactly as given, apart from any client supplied
// identity. It does not run the catalog normalizer.
func (r *Repo) Insert(ctx context.Context, doc models.Document) (string, error) {
	delete(doc, "_id")
	ids, err := r.Films.InsertMany(ctx, []any{doc})
	if err != nil {
		return "", fmt.Errorf("insert film: %w", err)
	}
	if len(ids) != 1 {
		return "", fmt.Errorf("insert film: store returned %d ids", len(ids))
	}

	r.Cache.Invalidate(ctx)
	return ids[0], nil
}
