package database

import (
	"context"
	"errors"
	"fmt"
)

const (
	FilmsCollection    = "films"
	CommentsCollection = "comments"
)

var ErrUnknownDriver = errors.New("unknown database driver")

type Config struct {
	Driver     string // "mongo" or "sqlite"
	MongoURI   string
	MongoDB    string
	SQLitePath string
}

// FindOptions narrows a Find call. Zero values mean no filter, no skip and no
// limit. Results always come back in insertion order.
type FindOptions struct {
	IDs   []string
	Skip  int64
	Limit int64
}

// Collection is the slice of a document store the catalog relies on.
type Collection interface {
	// InsertMany writes docs in one round trip and returns their identities
	// in input order. Documents without an identity get one from the store.
	InsertMany(ctx context.Context, docs []any) ([]string, error)
	// DeleteMany removes every document in the collection.
	DeleteMany(ctx context.Context) (int64, error)
	// Find decodes matching documents into out, a pointer to a slice.
	Find(ctx context.Context, opts FindOptions, out any) error
	Count(ctx context.Context) (int64, error)
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "mongo", "mongodb":
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	case "sqlite", "sqlite3":
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
