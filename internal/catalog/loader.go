package catalog

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"filmcatalog/pkg/database"
	"filmcatalog/pkg/models"
)

var (
	// ErrFixture marks a missing or unreadable seed file. Loading carries on
	// with an empty catalog.
	ErrFixture = errors.New("fixture unavailable")
	// ErrStore marks a failed write. It must abort startup.
	ErrStore = errors.New("store write failed")
)

// Summary describes one load.
type Summary struct {
	Records        int
	Malformed      int
	Films          int
	Comments       int
	CoercionMisses map[string]int
}

type Loader struct {
	Films     database.Collection
	Comments  database.Collection
	Extractor *Extractor
	Workers   int
	log       *zap.Logger
}

func NewLoader(store database.Store, workers int, logger *zap.Logger) *Loader {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Films:     store.Collection(database.FilmsCollection),
		Comments:  store.Collection(database.CommentsCollection),
		Extractor: NewExtractor(),
		Workers:   workers,
		log:       logger.Named("catalog"),
	}
}

// Reload empties both collections and seeds them again from the fixture.
func (l *Loader) Reload(ctx context.Context, fixturePath string) (Summary, error) {
	l.Reset(ctx)
	return l.Load(ctx, fixturePath)
}

// Reset deletes every film and comment. Failures are logged and otherwise
// ignored; a load after a failed reset may duplicate records.
func (l *Loader) Reset(ctx context.Context) (films, comments int64) {
	films, err := l.Films.DeleteMany(ctx)
	if err != nil {
		l.log.Error("reset films failed", zap.Error(err))
	}
	comments, err = l.Comments.DeleteMany(ctx)
	if err != nil {
		l.log.Error("reset comments failed", zap.Error(err))
	}
	l.log.Info("collections reset", zap.Int64("films", films), zap.Int64("comments", comments))
	return films, comments
}

// Load seeds the store from the fixture at path. A missing or corrupt fixture
// is logged and treated as empty; store failures are returned.
func (l *Loader) Load(ctx context.Context, path string) (Summary, error) {
	fx, err := ReadFixture(path)
	if err != nil {
		l.log.Warn("continuing with an empty catalog", zap.String("fixture", path), zap.Error(err))
		fx = Fixture{}
	}
	if fx.Malformed > 0 {
		l.log.Warn("fixture entries are not objects", zap.Int("count", fx.Malformed))
	}

	sum, err := l.LoadRecords(ctx, fx.Records)
	sum.Malformed = fx.Malformed
	return sum, err
}

// LoadRecords normalizes records concurrently, then writes each record's
// comments followed by one bulk insert of all films.
func (l *Loader) LoadRecords(ctx context.Context, records []models.RawFilm) (Summary, error) {
	sum := Summary{Records: len(records), CoercionMisses: map[string]int{}}

	drafts := make([]Draft, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.Workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			drafts[i] = Normalize(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}

	films := make([]any, 0, len(drafts))
	for i := range drafts {
		d := &drafts[i]
		for _, field := range d.Report.Misses() {
			sum.CoercionMisses[field]++
			l.log.Debug("field coercion missed", zap.String("title", d.Film.Title), zap.String("field", field))
		}

		ids, err := l.persistComments(ctx, d)
		if err != nil {
			return sum, err
		}
		sum.Comments += len(ids)

		film := d.Film
		film.ID = ""
		film.Comments = ids
		films = append(films, film)
	}

	if len(films) > 0 {
		ids, err := l.Films.InsertMany(ctx, films)
		if err != nil {
			return sum, fmt.Errorf("%w: films: %w", ErrStore, err)
		}
		sum.Films = len(ids)
	}

	l.log.Info("catalog loaded",
		zap.Int("records", sum.Records),
		zap.Int("films", sum.Films),
		zap.Int("comments", sum.Comments),
	)
	return sum, nil
}

func (l *Loader) persistComments(ctx context.Context, d *Draft) ([]string, error) {
	if len(d.RawComments) == 0 {
		return []string{}, nil
	}

	docs, err := l.Extractor.Extract(d.RawComments)
	if err != nil {
		return nil, fmt.Errorf("extract comments for %q: %w", d.Film.Title, err)
	}

	batch := make([]any, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	ids, err := l.Comments.InsertMany(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: comments for %q: %w", ErrStore, d.Film.Title, err)
	}
	return ids, nil
}
