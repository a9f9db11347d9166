package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmcatalog/pkg/database"
	"filmcatalog/pkg/models"
)

const duneFixture = `[{"Title":"Dune","description":"D","Realase_year":"2021",
	"Comentary":[{"User_name":"A","description":"Great","Rating":"9"}]}]`

func newTestLoader(t *testing.T) (*Loader, database.Store) {
	t.Helper()
	store, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return NewLoader(store, 2, nil), store
}

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "films.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDuneScenario(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLoader(t)

	sum, err := l.Reload(ctx, writeFixture(t, duneFixture))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Films)
	assert.Equal(t, 1, sum.Comments)

	var comments []models.Comment
	require.NoError(t, l.Comments.Find(ctx, database.FindOptions{}, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, 9, comments[0].Rating)
	assert.Equal(t, "A", comments[0].UserName)

	var films []models.Film
	require.NoError(t, l.Films.Find(ctx, database.FindOptions{}, &films))
	require.Len(t, films, 1)
	f := films[0]
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "Dune", f.Title)
	require.NotNil(t, f.ReleaseYear)
	assert.Equal(t, 2021, *f.ReleaseYear)
	assert.Equal(t, []string{comments[0].ID}, f.Comments)
	assert.Nil(t, f.DirectorImagePath)
}

func TestEveryCommentReferenceResolves(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLoader(t)

	fixture := `[
		{"title": "One", "comments": [{"userName": "a"}, {"userName": "b"}, {"userName": "c"}]},
		{"title": "Two"},
		{"Title": "Three", "Comentary": [{"User_name": "d", "Rating": "2"}]}
	]`
	_, err := l.Reload(ctx, writeFixture(t, fixture))
	require.NoError(t, err)

	var films []models.Film
	require.NoError(t, l.Films.Find(ctx, database.FindOptions{}, &films))
	require.Len(t, films, 3)

	wantCounts := map[string]int{"One": 3, "Two": 0, "Three": 1}
	for _, f := range films {
		assert.Len(t, f.Comments, wantCounts[f.Title], f.Title)
		if len(f.Comments) == 0 {
			continue
		}
		var found []models.Comment
		require.NoError(t, l.Comments.Find(ctx, database.FindOptions{IDs: f.Comments}, &found))
		assert.Len(t, found, len(f.Comments), f.Title)
	}

	assert.Equal(t, []string{"One", "Two", "Three"}, []string{films[0].Title, films[1].Title, films[2].Title})
}

func TestLoadEmptyFixture(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLoader(t)

	sum, err := l.Reload(ctx, writeFixture(t, `[]`))
	require.NoError(t, err)
	assert.Zero(t, sum.Films)

	assertEmpty(t, l)
}

func TestLoadMissingOrCorruptFixtureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLoader(t)

	_, err := l.Reload(ctx, filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assertEmpty(t, l)

	_, err = l.Reload(ctx, writeFixture(t, `{"not": "an array"`))
	require.NoError(t, err)
	assertEmpty(t, l)
}

func TestReloadReplacesPreviousData(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLoader(t)
	path := writeFixture(t, duneFixture)

	_, err := l.Reload(ctx, path)
	require.NoError(t, err)
	_, err = l.Reload(ctx, path)
	require.NoError(t, err)

	films, err := l.Films.Count(ctx)
	require.NoError(t, err)
	comments, err := l.Comments.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, films)
	assert.EqualValues(t, 1, comments)
}

func TestMalformedEntriesStillYieldFilms(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLoader(t)

	sum, err := l.Reload(ctx, writeFixture(t, `[{"title": "ok"}, 7, "x"]`))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Malformed)
	assert.Equal(t, 3, sum.Films)
}

func TestCoercionMissesAreCounted(t *testing.T) {
	l, _ := newTestLoader(t)
	fx, err := DecodeFixture(stringsReader(`[{"releaseYear": "x"}, {"rating": "y", "releaseYear": "z"}]`))
	require.NoError(t, err)

	sum, err := l.LoadRecords(context.Background(), fx.Records)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"releaseYear": 2, "rating": 1}, sum.CoercionMisses)
}

type failingCollection struct {
	database.Collection
	err error
}

func (f failingCollection) InsertMany(context.Context, []any) ([]string, error) {
	return nil, f.err
}

func TestStoreFailuresAreFatal(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	l, _ := newTestLoader(t)
	l.Comments = failingCollection{Collection: l.Comments, err: boom}
	_, err := l.Load(ctx, writeFixture(t, duneFixture))
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, boom)

	l, _ = newTestLoader(t)
	l.Films = failingCollection{Collection: l.Films, err: boom}
	_, err = l.Load(ctx, writeFixture(t, duneFixture))
	assert.ErrorIs(t, err, ErrStore)
}

type undeletableCollection struct {
	database.Collection
	err error
}

func (u undeletableCollection) DeleteMany(context.Context) (int64, error) {
	return 0, u.err
}

func TestResetFailureDoesNotStopLoad(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("not primary")

	l, _ := newTestLoader(t)
	l.Films = undeletableCollection{Collection: l.Films, err: boom}
	l.Comments = undeletableCollection{Collection: l.Comments, err: boom}

	films, comments := l.Reset(ctx)
	assert.Zero(t, films)
	assert.Zero(t, comments)

	sum, err := l.Reload(ctx, writeFixture(t, duneFixture))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Films)
	assert.Equal(t, 1, sum.Comments)

	n, err := l.Films.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = l.Comments.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestResetFailureOnOneCollectionStillClearsTheOther(t *testing.T) {
	ctx := context.Background()

	l, _ := newTestLoader(t)
	_, err := l.Reload(ctx, writeFixture(t, duneFixture))
	require.NoError(t, err)

	l.Films = undeletableCollection{Collection: l.Films, err: errors.New("timeout")}
	films, comments := l.Reset(ctx)
	assert.Zero(t, films)
	assert.EqualValues(t, 1, comments)
}

func assertEmpty(t *testing.T, l *Loader) {
	t.Helper()
	ctx := context.Background()
	films, err := l.Films.Count(ctx)
	require.NoError(t, err)
	comments, err := l.Comments.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, films)
	assert.Zero(t, comments)
}
