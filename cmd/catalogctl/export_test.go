package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmcatalog/internal/catalog"
	"filmcatalog/pkg/database"
	"filmcatalog/pkg/models"
)

func TestExportFilms(t *testing.T) {
	ctx := context.Background()
	store, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	_, err = catalog.NewLoader(store, 1, nil).LoadRecords(ctx, []models.RawFilm{{
		"Title":        "Dune",
		"Realase_year": "2021",
		"Casting":      "Timothée Chalamet, Zendaya",
		"Language":     "en",
		"images":       []any{map[string]any{"type": "cover", "name": "dune.jpg"}},
		"Comentary":    []any{"great", "long"},
	}})
	require.NoError(t, err)

	films := store.Collection(database.FilmsCollection)
	_, err = films.InsertMany(ctx, []any{models.Document{"Title": "raw"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := exportFilms(ctx, films, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])

	dune := rows[1]
	assert.NotEmpty(t, dune[0])
	assert.Equal(t, "Dune", dune[1])
	assert.Equal(t, "2021", dune[2])
	assert.Equal(t, "Timothée Chalamet|Zendaya", dune[7])
	assert.Equal(t, "en", dune[9])
	assert.Equal(t, "/images/dune.jpg", dune[10])
	assert.Equal(t, "2", dune[11])

	// form-added films export with blanks for the fields they lack
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "0", rows[2][11])
}

func TestFormatEvent(t *testing.T) {
	assert.Equal(t, "plain text", formatEvent([]byte("plain text"), true))
	assert.Equal(t, `{"a":1}`, formatEvent([]byte(`{"a":1}`), false))
	assert.Equal(t, "{\n  \"a\": 1\n}", formatEvent([]byte(`{"a":1}`), true))
}
