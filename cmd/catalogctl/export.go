package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmcatalog/internal/app"
	"filmcatalog/pkg/database"
	"filmcatalog/pkg/models"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored films to a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if err := os.MkdirAll(filepath.Dir(exportOut), 0o755); err != nil {
				return err
			}
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := exportFilms(ctx, a.Store.Collection(database.FilmsCollection), f)
			if err != nil {
				return fmt.Errorf("export films: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d films to %s\n", n, exportOut)
			return nil
		})
	},
}

var exportHeader = []string{
	"id", "title", "release_year", "genre", "rating", "age_classification",
	"director", "cast", "duration", "language", "cover_path", "comments",
}

// exportFilms reads documents rather than typed films because films added
// through the form keep whatever shape they were posted with.
func exportFilms(ctx context.Context, films database.Collection, out io.Writer) (int, error) {
	var docs []models.Document
	if err := films.Find(ctx, database.FindOptions{}, &docs); err != nil {
		return 0, err
	}

	w := csv.NewWriter(out)
	if err := w.Write(exportHeader); err != nil {
		return 0, err
	}
	for _, d := range docs {
		if err := w.Write([]string{
			cell(d["_id"]),
			cell(d["title"]),
			cell(d["releaseYear"]),
			cell(d["genre"]),
			cell(d["rating"]),
			cell(d["ageClassification"]),
			cell(d["director"]),
			cell(d["cast"]),
			cell(d["duration"]),
			cell(d["language"]),
			cell(d["coverPath"]),
			strconv.Itoa(count(d["comments"])),
		}); err != nil {
			return 0, err
		}
	}

	w.Flush()
	return len(docs), w.Error()
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			parts = append(parts, cell(it))
		}
		return strings.Join(parts, "|")
	default:
		return fmt.Sprint(t)
	}
}

func count(v any) int {
	if items, ok := v.([]any); ok {
		return len(items)
	}
	return 0
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "data/films.csv", "output CSV path")
}
