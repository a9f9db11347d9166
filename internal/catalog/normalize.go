package catalog

import (
	"strings"

	"filmcatalog/pkg/models"
)

// FieldReport tells which path each coerced field took.
type FieldReport struct {
	ReleaseYear Outcome
	Rating      Outcome
}

// Misses lists the fields whose source value could not be used.
func (r FieldReport) Misses() []string {
	var out []string
	if r.ReleaseYear == OutcomeDefaulted {
		out = append(out, "releaseYear")
	}
	if r.Rating == OutcomeDefaulted {
		out = append(out, "rating")
	}
	return out
}

// Draft is a normalized film that has not been persisted yet. Its comments
// are still the raw fixture entries; Film.Comments stays empty until the
// loader substitutes identities.
type Draft struct {
	Film        models.Film
	RawComments []any
	Report      FieldReport
}

// Normalize runs the field normalizer and the image resolver over one record.
// It never fails: every unusable value falls back to an empty or nil field.
func Normalize(raw models.RawFilm) Draft {
	film, report := NormalizeFields(raw)

	images, _ := lookup(raw, filmFields, "images")
	ResolveImages(ParseImages(images), film.Director).Apply(&film)

	var comments []any
	if v, ok := lookup(raw, filmFields, "comments"); ok {
		if list, ok := v.([]any); ok {
			comments = list
		}
	}

	return Draft{Film: film, RawComments: comments, Report: report}
}

// NormalizeFields maps the scalar and sequence fields of raw onto the
// canonical film shape. Path fields are left nil.
func NormalizeFields(raw models.RawFilm) (models.Film, FieldReport) {
	var (
		film   models.Film
		report FieldReport
	)

	film.Title = textField(raw, "title")
	film.Description = textField(raw, "description")
	film.Genre = textField(raw, "genre")
	film.AgeClassification = textField(raw, "ageClassification")
	film.Director = textField(raw, "director")
	film.Duration = textField(raw, "duration")

	year := coerceYear(lookup(raw, filmFields, "releaseYear"))
	report.ReleaseYear = year.Outcome
	if year.Ok() {
		film.ReleaseYear = &year.Value
	}

	rating := coerceFloat(lookup(raw, filmFields, "rating"))
	report.Rating = rating.Outcome
	if rating.Ok() {
		film.Rating = &rating.Value
	}

	castRaw, ok := lookup(raw, filmFields, "cast")
	film.Cast = normalizeCast(castRaw, ok)

	langRaw, ok := lookup(raw, filmFields, "language")
	film.Language = normalizeLanguage(langRaw, ok)

	film.Comments = []string{}
	return film, report
}

func textField(raw models.RawFilm, canonical string) string {
	v, ok := lookup(raw, filmFields, canonical)
	if !ok {
		return ""
	}
	s, _ := toText(v)
	return s
}

// normalizeCast splits a comma-joined string into trimmed names, dropping the
// empty entries left by stray or trailing commas. Sequences go through
// textItems.
func normalizeCast(v any, present bool) []string {
	out := []string{}
	if !present {
		return out
	}
	switch t := v.(type) {
	case []any:
		return textItems(t)
	case []string:
		return append(out, t...)
	default:
		s, ok := toText(t)
		if !ok {
			return out
		}
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func normalizeLanguage(v any, present bool) []string {
	out := []string{}
	if !present {
		return out
	}
	switch t := v.(type) {
	case []any:
		return textItems(t)
	case []string:
		return append(out, t...)
	default:
		if s, ok := toText(t); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// textItems copies a sequence item by item. Scalars are kept as their text;
// objects, arrays and nulls are dropped.
func textItems(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := toText(item); ok {
			out = append(out, s)
		}
	}
	return out
}
