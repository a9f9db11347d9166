package catalog

// fieldAlias pairs a legacy fixture key with its canonical name. The legacy key
// is consulted first; an empty legacy key means only the canonical one exists.
type fieldAlias struct {
	Legacy    string
	Canonical string
}

// filmFields is the single source of truth for film key precedence.
var filmFields = []fieldAlias{
	{Legacy: "Title", Canonical: "title"},
	{Legacy: "", Canonical: "description"},
	{Legacy: "Realase_year", Canonical: "releaseYear"},
	{Legacy: "Gender", Canonical: "genre"},
	{Legacy: "Calification", Canonical: "rating"},
	{Legacy: "Age_classification", Canonical: "ageClassification"},
	{Legacy: "Director", Canonical: "director"},
	{Legacy: "Casting", Canonical: "cast"},
	{Legacy: "Duration", Canonical: "duration"},
	{Legacy: "Comentary", Canonical: "comments"},
	{Legacy: "Language", Canonical: "language"},
	{Legacy: "", Canonical: "images"},
}

var commentFields = []fieldAlias{
	{Legacy: "User_name", Canonical: "userName"},
	{Legacy: "Description", Canonical: "description"},
	{Legacy: "Rating", Canonical: "rating"},
}

// lookup resolves a canonical field against raw using table. A missing key and
// an explicit JSON null are both treated as absent.
func lookup(raw map[string]any, table []fieldAlias, canonical string) (any, bool) {
	keys := []string{canonical}
	for _, a := range table {
		if a.Canonical == canonical {
			keys = []string{a.Legacy, a.Canonical}
			break
		}
	}
	for _, k := range keys {
		if k == "" {
			continue
		}
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
