package models

// RawFilm is one fixture entry as decoded from JSON. Its shape is untrusted:
// keys may follow the legacy naming (Title, Realase_year, ...) or the
// canonical one (title, releaseYear, ...).
type RawFilm map[string]any

// Film is the canonical, normalized form of a catalog entry.
//
// Path fields are nil when no asset is known and serialize as null.
// Optional scalars are omitted when the fixture carried nothing usable.
type Film struct {
	ID                string   `json:"_id,omitempty" bson:"_id,omitempty"`
	Title             string   `json:"title" bson:"title"`
	Description       string   `json:"description" bson:"description"`
	ReleaseYear       *int     `json:"releaseYear,omitempty" bson:"releaseYear,omitempty"`
	Genre             string   `json:"genre,omitempty" bson:"genre,omitempty"`
	Rating            *float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	AgeClassification string   `json:"ageClassification,omitempty" bson:"ageClassification,omitempty"`
	Director          string   `json:"director,omitempty" bson:"director,omitempty"`
	Cast              []string `json:"cast" bson:"cast"`
	Duration          string   `json:"duration,omitempty" bson:"duration,omitempty"`
	Language          []string `json:"language" bson:"language"`

	CoverPath         *string `json:"coverPath" bson:"coverPath"`
	DirectorImagePath *string `json:"directorImagePath" bson:"directorImagePath"`
	Actor1ImagePath   *string `json:"actor1ImagePath" bson:"actor1ImagePath"`
	Actor2ImagePath   *string `json:"actor2ImagePath" bson:"actor2ImagePath"`
	Actor3ImagePath   *string `json:"actor3ImagePath" bson:"actor3ImagePath"`
	TitlePhotoPath    *string `json:"titlePhotoPath" bson:"titlePhotoPath"`
	FilmPhotoPath     *string `json:"filmPhotoPath" bson:"filmPhotoPath"`

	// Comments holds comment identities once the film is persisted.
	Comments []string `json:"comments" bson:"comments"`
}

// ImageEntry is one element of a fixture record's images list.
type ImageEntry struct {
	Type string `json:"type"`
	Name string `json:"name"`
}
