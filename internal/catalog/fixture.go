package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"filmcatalog/pkg/models"
)

// Fixture is the decoded seed file.
type Fixture struct {
	Records []models.RawFilm
	// Malformed counts entries that were not JSON objects. They are kept as
	// empty records so every fixture entry still yields one film.
	Malformed int
}

func ReadFixture(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("%w: %v", ErrFixture, err)
	}
	defer f.Close()
	return DecodeFixture(f)
}

// DecodeFixture parses a JSON array of film records. Numbers are kept as
// json.Number so coercion sees the literal text.
func DecodeFixture(r io.Reader) (Fixture, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var entries []any
	if err := dec.Decode(&entries); err != nil {
		return Fixture{}, fmt.Errorf("%w: decode: %v", ErrFixture, err)
	}

	fx := Fixture{Records: make([]models.RawFilm, 0, len(entries))}
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			fx.Malformed++
			m = map[string]any{}
		}
		fx.Records = append(fx.Records, models.RawFilm(m))
	}
	return fx, nil
}
