package sync

import "time"

const EventFilmAdded = "film.added"

type FilmEvent struct {
	Type  string    `json:"type"` // "film.added"
	ID    string    `json:"id"`
	Title string    `json:"title,omitempty"`
	At    time.Time `json:"at"`
}

func NewFilmAdded(id, title string) FilmEvent {
	return FilmEvent{Type: EventFilmAdded, ID: id, Title: title, At: time.Now().UTC()}
}
