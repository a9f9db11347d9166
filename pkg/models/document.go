package models

// Document is a schemaless record as read back from the store. Listings use it
// because films inserted through the add-film form are stored raw and need not
// match Film.
type Document map[string]any
