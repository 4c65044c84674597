// Package library stores named glycan structures.
//
// The library is the "save as" shelf of the editor: documents are stored
// under a user-chosen name and can be listed, loaded into a new session and
// deleted. Names are validated with [errors.ValidateDocumentName] before they
// reach a backend.
//
// Backends:
//   - [FileLibrary]: one JSON document per name in a directory
//   - [MongoLibrary]: one BSON document per name in a MongoDB collection
package library

import (
	"context"
	"time"

	"github.com/matzehuels/glycodraw/pkg/graph"
)

// Entry is a stored structure.
type Entry struct {
	Name      string       `json:"name" bson:"_id"`
	Document  graph.Glycan `json:"document" bson:"document"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Summary describes an entry without its document.
type Summary struct {
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Entry) summary() Summary {
	return Summary{Name: e.Name, Nodes: len(e.Document.Nodes), UpdatedAt: e.UpdatedAt}
}

// Library is the interface for structure storage backends.
type Library interface {
	// Save stores doc under name, replacing any previous entry.
	Save(ctx context.Context, name string, doc graph.Glycan) error

	// Load returns the entry for name. Unknown names yield a
	// DOCUMENT_NOT_FOUND error.
	Load(ctx context.Context, name string) (*Entry, error)

	// List returns all entries sorted by name.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes name. Unknown names are not an error.
	Delete(ctx context.Context, name string) error

	Close() error
}
