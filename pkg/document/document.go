// Package document implements the single-field body patch performed when
// the editor saves a content document back to the host.
package document

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store implementations when no document
// exists for the requested ID.
var ErrNotFound = errors.New("document not found")

// Body is the editable field of a content document. EncodingProfile names
// the markup ruleset the host applies when rendering the value; a patch
// never changes it.
type Body struct {
	Value           string `json:"value"`
	EncodingProfile string `json:"encodingProfile"`
}

// Document is a transient view of the host's content entity, held only
// for the duration of one request.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Body  Body   `json:"body"`
}

// Store is the host document storage collaborator. Save is a single
// atomic call; two concurrent saves of the same document resolve to
// whichever commit lands last at the host.
type Store interface {
	Get(ctx context.Context, id string) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}
