package interfaces

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
)

// ErrInvalidTags is wrapped by TagLinker when the supplied names break the
// count or length limits.
var ErrInvalidTags = errors.New("invalid tags")

// TagRef is the minimal tag shape embedded in question payloads.
type TagRef struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// TagLinker attaches tags to questions, creating missing tags on the fly.
// The tags service implements it.
type TagLinker interface {
	// LinkTags upserts names case-insensitively and links each tag to the question.
	LinkTags(ctx context.Context, questionID uuid.UUID, names []string) ([]TagRef, error)

	// UnlinkTags removes every tag link of the question.
	UnlinkTags(ctx context.Context, questionID uuid.UUID) error
}

// TagReader resolves a tag by id. A missing tag yields (nil, nil).
type TagReader interface {
	GetTagRef(ctx context.Context, tagID uuid.UUID) (*TagRef, error)
}
