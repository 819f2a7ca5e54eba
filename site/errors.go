package site

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidPath is returned when a request path cannot name a document.
	ErrInvalidPath = errors.New("invalid path")
	// ErrUnknownBlockKind is matched by every UnknownBlockKindError.
	ErrUnknownBlockKind = errors.New("unknown block kind")
)

// UnknownBlockKindError reports a block whose kind has no renderer.
type UnknownBlockKindError struct {
	Kind   string
	Region string
}

func (e *UnknownBlockKindError) Error() string {
	return fmt.Sprintf("unknown block type %s in region '%s'", e.Kind, e.Region)
}

func (e *UnknownBlockKindError) Unwrap() error { return ErrUnknownBlockKind }
