package templatex

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrUnresolvedPartial    = errors.New("unresolved partial")
	ErrDuplicatePartialName = errors.New("duplicate partial name")
	ErrDirectoryNotFound    = errors.New("directory not found")
	// ErrPartialExpansion is returned when a render inlines too many partials,
	// which in practice means a partial includes itself.
	ErrPartialExpansion = errors.New("too many partial expansions")
)

// TemplateNotFoundError reports a top-level template file that could not be read.
type TemplateNotFoundError struct {
	Path string
	Err  error
}

func (e *TemplateNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("template %s not found", e.Path)
}

func (e *TemplateNotFoundError) Is(target error) bool { return target == ErrTemplateNotFound }

func (e *TemplateNotFoundError) Unwrap() error { return e.Err }

// UnresolvedPartialError reports a {{>name}} tag with no matching partial.
type UnresolvedPartialError struct {
	Name string
}

func (e *UnresolvedPartialError) Error() string {
	return fmt.Sprintf("unresolved partial %q", e.Name)
}

func (e *UnresolvedPartialError) Unwrap() error { return ErrUnresolvedPartial }

// DuplicatePartialNameError reports two partial files mapping to one name.
type DuplicatePartialNameError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicatePartialNameError) Error() string {
	return fmt.Sprintf("partial %q defined by both %s and %s", e.Name, e.First, e.Second)
}

func (e *DuplicatePartialNameError) Unwrap() error { return ErrDuplicatePartialName }

// DirectoryNotFoundError reports a missing partials directory.
type DirectoryNotFoundError struct {
	Dir string
	Err error
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory %s not found: %v", e.Dir, e.Err)
}

func (e *DirectoryNotFoundError) Is(target error) bool { return target == ErrDirectoryNotFound }

func (e *DirectoryNotFoundError) Unwrap() error { return e.Err }
