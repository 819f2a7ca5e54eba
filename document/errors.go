package document

import (
	"errors"
	"fmt"
)

var (
	// ErrReservedRegionName is matched by every ReservedRegionNameError.
	ErrReservedRegionName = errors.New("reserved region name")
	// ErrMalformedDocument is matched by every MalformedDocumentError.
	ErrMalformedDocument = errors.New("malformed document")
)

// ReservedRegionNames may never be requested as regions; they name page fields.
var ReservedRegionNames = []string{"type", "title", "heading"}

// IsReservedRegionName reports whether name collides with a page field.
func IsReservedRegionName(name string) bool {
	for _, reserved := range ReservedRegionNames {
		if name == reserved {
			return true
		}
	}
	return false
}

// ReservedRegionNameError is returned when a caller asks for a reserved region.
type ReservedRegionNameError struct {
	Name string
}

func (e *ReservedRegionNameError) Error() string {
	return fmt.Sprintf("region name '%s' is reserved", e.Name)
}

func (e *ReservedRegionNameError) Unwrap() error { return ErrReservedRegionName }

// MalformedDocumentError reports a source that is not well-formed or lacks a required element.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed document: %s: %v", e.Reason, e.Err)
	}
	return "malformed document: " + e.Reason
}

func (e *MalformedDocumentError) Is(target error) bool { return target == ErrMalformedDocument }

func (e *MalformedDocumentError) Unwrap() error { return e.Err }
