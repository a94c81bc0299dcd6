package repository

import (
	"errors"
	"fmt"

	"p9e.in/flota/models"
	"p9e.in/flota/store"
)

// ErrNotFound means the id is not in the repository's in-memory collection.
// Lookups never fall through to the remote store.
var ErrNotFound = errors.New("record not found")

// ReferentialError is a missing or mismatched parent reference, detected
// against the sibling collections before any remote call.
type ReferentialError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

// UniquenessError is a duplicate on a per-owner unique attribute.
type UniquenessError struct {
	Entity string
	Field  string
	Value  string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// DependencyError denies a deletion because dependent records still
// reference the target. Deletion is denied, never cascaded.
type DependencyError struct {
	Entity    string
	Dependent string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cannot delete %s: %s still reference it", e.Entity, e.Dependent)
}

// UserMessage maps any failure from the data-access layer onto exactly one
// transient, user-facing message.
func UserMessage(err error) string {
	var ve *models.ValidationError
	var re *ReferentialError
	var ue *UniquenessError
	var de *DependencyError
	var se *store.RemoteError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The record was not found."
	case errors.As(err, &ve):
		return "Some fields are missing or invalid. Please review the form."
	case errors.As(err, &re):
		return "A referenced record does not exist or does not match."
	case errors.As(err, &ue):
		return "A record with the same identifying data already exists."
	case errors.As(err, &de):
		return "This record is in use and cannot be deleted."
	case errors.As(err, &se):
		switch se.Code {
		case store.CodeDuplicateKey:
			return "A record with the same identifying data already exists."
		case store.CodeForeignKey:
			return "The operation conflicts with related records."
		case store.CodePermissionDenied:
			return "You do not have permission to perform this operation."
		case store.CodeNotFound:
			return "The record was not found."
		default:
			return "The operation could not be completed. Please try again."
		}
	default:
		return "The operation could not be completed. Please try again."
	}
}
