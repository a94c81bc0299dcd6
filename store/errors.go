package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorCode is the machine-readable category of a failed store call.
type ErrorCode string

const (
	CodeDuplicateKey     ErrorCode = "duplicate_key"
	CodeForeignKey       ErrorCode = "foreign_key"
	CodePermissionDenied ErrorCode = "permission_denied"
	CodeNotFound         ErrorCode = "not_found"
	CodeGeneric          ErrorCode = "generic"
)

// RemoteError wraps any failure reported by the remote relational store.
// Callers branch on Code to pick a user-facing message category.
type RemoteError struct {
	Op    string
	Table string
	Code  ErrorCode
	Err   error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store: %s %s: %s", e.Op, e.Table, e.Code)
	}
	return fmt.Sprintf("store: %s %s: %s: %v", e.Op, e.Table, e.Code, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Translate maps a driver/gorm error onto the store taxonomy. Relies on
// gorm's TranslateError config for the constraint classes; permission
// failures only ever reach us as raw Postgres messages.
func Translate(op, table string, err error) error {
	if err == nil {
		return nil
	}
	code := CodeGeneric
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code = CodeDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		code = CodeForeignKey
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = CodeNotFound
	case strings.Contains(err.Error(), "permission denied"):
		code = CodePermissionDenied
	}
	return &RemoteError{Op: op, Table: table, Code: code, Err: err}
}

// CodeOf extracts the error code, or CodeGeneric for non-store errors.
func CodeOf(err error) ErrorCode {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeGeneric
}
