package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrStorageUnavailable  = errors.New("database: storage unavailable")
	ErrUniqueViolation     = errors.New("database: unique constraint violation")
	ErrForeignKeyViolation = errors.New("database: foreign key violation")
	ErrConstraintViolation = errors.New("database: constraint violation")
	ErrNotFound            = errors.New("database: not found")
)

// classify maps a driver error onto one of the package sentinel errors.
func classify(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrUniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrForeignKeyViolation
		}
	}

	// extended result codes may be off depending on how the connection was opened
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrUniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrForeignKeyViolation
	case strings.Contains(msg, "constraint failed"):
		return ErrConstraintViolation
	}
	if sqlErr != nil && sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return ErrConstraintViolation
	}

	return ErrStorageUnavailable
}

// wrapError annotates err with the operation and its classified sentinel.
// Errors already carrying a sentinel are returned with only the annotation.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrStorageUnavailable, ErrUniqueViolation, ErrForeignKeyViolation, ErrConstraintViolation, ErrNotFound} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("failed to %s: %w", op, err)
		}
	}
	return fmt.Errorf("failed to %s: %w: %w", op, classify(err), err)
}
