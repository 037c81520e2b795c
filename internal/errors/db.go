package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// `Key (login)=(alice) already exists.`
	reDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// `... is still referenced from table "user_tokens".`
	reDetailReferencedBy = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// `... is not present in table "users".`
	reDetailMissingParent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// tableNouns names gatehouse tables in messages shown to callers.
var tableNouns = map[string]string{
	"users":       "user",
	"user_tokens": "user token",
}

const msgRetry = "The record was changed concurrently. Please try again."

// MapDBError turns driver and context errors into AppErrors:
//
//	context deadline, cancel      -> timeout, canceled
//	pgx.ErrNoRows                 -> not_found
//	unique violation              -> conflict, with the column as Field when known
//	serialization, deadlock, lock -> conflict
//	foreign key violation         -> foreign_key
//	check, not null               -> validation
//	any other PgError             -> internal
//
// Anything else is returned unchanged.
func MapDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This value already exists. Please choose a different one.",
			Field:   uniqueColumn(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return Wrap(pgErr, ErrCodeConflict, msgRetry)
	case pgerrcode.ForeignKeyViolation:
		return Wrap(pgErr, ErrCodeForeignKey, foreignKeyMessage(pgErr))
	case pgerrcode.NotNullViolation, pgerrcode.CheckViolation:
		return inputViolation(pgErr)
	default:
		return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
}

// uniqueColumn finds the violated column from, in order, the error metadata, the
// detail text and a single-column "<table>_<column>_key" constraint name.
func uniqueColumn(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reDetailKey.FindStringSubmatch(pgErr.Detail); m != nil {
		return m[1]
	}
	parts := strings.Split(pgErr.ConstraintName, "_")
	if len(parts) != 3 || parts[2] != "key" || isSQLFunction(parts[1]) {
		return ""
	}
	return parts[1]
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if m := reDetailReferencedBy.FindStringSubmatch(pgErr.Detail); m != nil {
		return "Cannot delete because this item is in use by " + tableNoun(m[1]) + "."
	}
	if m := reDetailMissingParent.FindStringSubmatch(pgErr.Detail); m != nil {
		return "Cannot complete operation because the referenced " + tableNoun(m[1]) + " does not exist."
	}
	if pgErr.TableName != "" {
		return "Cannot complete operation because this item is in use by " + tableNoun(pgErr.TableName) + "."
	}
	return "Cannot complete operation because this item is in use."
}

func inputViolation(pgErr *pgconn.PgError) error {
	if pgErr.ColumnName == "" {
		return Wrap(pgErr, ErrCodeValidation, "Invalid data. Please check your input.")
	}
	msg := "This field has an invalid value."
	if pgErr.Code == pgerrcode.NotNullViolation {
		msg = "This field is required."
	}
	return &AppError{Code: ErrCodeValidation, Message: msg, Field: pgErr.ColumnName, Cause: pgErr}
}

func tableNoun(table string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if noun, ok := tableNouns[table]; ok {
		return noun
	}
	return strings.ReplaceAll(table, "_", " ")
}

// Expression indexes such as users_lower_key do not name a column.
func isSQLFunction(s string) bool {
	switch strings.ToLower(s) {
	case "lower", "upper", "trim", "md5", "sha256":
		return true
	}
	return false
}
