package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError_NilError(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{name: "wrapped deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantCode: ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			assert.Equal(t, tt.wantCode, GetCode(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(fmt.Errorf("get user: %w", pgx.ErrNoRows))
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name:      "column name metadata",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "email"},
			wantField: "email",
		},
		{
			name: "detail message",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "users_pkey",
				Detail:         `Key (login)=(alice) already exists.`,
			},
			wantField: "login",
		},
		{
			name:      "constraint name",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantField: "email",
		},
		{
			name:      "multi-column constraint",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "user_tokens_login_name_key"},
			wantField: "",
		},
		{
			name:      "expression index",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_lower_key"},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			assert.True(t, IsConflict(err))
			assert.Equal(t, tt.wantField, GetField(err))
			assert.Contains(t, GetMessage(err), "already exists")
		})
	}
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name        string
		pgErr       *pgconn.PgError
		wantMessage string
	}{
		{
			name: "missing parent",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (login)=(ghost) is not present in table "users".`,
			},
			wantMessage: "Cannot complete operation because the referenced user does not exist.",
		},
		{
			name: "parent still referenced",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (login)=(alice) is still referenced from table "user_tokens".`,
			},
			wantMessage: "Cannot delete because this item is in use by user token.",
		},
		{
			name:        "table name fallback",
			pgErr:       &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "audit_log_entries"},
			wantMessage: "Cannot complete operation because this item is in use by audit log entries.",
		},
		{
			name:        "no metadata",
			pgErr:       &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			wantMessage: "Cannot complete operation because this item is in use.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			assert.True(t, HasCode(err, ErrCodeForeignKey))
			assert.Equal(t, tt.wantMessage, GetMessage(err))
		})
	}
}

func TestMapDBError_InputViolations(t *testing.T) {
	tests := []struct {
		name        string
		pgErr       *pgconn.PgError
		wantField   string
		wantMessage string
	}{
		{
			name:        "not null with column",
			pgErr:       &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "login"},
			wantField:   "login",
			wantMessage: "This field is required.",
		},
		{
			name:        "check with column",
			pgErr:       &pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "login"},
			wantField:   "login",
			wantMessage: "This field has an invalid value.",
		},
		{
			name:        "check without column",
			pgErr:       &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "users_login_check"},
			wantMessage: "Invalid data. Please check your input.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.wantField, GetField(err))
			assert.Equal(t, tt.wantMessage, GetMessage(err))
		})
	}
}

func TestMapDBError_ConcurrencyFailuresAreConflicts(t *testing.T) {
	for _, code := range []string{pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable} {
		t.Run(code, func(t *testing.T) {
			assert.True(t, IsConflict(MapDBError(&pgconn.PgError{Code: code})))
		})
	}
}

func TestMapDBError_UnhandledPgErrorIsInternal(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.DiskFull}
	err := MapDBError(pgErr)

	assert.True(t, HasCode(err, ErrCodeInternal))
	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
}

func TestMapDBError_PassThrough(t *testing.T) {
	orig := errors.New("boom")
	assert.Same(t, orig, MapDBError(orig))
}
