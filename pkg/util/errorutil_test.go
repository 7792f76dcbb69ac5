package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("domain error passes through wrapping", func(t *testing.T) {
		original := NewConflict("taken", map[string]any{"email": "a@b.c"})
		got := ToDomainError(fmt.Errorf("create: %w", original))
		assert.Equal(t, "CONFLICT", got.Code)
		assert.Equal(t, http.StatusConflict, got.HTTPStatus)
		assert.Equal(t, "a@b.c", got.Details["email"])
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		got := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
		assert.Equal(t, "NOT_FOUND", got.Code)
		assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "staff_profiles_venue_id_email_key"}
		got := ToDomainError(fmt.Errorf("create staff profile: %w", pgErr))
		assert.Equal(t, "CONFLICT", got.Code)
		assert.Equal(t, http.StatusConflict, got.HTTPStatus)
		assert.Equal(t, "staff_profiles_venue_id_email_key", got.Details["constraint"])
		assert.ErrorIs(t, got, pgErr)
	})

	t.Run("malformed uuid maps to not found", func(t *testing.T) {
		got := ToDomainError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
		assert.Equal(t, "NOT_FOUND", got.Code)
		assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	})

	t.Run("other postgres errors stay internal", func(t *testing.T) {
		got := ToDomainError(&pgconn.PgError{Code: "40001"})
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
	})

	t.Run("fiber error keeps status", func(t *testing.T) {
		got := ToDomainError(fiber.NewError(http.StatusBadRequest, "invalid payload"))
		assert.Equal(t, "BAD_REQUEST", got.Code)
		assert.Equal(t, "invalid payload", got.Message)
	})

	t.Run("unknown error hides cause", func(t *testing.T) {
		cause := errors.New("connection reset by peer")
		got := ToDomainError(cause)
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.Equal(t, "internal server error", got.Message)
		assert.ErrorIs(t, got, cause)
	})
}

func TestAuthorizationErrors(t *testing.T) {
	inactive := ToDomainError(NewAccountInactive())
	assert.Equal(t, "ACCOUNT_INACTIVE", inactive.Code)
	assert.Equal(t, http.StatusForbidden, inactive.HTTPStatus)

	insufficient := ToDomainError(NewInsufficientPermissions())
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", insufficient.Code)
	assert.Contains(t, insufficient.Message, "insufficient permissions")
}
