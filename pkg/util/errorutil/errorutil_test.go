package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesDomainErrorsThrough(t *testing.T) {
	err := NewForbidden("missing portal permission")
	domainErr := ToDomainError(fmt.Errorf("wrapped: %w", err))
	require.NotNil(t, domainErr)
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestToDomainError_NoRowsBecomesNotFound(t *testing.T) {
	domainErr := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, domainErr)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	domainErr := ToDomainError(errors.New("boom"))
	require.NotNil(t, domainErr)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.Equal(t, "internal server error", domainErr.Message)
}

func TestConflictIsBadRequest(t *testing.T) {
	domainErr := ToDomainError(NewConflict("tag name already exists"))
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
