package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/helpdesk/internal/domain"
)

func TestClearDefaultWithoutExclusionSendsNull(t *testing.T) {
	q := &fakeQuerier{}

	err := clearDefault(context.Background(), q, "tenant-1", domain.SlaPriorityHigh, "")

	require.NoError(t, err)
	require.Len(t, q.ExecArgs, 1)
	// An empty string is not a valid uuid literal; the create path must
	// send NULL and rely on the IS NULL branch of the exclusion clause.
	assert.Nil(t, q.ExecArgs[0][2])
	assert.Contains(t, q.ExecSQL[0], "$3::uuid IS NULL")
}

func TestClearDefaultExcludesGivenPolicy(t *testing.T) {
	q := &fakeQuerier{}

	err := clearDefault(context.Background(), q, "tenant-1", domain.SlaPriorityHigh, "6e3f9a52-0d0f-4f7e-9d17-0b2f5a3c1a11")

	require.NoError(t, err)
	require.Len(t, q.ExecArgs, 1)
	assert.Equal(t, "6e3f9a52-0d0f-4f7e-9d17-0b2f5a3c1a11", q.ExecArgs[0][2])
	assert.Equal(t, "tenant-1", q.ExecArgs[0][0])
	assert.Equal(t, domain.SlaPriorityHigh, q.ExecArgs[0][1])
}
