package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingQuerier mimics the upsert-increment semantics of the allocation
// statement: one atomic increment per call, per tenant.
func countingQuerier(t *testing.T) *fakeQuerier {
	t.Helper()
	var mu sync.Mutex
	counters := map[string]int64{}
	q := &fakeQuerier{}
	q.QueryRowFunc = func(sql string, args []any) pgx.Row {
		require.Contains(t, sql, "ON CONFLICT (tenant_id)")
		require.Contains(t, sql, "RETURNING last_number")
		tenantID, ok := args[0].(string)
		require.True(t, ok)
		mu.Lock()
		counters[tenantID]++
		n := counters[tenantID]
		mu.Unlock()
		return scanRow{scan: func(dest ...any) error {
			*(dest[0].(*int64)) = n
			return nil
		}}
	}
	return q
}

func TestNextTicketNumberAllocatesSequentially(t *testing.T) {
	repo := &sequenceRepository{db: countingQuerier(t)}

	first, err := repo.NextTicketNumber(context.Background(), "tenant-1")
	require.NoError(t, err)
	second, err := repo.NextTicketNumber(context.Background(), "tenant-1")
	require.NoError(t, err)
	other, err := repo.NextTicketNumber(context.Background(), "tenant-2")
	require.NoError(t, err)

	assert.Equal(t, "TKT-000001", first)
	assert.Equal(t, "TKT-000002", second)
	assert.Equal(t, "TKT-000001", other)
}

func TestNextTicketNumberConcurrentAllocationsAreDistinct(t *testing.T) {
	repo := &sequenceRepository{db: countingQuerier(t)}

	const workers = 32
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := repo.NextTicketNumber(context.Background(), "tenant-1")
			assert.NoError(t, err)
			results[i] = n
		}(i)
	}
	wg.Wait()

	sort.Strings(results)
	for i := 1; i < workers; i++ {
		require.NotEqual(t, results[i-1], results[i], "duplicate ticket number %s", results[i])
	}
	assert.True(t, strings.HasPrefix(results[0], "TKT-"))
}
