package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sliceFetcher(rows []int, calls *[]int) PageFunc[int] {
	return func(_ context.Context, limit, offset int) ([]int, error) {
		*calls = append(*calls, offset)
		if offset >= len(rows) {
			return nil, nil
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		return rows[offset:end], nil
	}
}

func TestPaginate_ReadsEverything(t *testing.T) {
	rows := make([]int, 23)
	for i := range rows {
		rows[i] = i
	}

	for _, pageSize := range []int{1, 5, 10, 23, 24, 5000} {
		var calls []int
		var got []int
		err := Paginate(context.Background(), pageSize, sliceFetcher(rows, &calls), func(page []int) error {
			got = append(got, page...)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, rows, got, "page size %d", pageSize)
	}
}

func TestPaginate_ExactMultipleCostsOneEmptyRead(t *testing.T) {
	rows := make([]int, 20)
	var calls []int

	err := Paginate(context.Background(), 10, sliceFetcher(rows, &calls), func([]int) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20}, calls)
}

func TestPaginate_DefaultPageSize(t *testing.T) {
	var limits []int
	fetch := func(_ context.Context, limit, _ int) ([]int, error) {
		limits = append(limits, limit)
		return nil, nil
	}

	require.NoError(t, Paginate(context.Background(), 0, fetch, func([]int) error { return nil }))
	assert.Equal(t, []int{DefaultPageSize}, limits)
}

func TestPaginate_FetchErrorAborts(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	fetch := func(_ context.Context, limit, offset int) ([]int, error) {
		calls++
		if offset > 0 {
			return nil, boom
		}
		return make([]int, limit), nil
	}

	err := Paginate(context.Background(), 2, fetch, func([]int) error { return nil })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestPaginate_VisitErrorAborts(t *testing.T) {
	stop := errors.New("stop")
	var calls []int
	rows := make([]int, 10)

	err := Paginate(context.Background(), 2, sliceFetcher(rows, &calls), func([]int) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Len(t, calls, 1)
}

func TestBatches(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, Batches(items, 2))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}}, Batches(items, 500))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}}, Batches(items, 0))
	assert.Empty(t, Batches([]string{}, 3))
}
