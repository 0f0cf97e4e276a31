package storage

import (
	"context"
	"fmt"
)

// DefaultPageSize is used by Paginate when pageSize is not positive.
const DefaultPageSize = 1000

// PageFunc fetches one page of at most limit rows starting at offset.
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Paginate reads every page sequentially and hands each to visit. It stops after
// the first page holding fewer than pageSize rows, so a result set that exactly
// fills its last page costs one extra empty read.
func Paginate[T any](ctx context.Context, pageSize int, fetch PageFunc[T], visit func([]T) error) error {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	for offset := 0; ; offset += pageSize {
		page, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		if len(page) > 0 {
			if err := visit(page); err != nil {
				return err
			}
		}
		if len(page) < pageSize {
			return nil
		}
	}
}

// Batches splits items into consecutive chunks of at most size elements.
func Batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
