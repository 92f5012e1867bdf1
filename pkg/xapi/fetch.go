package xapi

import (
	"context"
	"errors"
)

// fetchPages drains pager through the invoker until maxResults normalized
// items have been collected or the cursor stream ends, whichever comes first.
// No further page is requested once the target count is reached. An empty
// result set (ErrNoMorePages on the first page) is a normal empty slice, not
// a failure.
func fetchPages[T any, U any](ctx context.Context, inv *Invoker, pager Pager[T], normalize func(*T) U, maxResults int) ([]U, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	var items []U
	for len(items) < maxResults {
		page, err := Invoke(ctx, inv, func() ([]T, error) {
			return pager.Next(ctx)
		})
		if err != nil {
			if errors.Is(err, ErrNoMorePages) {
				break
			}
			return nil, err
		}

		for i := range page {
			items = append(items, normalize(&page[i]))
			if len(items) >= maxResults {
				return items, nil
			}
		}
	}

	return items, nil
}

// clampPageSize bounds a requested page size to the endpoint family's
// documented limits before the request is issued.
func clampPageSize(requested, min, max int) int {
	if requested < min {
		return min
	}
	if requested > max {
		return max
	}
	return requested
}
