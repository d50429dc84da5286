package photos

import (
	"context"
	"fmt"
)

// Page is one page of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// PageFunc fetches one page of a listing. The first call receives an empty
// cursor; subsequent calls receive the previous page's NextCursor.
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// PageError reports a page fetch that failed partway through a traversal.
// Yielded is the number of items handed to the caller before the failure, so
// the caller can decide whether the partial result is usable.
type PageError struct {
	Yielded int
	Err     error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page fetch failed after %d items: %v", e.Yielded, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Each walks a full listing, invoking yield for every item in the order the
// remote returns them. Traversal follows NextCursor until a page comes back
// without one. A failed page fetch stops the traversal and is returned as a
// *PageError; an error from yield stops it and is returned unchanged.
func Each[T any](ctx context.Context, fetch PageFunc[T], yield func(T) error) error {
	yielded := 0
	cursor := ""
	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return &PageError{Yielded: yielded, Err: err}
		}
		for _, item := range page.Items {
			if err := yield(item); err != nil {
				return err
			}
			yielded++
		}
		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

// Collect walks a full listing and returns every item. On a page fetch
// failure the items collected so far are returned alongside the *PageError.
func Collect[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var items []T
	err := Each(ctx, fetch, func(item T) error {
		items = append(items, item)
		return nil
	})
	return items, err
}
