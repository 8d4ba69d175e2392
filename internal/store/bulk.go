package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// bulkConcurrency caps the requests a bulk call has in flight.
const bulkConcurrency = 8

// BulkResult counts the per-item outcomes of a bulk call.
type BulkResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// BulkRemoveFromWishlist removes every id, one request each, and reconciles
// once for the ids that succeeded. A single toast reports the counts. The
// error is non-nil only when every request failed.
func (s *WishlistStore) BulkRemoveFromWishlist(ctx context.Context, ids []int64) (BulkResult, error) {
	done := s.status.begin(OpBulkRemove)
	defer done()

	return s.bulk(ctx, ids, s.api.RemoveFromWishlist, "removed", "Failed to remove items")
}

// BulkMoveToCart moves every id into the cart, one request each.
func (s *WishlistStore) BulkMoveToCart(ctx context.Context, ids []int64) (BulkResult, error) {
	done := s.status.begin(OpBulkMove)
	defer done()

	return s.bulk(ctx, ids, s.api.MoveToCart, "moved to cart", "Failed to move items to cart")
}

func (s *WishlistStore) bulk(
	ctx context.Context,
	ids []int64,
	call func(context.Context, int64) error,
	verb, fallback string,
) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, nil
	}

	// Every request runs to completion; one failure never cancels the rest.
	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(bulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			errs[i] = call(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	var succeeded []int64
	var firstErr error
	for i, err := range errs {
		if err == nil {
			succeeded = append(succeeded, ids[i])
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	result := BulkResult{Succeeded: len(succeeded), Failed: len(ids) - len(succeeded)}

	if result.Succeeded > 0 {
		s.reconcile(ctx, withoutIDs(succeeded...))
	}

	switch {
	case result.Failed == 0:
		s.notifier.Success(fmt.Sprintf("%s %s", countItems(result.Succeeded), verb))
	case result.Succeeded == 0:
		s.fail(firstErr, "bulk", fallback)
		return result, fmt.Errorf("all %d requests failed: %w", result.Failed, firstErr)
	default:
		s.notifier.Error(fmt.Sprintf("%s %s, %d failed", countItems(result.Succeeded), verb, result.Failed))
	}
	return result, nil
}

func countItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
