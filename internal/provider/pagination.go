package provider

import (
	"context"
	"log/slog"
)

// MaxPageOffset is the hard pagination safety ceiling. Upstreams have been
// observed reporting bogus total counts; once the offset passes this ceiling
// the page loop stops regardless of the reported total.
const MaxPageOffset = 500

// PageFunc fetches one page at the given offset and returns the number of
// records in the page together with the upstream's reported total count.
type PageFunc func(ctx context.Context, offset int) (count int, total int, err error)

// Paginate drives an offset-based pagination loop: it requests successive
// offsets, accumulating a running count, and stops once the running count
// reaches the upstream's reported total. If the offset exceeds MaxPageOffset
// the loop stops with a warning instead of trusting the total.
func Paginate(ctx context.Context, logger *slog.Logger, fn PageFunc) error {
	offset := 0
	fetched := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		count, total, err := fn(ctx, offset)
		if err != nil {
			return err
		}
		fetched += count

		if fetched >= total || count == 0 {
			return nil
		}
		if fetched > MaxPageOffset {
			logger.Warn("too many results returned, stopping pagination",
				slog.Int("reported_total", total),
				slog.Int("fetched", fetched),
				slog.Int("offset_ceiling", MaxPageOffset))
			return nil
		}
		offset = fetched
	}
}
