package files

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ReadAll reads every named source with at most concurrency reads in
// flight. Tables are returned in the order of names regardless of which
// read finishes first; the first error cancels the remaining reads.
func ReadAll(ctx context.Context, reader TableReader, names []string, concurrency int) ([]Table, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	tables := make([]Table, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, name := range names {
		g.Go(func() error {
			t, err := reader.ReadTable(gctx, name)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
