package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn inserts one batch of rows (aligned to columns) and returns the
// number of rows written. It must return promptly once ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn per non-empty batch. It returns the running total and the
// first error. Each successful flush logs a progress line tagged with table.
func LoadBatches(
	ctx context.Context,
	table string,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int64
		batch   = make([][]any, 0, batchSize)
		start   = time.Now()
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		// copyFn must not retain the slice; a fresh one avoids aliasing.
		batch = make([][]any, 0, batchSize)
		if err != nil {
			log.Printf("store: %s: copy failed after=%d total=%d err=%v", table, n, total, err)
			return err
		}
		batches++
		log.Printf("store: %s batch #%d inserted=%d total=%d elapsed=%s",
			table, batches, n, total, time.Since(start).Truncate(time.Millisecond))
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case row, ok := <-in:
			if !ok {
				return total, flush()
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
