package migrator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/dbmover/internal/logger"
	"github.com/dbsmedya/dbmover/internal/schema"
	"github.com/dbsmedya/dbmover/internal/sqlutil"
)

// commonColumns computes the column intersection between the source and
// target schemas, in source column order, excluding ignored columns.
func commonColumns(src, tgt *schema.Schema, ignore map[string]bool) []string {
	var columns []string
	for _, col := range src.Columns {
		if ignore[col.Name] {
			continue
		}
		if tgt.Has(col.Name) {
			columns = append(columns, col.Name)
		}
	}
	return columns
}

// transfer paginates source rows and writes them to the target in bounded
// chunks. The writes within one chunk are launched concurrently and the
// transfer waits for all of them before advancing the offset; the row count
// is accumulated only after a chunk's writes all succeed.
//
// The paginated read imposes no ORDER BY, so absolute row order across runs
// follows whatever the source naturally returns. Callers that need stable
// chunk membership on a live source must provide a quiesced table.
//
// In dry-run mode chunks are read and counted but no writes occur.
func transfer(ctx context.Context, src schema.Querier, tgt Execer, table string, columns []string, opts Options, log *logger.Logger) (int64, error) {
	quotedTable, err := sqlutil.QuoteIdentifierSafe(table)
	if err != nil {
		return 0, err
	}

	columnList := strings.Join(sqlutil.QuoteAll(columns), ", ")
	selectQuery := fmt.Sprintf("SELECT %s FROM %s LIMIT ? OFFSET ?", columnList, quotedTable)
	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quotedTable, columnList, sqlutil.Placeholders(len(columns)))

	var migrated int64
	offset := 0
	chunkNum := 0

	for {
		chunk, err := readChunk(ctx, src, selectQuery, len(columns), opts.ChunkSize, offset)
		if err != nil {
			return migrated, fmt.Errorf("failed to read chunk at offset %d from table %q: %w", offset, table, err)
		}
		if len(chunk) == 0 {
			break
		}
		chunkNum++

		if !opts.DryRun {
			if err := writeChunk(ctx, tgt, table, insertQuery, chunk); err != nil {
				return migrated, err
			}
		}

		migrated += int64(len(chunk))
		offset += len(chunk)
		log.WithChunk(chunkNum).Debugw("Chunk transferred", "rows", len(chunk), "total", migrated)

		if len(chunk) < opts.ChunkSize {
			break
		}
	}

	return migrated, nil
}

// readChunk reads up to chunkSize rows starting at offset, fully
// materializing the chunk before any write begins.
func readChunk(ctx context.Context, src schema.Querier, query string, columnCount, chunkSize, offset int) ([][]interface{}, error) {
	rows, err := src.QueryContext(ctx, query, chunkSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunk [][]interface{}
	for rows.Next() {
		values := make([]interface{}, columnCount)
		ptrs := make([]interface{}, columnCount)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		chunk = append(chunk, values)
	}

	return chunk, rows.Err()
}

// writeChunk issues one positional insert per row, all launched concurrently,
// and waits for the whole chunk before returning. Concurrency is bounded by
// the chunk size; the next chunk never starts before this one has fully
// completed or failed.
func writeChunk(ctx context.Context, tgt Execer, table, insertQuery string, chunk [][]interface{}) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, row := range chunk {
		row := row
		g.Go(func() error {
			if _, err := tgt.ExecContext(gctx, insertQuery, row...); err != nil {
				return &TransferWriteError{Table: table, Err: err}
			}
			return nil
		})
	}

	return g.Wait()
}
