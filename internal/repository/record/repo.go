package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domrec "github.com/kailas-cloud/hunt/internal/domain/record"
)

// querier is the consumer interface for the relational store (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo reads stored records from PostgreSQL.
type Repo struct {
	db querier
}

// New creates a record repository.
func New(db querier) *Repo {
	return &Repo{db: db}
}

// Connect opens a connection pool and verifies it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// ForEachBatch scans the table of q.Type in key order, calling fn with each
// chunk. A chunk shorter than the batch size ends the scan.
func (r *Repo) ForEachBatch(ctx context.Context, q domrec.BatchQuery, fn func([]*domrec.Record) error) error {
	if q.Type == nil {
		return fmt.Errorf("batch query without type")
	}
	size := q.BatchSize()
	sql, args := buildQuery(q)

	for offset := 0; ; offset += size {
		chunk, err := r.fetch(ctx, q.Type, sql, append(args, size, offset)...)
		if err != nil {
			return fmt.Errorf("scan %s at offset %d: %w", q.Type.Table, offset, err)
		}
		if len(chunk) == 0 {
			return nil
		}
		if err := fn(chunk); err != nil {
			return err
		}
		if len(chunk) < size {
			return nil
		}
	}
}

func (r *Repo) fetch(ctx context.Context, t *domrec.Type, sql string, args ...any) ([]*domrec.Record, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []*domrec.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		attrs := make(map[string]any, len(fields))
		for i, f := range fields {
			attrs[f.Name] = normalize(values[i])
		}
		out = append(out, t.NewExisting(attrs))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// buildQuery renders the chunk query; LIMIT and OFFSET are the last two
// placeholders.
func buildQuery(q domrec.BatchQuery) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(pgx.Identifier{q.Type.Table}.Sanitize())

	args := make([]any, 0, len(q.Where)+2)
	for i, c := range q.Where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, c.Value)
		fmt.Fprintf(&b, "%s = $%d", pgx.Identifier{c.Column}.Sanitize(), len(args))
	}

	fmt.Fprintf(&b, " ORDER BY %s LIMIT $%d OFFSET $%d",
		pgx.Identifier{q.Type.KeyName}.Sanitize(), len(args)+1, len(args)+2)
	return b.String(), args
}

// normalize converts driver values that do not encode well as documents.
func normalize(v any) any {
	if u, ok := v.([16]byte); ok {
		return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
	}
	return v
}
