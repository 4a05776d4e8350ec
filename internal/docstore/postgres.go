package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beyond-borders/ops-console/pkg/util"
)

// postgresStore keeps every collection in one JSONB-backed documents
// table, keyed by (collection, id).
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Postgres-backed Store.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	const query = `
        SELECT id, fields, created_at, updated_at
        FROM documents WHERE collection=$1 AND id=$2`

	var (
		doc Document
		raw []byte
	)
	if err := s.pool.QueryRow(ctx, query, collection, id).Scan(
		&doc.ID,
		&raw,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, util.NewNetworkError(err)
	}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

func (s *postgresStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO documents (collection, id, fields)
        VALUES ($1, $2, $3)
        ON CONFLICT (collection, id)
        DO UPDATE SET fields=EXCLUDED.fields, updated_at=NOW()`

	if _, err = s.pool.Exec(ctx, query, collection, id, raw); err != nil {
		return util.NewNetworkError(err)
	}
	return nil
}

func (s *postgresStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *postgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	const query = `
        UPDATE documents SET fields = fields || $3::jsonb, updated_at=NOW()
        WHERE collection=$1 AND id=$2`

	cmd, err := s.pool.Exec(ctx, query, collection, id, raw)
	if err != nil {
		return util.NewNetworkError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection=$1 AND id=$2`
	if _, err := s.pool.Exec(ctx, query, collection, id); err != nil {
		return util.NewNetworkError(err)
	}
	return nil
}

func (s *postgresStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	query := `SELECT id, fields, created_at, updated_at FROM documents WHERE collection=$1`
	args := []any{collection}

	for _, w := range q.Where {
		args = append(args, w.Field, fmt.Sprint(w.Value))
		query += fmt.Sprintf(" AND fields->>$%d = $%d", len(args)-1, len(args))
	}

	if q.OrderBy != nil {
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		if q.OrderBy.Field == "createdAt" {
			query += " ORDER BY created_at " + dir
		} else {
			args = append(args, q.OrderBy.Field)
			query += fmt.Sprintf(" ORDER BY fields->>$%d %s", len(args), dir)
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, util.NewNetworkError(err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			doc Document
			raw []byte
		)
		if err := rows.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc.Fields); err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", collection, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
