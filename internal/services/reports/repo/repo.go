// Package repo provides postgres access for moderation reports
package repo

import (
	"context"
	"time"

	"rephraser/internal/modkit/repokit"
	perr "rephraser/internal/platform/errors"
	"rephraser/internal/platform/store"
)

// Repo defines the repository contract for reports
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, row Row) error
	Get(ctx context.Context, id string) (Row, error)
	Recent(ctx context.Context, limit int) ([]Row, error)
}

// Row is one stored report, Payload is the report JSON
type Row struct {
	ID        string
	CreatedAt time.Time
	Changes   int
	Payload   []byte
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

var schemaSQL = []string{`
create table if not exists moderation_reports (
	id         uuid primary key,
	created_at timestamptz not null,
	changes    integer not null default 0,
	payload    jsonb not null
)`,
	`create index if not exists moderation_reports_created_at_idx on moderation_reports (created_at desc)`,
}

// EnsureSchema creates the table and its index in one transaction
func (r *queries) EnsureSchema(ctx context.Context) error {
	err := repokit.WithTx(ctx, r.q, func(q repokit.Queryer) error {
		for _, stmt := range schemaSQL {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return perr.FromPostgres(err, "ensure moderation_reports schema")
	}
	return nil
}

func (r *queries) Insert(ctx context.Context, row Row) error {
	const sql = `
insert into moderation_reports (id, created_at, changes, payload)
values ($1::uuid, $2, $3, $4::jsonb)
`
	if err := store.ExecOne(ctx, r.q, sql, row.ID, row.CreatedAt, row.Changes, string(row.Payload)); err != nil {
		return perr.FromPostgres(err, "insert moderation report")
	}
	return nil
}

func scanRow(rs store.Row) (Row, error) {
	var (
		out     Row
		payload string
	)
	if err := rs.Scan(&out.ID, &out.CreatedAt, &out.Changes, &payload); err != nil {
		return Row{}, err
	}
	out.Payload = []byte(payload)
	return out, nil
}

func (r *queries) Get(ctx context.Context, id string) (Row, error) {
	const sql = `
select id::text, created_at, changes, payload::text
from moderation_reports
where id = $1::uuid
`
	out, err := store.One(ctx, r.q, scanRow, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return Row{}, perr.NotFoundf("report %s not found", id)
		}
		return Row{}, perr.FromPostgres(err, "get moderation report")
	}
	return out, nil
}

func (r *queries) Recent(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const sql = `
select id::text, created_at, changes, payload::text
from moderation_reports
order by created_at desc
limit $1
`
	out, err := store.Many(ctx, r.q, scanRow, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list moderation reports")
	}
	return out, nil
}
