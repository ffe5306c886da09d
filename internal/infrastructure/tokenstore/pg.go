package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

type PgTokenStore struct {
	conn       *pgx.Conn
	origin     string
	selectStmt *pgconn.StatementDescription
	upsertStmt *pgconn.StatementDescription
	deleteStmt *pgconn.StatementDescription
}

func NewPgTokenStore(ctx context.Context, databaseDSN string, origin string) (*PgTokenStore, error) {
	conn, err := pgx.Connect(ctx, databaseDSN)
	if err != nil {
		return nil, err
	}
	store := PgTokenStore{
		conn:   conn,
		origin: origin,
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = store.migrate(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}

	querySelect := `select token from shortener.session_tokens where origin = $1`
	if store.selectStmt, err = conn.Prepare(ctx, "select token", querySelect); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}

	queryUpsert := `
insert into shortener.session_tokens(origin, token) values ($1, $2)
on conflict(origin) do update set token = excluded.token, updated_at = now()`
	if store.upsertStmt, err = conn.Prepare(ctx, "upsert token", queryUpsert); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}

	queryDelete := `delete from shortener.session_tokens where origin = $1`
	if store.deleteStmt, err = conn.Prepare(ctx, "delete token", queryDelete); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}

	return &store, nil
}

// Get достает токен origin из БД
func (p *PgTokenStore) Get(ctx context.Context) (string, error) {
	var token string
	err := p.conn.QueryRow(ctx, p.selectStmt.Name, p.origin).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// Set сохраняет токен origin, заменяя предыдущий
func (p *PgTokenStore) Set(ctx context.Context, token string) error {
	_, err := p.conn.Exec(ctx, p.upsertStmt.Name, p.origin, token)
	return err
}

// Clear удаляет токен origin
func (p *PgTokenStore) Clear(ctx context.Context) error {
	_, err := p.conn.Exec(ctx, p.deleteStmt.Name, p.origin)
	return err
}

// Close закрывает, все, что надо закрыть
func (p *PgTokenStore) Close(ctx context.Context) error {
	for _, stmt := range []*pgconn.StatementDescription{p.selectStmt, p.upsertStmt, p.deleteStmt} {
		_ = p.conn.Deallocate(ctx, stmt.Name)
	}
	return p.conn.Close(ctx)
}

func (p *PgTokenStore) migrate(ctx context.Context) error {
	migration := `
		CREATE SCHEMA IF NOT EXISTS shortener;

		CREATE TABLE IF NOT EXISTS shortener.session_tokens(
			origin varchar primary key,
			token varchar not null,
			updated_at TIMESTAMP not null default now()
		);
		`
	_, err := p.conn.Exec(ctx, migration)
	return err
}
