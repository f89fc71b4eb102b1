package pg

import (
	"context"
	"fmt"
	"time"

	"cryptoprice-service/internal/application"
	"cryptoprice-service/internal/domain"
	"cryptoprice-service/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store hands out one pooled connection per operation.
type Store struct{ db *DB }

var _ application.Store = (*Store)(nil)

func NewStore(db *DB) *Store { return &Store{db: db} }

func (s *Store) Session(ctx context.Context) (application.Session, error) {
	conn, err := s.db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &session{conn: conn}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

type session struct {
	conn *pgxpool.Conn
}

func ident(table string) string { return pgx.Identifier{table}.Sanitize() }

func (s *session) Close() { s.conn.Release() }

// TableExists matches on table name only; a same-named table in another
// schema also counts.
func (s *session) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `
        SELECT EXISTS (
            SELECT 1
            FROM information_schema.tables
            WHERE table_name = $1)`
	var exists bool
	if err := s.conn.QueryRow(ctx, q, table).Scan(&exists); err != nil {
		logx.L().Error("sql.query_failed",
			zap.String("repo", "prices"),
			zap.String("operation", "TableExists"),
			zap.String("table", table),
			zap.Error(err),
		)
		return false, err
	}
	return exists, nil
}

func (s *session) CreateTable(ctx context.Context, table string) error {
	q := fmt.Sprintf(`
        CREATE TABLE %s
            (id SERIAL PRIMARY KEY,
             date TIMESTAMP WITHOUT TIME ZONE,
             value NUMERIC)`, ident(table))
	return s.exec(ctx, "CreateTable", table, q)
}

func (s *session) Insert(ctx context.Context, table string, rec domain.PriceRecord) error {
	q := fmt.Sprintf(`INSERT INTO %s (date, value) VALUES ($1, $2)`, ident(table))
	return s.exec(ctx, "Insert", table, q, rec.Date.UTC(), rec.Value.String())
}

func (s *session) DropTable(ctx context.Context, table string) error {
	q := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, ident(table))
	return s.exec(ctx, "DropTable", table, q)
}

func (s *session) SelectAll(ctx context.Context, table string) (domain.History, error) {
	q := fmt.Sprintf(`SELECT date, value::text FROM %s ORDER BY id`, ident(table))
	log := logx.L().With(
		zap.String("repo", "prices"),
		zap.String("operation", "SelectAll"),
		zap.String("table", table),
	)
	rows, err := s.conn.Query(ctx, q)
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := domain.History{}
	for rows.Next() {
		var date *time.Time
		var value *string
		if err := rows.Scan(&date, &value); err != nil {
			return nil, err
		}
		if date == nil || value == nil {
			continue
		}
		v, err := decimal.NewFromString(*value)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", *value, err)
		}
		out.Add(domain.PriceRecord{Date: *date, Value: v})
	}
	if err := rows.Err(); err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	log.Debug("sql.query_success", zap.Int("rows", len(out)))
	return out, nil
}

func (s *session) exec(ctx context.Context, op, table, q string, args ...any) error {
	log := logx.L().With(
		zap.String("repo", "prices"),
		zap.String("operation", op),
		zap.String("table", table),
	)
	log.Debug("sql.exec_start")
	tag, err := s.conn.Exec(ctx, q, args...)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}
