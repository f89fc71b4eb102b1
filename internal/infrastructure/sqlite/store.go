// Package sqlite is a single-file storage backend with the same
// table-per-currency layout as the postgres store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cryptoprice-service/internal/application"
	"cryptoprice-service/internal/domain"
	"cryptoprice-service/internal/infrastructure/logx"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Store struct{ db *sql.DB }

var _ application.Store = (*Store)(nil)

// Open opens (or creates) the database file at path. Pragmas go through the
// DSN so every pooled connection gets them.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Session(ctx context.Context) (application.Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &session{conn: conn}, nil
}

type session struct{ conn *sql.Conn }

func ident(table string) string {
	return `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
}

func (s *session) Close() { _ = s.conn.Close() }

func (s *session) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`
	var exists int
	if err := s.conn.QueryRowContext(ctx, q, table).Scan(&exists); err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (s *session) CreateTable(ctx context.Context, table string) error {
	q := fmt.Sprintf(`
		CREATE TABLE %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT,
			value TEXT
		)`, ident(table))
	return s.exec(ctx, "CreateTable", table, q)
}

func (s *session) Insert(ctx context.Context, table string, rec domain.PriceRecord) error {
	q := fmt.Sprintf(`INSERT INTO %s (date, value) VALUES (?, ?)`, ident(table))
	return s.exec(ctx, "Insert", table, q, domain.FormatTime(rec.Date), rec.Value.String())
}

func (s *session) DropTable(ctx context.Context, table string) error {
	return s.exec(ctx, "DropTable", table, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, ident(table)))
}

func (s *session) SelectAll(ctx context.Context, table string) (domain.History, error) {
	q := fmt.Sprintf(`SELECT date, CAST(value AS TEXT) FROM %s ORDER BY id`, ident(table))
	rows, err := s.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := domain.History{}
	for rows.Next() {
		var date, value sql.NullString
		if err := rows.Scan(&date, &value); err != nil {
			return nil, err
		}
		if !date.Valid || !value.Valid {
			continue
		}
		t, err := domain.ParseTime(date.String)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date.String, err)
		}
		v, err := decimal.NewFromString(value.String)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", value.String, err)
		}
		out.Add(domain.PriceRecord{Date: t, Value: v})
	}
	return out, rows.Err()
}

func (s *session) exec(ctx context.Context, op, table, q string, args ...any) error {
	log := logx.L().With(
		zap.String("repo", "prices_sqlite"),
		zap.String("operation", op),
		zap.String("table", table),
	)
	res, err := s.conn.ExecContext(ctx, q, args...)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	n, _ := res.RowsAffected()
	log.Info("sql.exec_success", zap.Int64("rows_affected", n))
	return nil
}
