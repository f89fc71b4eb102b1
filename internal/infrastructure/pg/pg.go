package pg

import (
	"context"
	"fmt"
	"sort"
	"strings"

	infraconfig "cryptoprice-service/internal/infrastructure/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct{ Pool *pgxpool.Pool }

// ParamsFunc yields connection parameters, e.g. a settings file section.
type ParamsFunc func() (map[string]string, error)

var keyAliases = map[string]string{
	"database": "dbname",
	"db":       "dbname",
	"username": "user",
}

// ConnString renders psycopg-style parameters as a keyword/value connection string.
func ConnString(params map[string]string) string {
	kv := make(map[string]string, len(params))
	for k, v := range params {
		k = strings.ToLower(strings.TrimSpace(k))
		if alias, ok := keyAliases[k]; ok {
			k = alias
		}
		kv[k] = v
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+quote(kv[k]))
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	return connect(ctx, cfg)
}

// ConnectWithParams builds the pool from load and calls load again before
// every new physical connection, so edited credentials apply without restart.
func ConnectWithParams(ctx context.Context, load ParamsFunc) (*DB, error) {
	params, err := load()
	if err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(ConnString(params))
	if err != nil {
		return nil, fmt.Errorf("parse connection params: %w", err)
	}
	cfg.BeforeConnect = func(_ context.Context, cc *pgx.ConnConfig) error {
		params, err := load()
		if err != nil {
			return err
		}
		fresh, err := pgx.ParseConfig(ConnString(params))
		if err != nil {
			return fmt.Errorf("parse connection params: %w", err)
		}
		cc.Host, cc.Port = fresh.Host, fresh.Port
		cc.Database, cc.User, cc.Password = fresh.Database, fresh.User, fresh.Password
		return nil
	}
	return connect(ctx, cfg)
}

func connect(ctx context.Context, cfg *pgxpool.Config) (*DB, error) {
	cfg.MaxConns, cfg.MinConns = infraconfig.DefaultPGMaxConns, infraconfig.DefaultPGMinConns
	cfg.MaxConnIdleTime = infraconfig.DefaultPGIdleTime
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close()                         { d.Pool.Close() }
func (d *DB) Ping(ctx context.Context) error { return d.Pool.Ping(ctx) }
