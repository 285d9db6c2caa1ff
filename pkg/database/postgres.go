package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/techforgyms/techforgyms_backend/config"
)

const pingTimeout = 5 * time.Second

// DB owns the gyms/profiles connection pool and its migrations.
type DB struct {
	conn *sql.DB
}

func NewFromCentral(ctx context.Context, c config.DatabaseConfig) (*DB, error) {
	return New(ctx, FromCentralConfig(c))
}

func New(ctx context.Context, cfg Config) (*DB, error) {
	conn, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{conn: conn}, nil
}

// open returns a pinged pool; a pool that cannot reach the server is closed.
func open(ctx context.Context, cfg Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBName, err)
	}
	conn.SetMaxOpenConns(cfg.Pool.MaxOpen)
	conn.SetMaxIdleConns(cfg.Pool.MaxIdle)
	conn.SetConnMaxLifetime(cfg.Pool.MaxLifetime)

	if err := ping(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s at %s:%d: %w", cfg.DBName, cfg.Host, cfg.Port, err)
	}
	return conn, nil
}

func ping(ctx context.Context, conn *sql.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}
	return conn.PingContext(ctx)
}

func (db *DB) Conn() *sql.DB { return db.conn }

func (db *DB) Ping(ctx context.Context) error { return ping(ctx, db.conn) }

func (db *DB) Close() error { return db.conn.Close() }
