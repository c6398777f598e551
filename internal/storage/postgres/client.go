package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"honeypoty/backend/internal/config"
)

// DB 是存储层用到的 pgxpool.Pool 方法子集
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// schema 与 migrations/postgres/001_initial_schema.up.sql 保持一致
const schema = `
CREATE TABLE IF NOT EXISTS email_spaces (
	id            BIGSERIAL PRIMARY KEY,
	email         VARCHAR(255) NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	CONSTRAINT idx_email_spaces_email UNIQUE (email)
);
CREATE INDEX IF NOT EXISTS idx_email_spaces_active ON email_spaces (is_active, last_activity);
CREATE TABLE IF NOT EXISTS emails (
	id           BIGSERIAL PRIMARY KEY,
	space_id     BIGINT NOT NULL REFERENCES email_spaces(id) ON DELETE RESTRICT,
	sender_email VARCHAR(255) NOT NULL,
	subject      VARCHAR(998) NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	received_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_emails_space_received ON emails (space_id, received_at DESC);
CREATE INDEX IF NOT EXISTS idx_emails_sender ON emails (sender_email);
`

// Client 持有进程内共享的 pgx 连接池。
//
// 连接池的 MaxConns 即并发语句上限，超出的调用在 Acquire 处排队。
type Client struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New 连接数据库并确保表结构存在
func New(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}
	applyPoolLimits(poolConfig, cfg)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	client := &Client{pool: pool, log: log}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := client.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("connected to PostgreSQL",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
	)
	return client, nil
}

// applyPoolLimits 将配置中的连接池参数映射到 pgxpool
func applyPoolLimits(poolConfig *pgxpool.Config, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	minConns := int32(cfg.MaxIdleConns)
	if minConns > poolConfig.MaxConns {
		minConns = poolConfig.MaxConns
	}
	if minConns > 0 {
		poolConfig.MinConns = minConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	poolConfig.MaxConnIdleTime = 30 * time.Minute
}

// EnsureSchema 创建空间表和邮件表（幂等）
func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// DB 返回供存储层使用的连接池
func (c *Client) DB() DB {
	return c.pool
}

// OpenConnections 返回当前已建立的连接数，用于连接数指标
func (c *Client) OpenConnections() int {
	return int(c.pool.Stat().TotalConns())
}

// Close 关闭连接池
func (c *Client) Close() {
	c.pool.Close()
	c.log.Info("PostgreSQL connection closed")
}
