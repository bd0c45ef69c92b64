package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig builds the pgx pool configuration from cfg. The charset maps
// to the client_encoding runtime parameter.
func PoolConfig(cfg DBConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(fmt.Sprintf("sslmode=%s", cfg.SSLMode))
	if err != nil {
		return nil, fmt.Errorf("invalid database settings: %w", err)
	}

	cc := poolCfg.ConnConfig
	cc.Host = cfg.Host
	cc.Port = cfg.Port
	cc.User = cfg.User
	cc.Password = cfg.Password
	cc.Database = cfg.Name
	if cfg.Charset != "" {
		cc.RuntimeParams["client_encoding"] = cfg.Charset
	}
	poolCfg.MaxConns = cfg.MaxConns

	return poolCfg, nil
}

// ConnectDB opens the pool and checks it with a single ping. Failures are
// reported immediately.
func ConnectDB(ctx context.Context, cfg DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	return pool, nil
}
