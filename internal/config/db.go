package config

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"time"

	"eticket/internal/store"
	"eticket/migrations"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// OpenStore connects the configured backend and brings its schema up to date.
func OpenStore(ctx context.Context, env Env) (store.Store, error) {
	switch env.DBDriver {
	case DriverMemory:
		log.Println("[DB] using in-memory store")
		return store.NewMemoryStore(), nil
	case DriverMySQL:
		return openMySQL(ctx, env.DBDSN)
	case DriverPostgres:
		return openPostgres(ctx, env.DBDSN)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", env.DBDriver)
	}
}

func openMySQL(ctx context.Context, dsn string) (store.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is required for mysql")
	}
	dsn, err := mysqlDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	if err := migrate(ctx, goose.DialectMySQL, db, migrations.MySQL, "mysql"); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("[DB] connected to MySQL")
	return store.NewMySQLStore(db), nil
}

// mysqlDSN forces parseTime with UTC so DATETIME columns scan into
// time.Time, and fills in the connection timeouts when the DSN leaves them
// unset.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse DB_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	return cfg.FormatDSN(), nil
}

func openPostgres(ctx context.Context, dsn string) (store.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is required for postgres")
	}

	// goose drives database/sql, the store itself uses the pool
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()
	if err := migrate(ctx, goose.DialectPostgres, db, migrations.Postgres, "postgres"); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Println("[DB] connected to PostgreSQL")
	return store.NewPostgresStore(pool), nil
}

func migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys embed.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fmt.Errorf("migrations %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		log.Printf("[DB] migration applied version=%d duration_ms=%d", r.Source.Version, r.Duration.Milliseconds())
	}
	return nil
}
