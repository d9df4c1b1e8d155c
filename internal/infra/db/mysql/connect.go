package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool limits for the connection pool; zero values keep the defaults.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(orInt(p.MaxOpen, 25))
	db.SetMaxIdleConns(orInt(p.MaxIdle, 10))
	if p.MaxLifetime > 0 {
		db.SetConnMaxLifetime(p.MaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}
}

func Connect(ctx context.Context, dsn string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	pool.apply(db)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
