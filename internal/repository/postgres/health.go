package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// StoreChecker reports database reachability for the connectivity endpoint.
type StoreChecker struct {
	DB *sql.DB
}

func NewStoreChecker(db *sql.DB) *StoreChecker {
	return &StoreChecker{DB: db}
}

// Check pings the database and returns the number of configured events.
func (c *StoreChecker) Check(ctx context.Context) (int, error) {
	if err := c.DB.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("ping database: %w", err)
	}
	var n int
	if err := c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
