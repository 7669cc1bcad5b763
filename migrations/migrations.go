package migrations

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AutoMigrateUsers creates the users table if it does not exist.
func AutoMigrateUsers(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		);
	`
	return execWithRetry(query, retries, dbs...)
}

// AutoMigrateComments creates the comments table if it does not exist.
func AutoMigrateComments(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL
		);
	`
	return execWithRetry(query, retries, dbs...)
}

func execWithRetry(query string, retries int, dbs ...*sql.DB) error {
	for _, db := range dbs {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedUsers bulk-inserts the demo users with bcrypt-hashed passwords.
// It only runs against an empty users table, so restarts do not duplicate rows.
func SeedUsers(ctx context.Context, db *sql.DB, credentials map[string]string) error {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	query := `INSERT INTO users (username, password) VALUES (?, ?)`
	for username, password := range credentials {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, query, username, string(hash))
		if err != nil {
			return err
		}
	}

	return nil
}
