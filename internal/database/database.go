package database

import (
	"database/sql"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS hotels (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		description TEXT NOT NULL,
		type TEXT NOT NULL,
		adult_count INTEGER NOT NULL,
		child_count INTEGER NOT NULL,
		price_per_night REAL NOT NULL,
		star_rating INTEGER NOT NULL,
		-- Store list fields as JSON text
		facilities_json TEXT NOT NULL,
		image_urls_json TEXT NOT NULL,
		last_updated DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT NOT NULL PRIMARY KEY,
		hotel_id TEXT NOT NULL REFERENCES hotels(id),
		user_id TEXT NOT NULL REFERENCES users(id),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		adult_count INTEGER NOT NULL,
		child_count INTEGER NOT NULL,
		check_in DATETIME NOT NULL,
		check_out DATETIME NOT NULL,
		total_cost REAL NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// SeedDevUser inserts the fixed account the e2e suite signs in with.
// A no-op when the account already exists. Not called in production.
func SeedDevUser(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", "1@1.com").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT INTO users(id, first_name, last_name, email, password_hash) VALUES(?, ?, ?, ?, ?)",
		uuid.New().String(), "Test", "User", "1@1.com", string(hash),
	)
	return err
}
