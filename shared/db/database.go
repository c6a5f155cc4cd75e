package db

import (
	"database/sql"
)

// Database is a connection to the build index store.
type Database interface {
	// Connect opens the store and brings its schema up to date.
	Connect() error
	Close() error
	DB() *sql.DB

	// Path is the location the store was opened from.
	Path() string
}
