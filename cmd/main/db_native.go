//go:build !cgo_sqlite

package main

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// openDB opens the page database with the pure-Go sqlite driver.
func openDB(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite", dataSource)
}
