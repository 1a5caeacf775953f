package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"bakehouse/internal/infrastructure/mysql"
)

// SetupTestDB opens the integration database and skips the test when it is
// not reachable. It expects a MySQL database named bakehouse_test on
// localhost:3306.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "root:@tcp(localhost:3306)/bakehouse_test?parseTime=true&clientFoundRows=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the remote order table.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
}

// CleanupTestDB empties the tables and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	if _, err := db.Exec("DELETE FROM RemoteOrders"); err != nil {
		t.Logf("failed to clean table RemoteOrders: %v", err)
	}

	db.Close()
}
