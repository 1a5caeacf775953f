package mysql

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"bakehouse/internal/config"
)

// DSN enables clientFoundRows so an UPDATE that matches a row reports it as
// affected even when the values did not change.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
	)
}

func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

const createRemoteOrdersTable = `
CREATE TABLE IF NOT EXISTS RemoteOrders (
	id CHAR(36) NOT NULL PRIMARY KEY,
	orderId VARCHAR(32) NOT NULL,
	customerName VARCHAR(150) NOT NULL DEFAULT '',
	customerEmail VARCHAR(150) NOT NULL DEFAULT '',
	customerPhone VARCHAR(30) NOT NULL DEFAULT '',
	customerAddress VARCHAR(255) NOT NULL DEFAULT '',
	items JSON NOT NULL,
	total DECIMAL(10,2) NOT NULL DEFAULT 0.00,
	deliveryDate VARCHAR(10) NOT NULL DEFAULT '',
	deliveryTime VARCHAR(10) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	estimatedTime VARCHAR(50) NOT NULL DEFAULT '',
	orderDate DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	deliveredAt DATETIME(3) NULL,
	INDEX idx_order_id (orderId),
	INDEX idx_order_date (orderDate)
)`

// Migrate creates the remote order table when missing.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(createRemoteOrdersTable); err != nil {
		return fmt.Errorf("creating RemoteOrders table: %w", err)
	}
	return nil
}
