package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bakehouse/internal/domain"
	"bakehouse/internal/errors"
)

const selectColumns = `
	SELECT id, orderId, customerName, customerEmail, customerPhone, customerAddress,
	       items, total, deliveryDate, deliveryTime, status, estimatedTime,
	       orderDate, deliveredAt
	FROM RemoteOrders`

type MySQLOrderRepository struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{
		db:    db,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// List returns every stored order, newest first.
func (r *MySQLOrderRepository) List(ctx context.Context) ([]domain.RemoteOrder, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY orderDate DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.RemoteOrder{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

// Create stores order under a fresh id. A missing status or order date is
// filled in with pending and the current time.
func (r *MySQLOrderRepository) Create(ctx context.Context, order domain.RemoteOrder) (domain.RemoteOrder, error) {
	order.ID = r.newID()
	if order.Status == "" {
		order.Status = domain.StatusPending
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = r.now().UTC()
	}
	if order.Items == nil {
		order.Items = []domain.LineItem{}
	}
	if order.Status == domain.StatusDelivered && order.DeliveredAt == nil {
		deliveredAt := order.OrderDate
		order.DeliveredAt = &deliveredAt
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return domain.RemoteOrder{}, fmt.Errorf("encoding items: %w", err)
	}

	query := `
		INSERT INTO RemoteOrders (
			id, orderId, customerName, customerEmail, customerPhone, customerAddress,
			items, total, deliveryDate, deliveryTime, status, estimatedTime,
			orderDate, deliveredAt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.OrderID,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone, order.Customer.Address,
		string(items), order.Total, order.DeliveryDate, order.DeliveryTime,
		string(order.Status), order.EstimatedTime,
		order.OrderDate, nullTime(order.DeliveredAt),
	)
	if err != nil {
		return domain.RemoteOrder{}, fmt.Errorf("inserting order: %w", err)
	}

	return order, nil
}

// FindByID looks an order up by its remote id, falling back to its orderId.
func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (domain.RemoteOrder, error) {
	query := selectColumns + ` WHERE id = ? OR orderId = ? ORDER BY orderDate LIMIT 1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return domain.RemoteOrder{}, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return domain.RemoteOrder{}, err
	}

	return order, nil
}

// UpdateStatus sets the status of the order matching id. The first move to
// delivered stamps deliveredAt.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.RemoteOrder, error) {
	query := `
		UPDATE RemoteOrders
		SET status = ?,
		    deliveredAt = CASE WHEN ? = 'delivered' AND deliveredAt IS NULL THEN ? ELSE deliveredAt END
		WHERE id = ? OR orderId = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(status), string(status), r.now().UTC(), id, id)
	if err != nil {
		return domain.RemoteOrder{}, fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.RemoteOrder{}, fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.RemoteOrder{}, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}

	return r.FindByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.RemoteOrder, error) {
	var (
		order       domain.RemoteOrder
		items       []byte
		status      string
		deliveredAt sql.NullTime
	)

	err := row.Scan(
		&order.ID, &order.OrderID,
		&order.Customer.Name, &order.Customer.Email, &order.Customer.Phone, &order.Customer.Address,
		&items, &order.Total, &order.DeliveryDate, &order.DeliveryTime,
		&status, &order.EstimatedTime, &order.OrderDate, &deliveredAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return domain.RemoteOrder{}, err
	}
	if err != nil {
		return domain.RemoteOrder{}, fmt.Errorf("scanning order: %w", err)
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return domain.RemoteOrder{}, fmt.Errorf("decoding items of order %s: %w", order.ID, err)
	}

	order.Status = domain.Status(status)
	if deliveredAt.Valid {
		t := deliveredAt.Time
		order.DeliveredAt = &t
	}

	return order, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
