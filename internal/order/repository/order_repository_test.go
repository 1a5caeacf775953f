package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakehouse/internal/domain"
	"bakehouse/internal/errors"
	"bakehouse/internal/testutil"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newMockRepository(t *testing.T) (*MySQLOrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewMySQLOrderRepository(db)
	repo.now = func() time.Time { return fixedNow }
	repo.newID = func() string { return "6f1c2a9e-2b51-4c43-9f0a-2d5d2b0c8e11" }
	return repo, mock
}

var orderColumns = []string{
	"id", "orderId", "customerName", "customerEmail", "customerPhone", "customerAddress",
	"items", "total", "deliveryDate", "deliveryTime", "status", "estimatedTime",
	"orderDate", "deliveredAt",
}

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.NotEmpty(t, repo.newID())
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)
	deliveredAt := fixedNow.Add(2 * time.Hour)

	rows := sqlmock.NewRows(orderColumns).
		AddRow("r-2", "1002", "", "ravi@example.com", "9123456780", "3 Lake View",
			`[{"name":"Cupcake","unitPrice":80,"quantity":6}]`, 480.0, "2026-10-17", "10:00", "delivered", "Delivered",
			fixedNow, deliveredAt).
		AddRow("r-1", "1001", "Asha", "asha@example.com", "9876543210", "12 MG Road",
			`[]`, 0.0, "2026-10-16", "18:00", "pending", "",
			fixedNow.Add(-time.Hour), nil)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY orderDate DESC")).WillReturnRows(rows)

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "r-2", orders[0].ID)
	assert.Equal(t, domain.StatusDelivered, orders[0].Status)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 80.0, orders[0].Items[0].UnitPrice)
	require.NotNil(t, orders[0].DeliveredAt)
	assert.Equal(t, deliveredAt, *orders[0].DeliveredAt)

	assert.Equal(t, "Asha", orders[1].Customer.Name)
	assert.Nil(t, orders[1].DeliveredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestList_CorruptItems(t *testing.T) {
	repo, mock := newMockRepository(t)
	rows := sqlmock.NewRows(orderColumns).
		AddRow("r-1", "1001", "", "", "", "", `not json`, 0.0, "", "", "pending", "", fixedNow, nil)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "decoding items of order r-1")
}

func TestCreate_FillsDefaults(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO RemoteOrders")).
		WithArgs(
			"6f1c2a9e-2b51-4c43-9f0a-2d5d2b0c8e11", "1001",
			"Asha", "asha@example.com", "9876543210", "12 MG Road",
			`[{"name":"Chocolate Cake","unitPrice":500,"quantity":2}]`, 1000.0, "2026-10-16", "18:00",
			"pending", "",
			fixedNow, sql.NullTime{},
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(context.Background(), domain.RemoteOrder{
		OrderID:      "1001",
		Customer:     domain.Customer{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Address: "12 MG Road"},
		Items:        []domain.LineItem{{Name: "Chocolate Cake", UnitPrice: 500, Quantity: 2}},
		Total:        1000,
		DeliveryDate: "2026-10-16",
		DeliveryTime: "18:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "6f1c2a9e-2b51-4c43-9f0a-2d5d2b0c8e11", created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, fixedNow, created.OrderDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("INSERT INTO RemoteOrders").WillReturnError(assert.AnError)

	_, err := repo.Create(context.Background(), domain.RemoteOrder{OrderID: "1001"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? OR orderId = ?")).
		WithArgs("missing", "missing").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := repo.FindByID(context.Background(), "missing")

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUpdateStatus_Success(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE RemoteOrders")).
		WithArgs("delivered", "delivered", fixedNow, "r-1", "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? OR orderId = ?")).
		WithArgs("r-1", "r-1").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("r-1", "1001", "", "", "", "", `[]`, 0.0, "", "", "delivered", "", fixedNow, fixedNow))

	order, err := repo.UpdateStatus(context.Background(), "r-1", domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, order.Status)
	require.NotNil(t, order.DeliveredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("UPDATE RemoteOrders").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateStatus(context.Background(), "missing", domain.StatusReady)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

// Integration Tests

func TestOrderRepository_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.RemoteOrder{
		OrderID:  "1760607000000",
		Customer: domain.Customer{Email: "asha@example.com"},
		Items:    []domain.LineItem{{Name: "Chocolate Cake", UnitPrice: 500, Quantity: 2}},
		Total:    1000,
	})
	require.NoError(t, err)

	byOrderID, err := repo.FindByID(ctx, "1760607000000")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byOrderID.ID)

	updated, err := repo.UpdateStatus(ctx, created.ID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)

	again, err := repo.UpdateStatus(ctx, created.ID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, *updated.DeliveredAt, *again.DeliveredAt)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)
}
