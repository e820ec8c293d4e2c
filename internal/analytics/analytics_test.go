package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return NewService(gdb), mock
}

func TestUsersPerMonthLatestTwelveAscending(t *testing.T) {
	svc, mock := newTestService(t)

	// The query returns the latest 12 months newest-first; the service
	// reverses them into chronological order.
	rows := sqlmock.NewRows([]string{"month", "count"})
	for i := 0; i < 12; i++ {
		month := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		rows.AddRow(month.Format("2006-01"), int64(i+1))
	}
	mock.ExpectQuery(`FROM users`).WillReturnRows(rows)

	out, err := svc.UsersPerMonth(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 12)

	assert.Equal(t, "2024-01", out[0].Month)
	assert.Equal(t, "2024-12", out[11].Month)
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i-1].Month, out[i].Month)
	}
	assert.Equal(t, int64(12), out[0].Count)
	assert.Equal(t, int64(1), out[11].Count)
}

func TestUsersByCountryFoldsUnknown(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`FROM users`).WillReturnRows(
		sqlmock.NewRows([]string{"country", "count"}).
			AddRow("Brazil", int64(5)).
			AddRow("Unknown", int64(3)).
			AddRow("Canada", int64(1)))

	out, err := svc.UsersByCountry(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Brazil", out[0].Country)
	assert.Equal(t, int64(5), out[0].Count)
}

func TestActivityTrendsChronologicalWithDerivedRevenue(t *testing.T) {
	svc, mock := newTestService(t)

	userRows := sqlmock.NewRows([]string{"date", "user_count"}).
		AddRow("2024-06-03", int64(4)).
		AddRow("2024-06-01", int64(2))
	mock.ExpectQuery(`FROM users`).WillReturnRows(userRows)

	txRows := sqlmock.NewRows([]string{"date", "transaction_count", "total_amount"}).
		AddRow("2024-06-02", int64(7), 700.0).
		AddRow("2024-05-30", int64(3), 150.5)
	mock.ExpectQuery(`FROM transactions`).WillReturnRows(txRows)

	out, err := svc.ActivityTrends(context.Background())
	require.NoError(t, err)

	require.Len(t, out.UserTrends, 2)
	assert.Equal(t, "2024-06-01", out.UserTrends[0].Date)
	assert.Equal(t, "2024-06-03", out.UserTrends[1].Date)

	require.Len(t, out.TransactionTrends, 2)
	assert.Equal(t, "2024-05-30", out.TransactionTrends[0].Date)

	// Revenue is derived from the transaction rows, same window.
	require.Len(t, out.RevenueTrends, 2)
	assert.Equal(t, "2024-05-30", out.RevenueTrends[0].Date)
	assert.InDelta(t, 150.5, out.RevenueTrends[0].TotalAmount, 0.001)
	assert.InDelta(t, 700.0, out.RevenueTrends[1].TotalAmount, 0.001)
}

func TestActivityTrendsFailsWholeOnSubQueryError(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`FROM users`).WillReturnRows(
		sqlmock.NewRows([]string{"date", "user_count"}))
	mock.ExpectQuery(`FROM transactions`).WillReturnError(sql.ErrConnDone)

	_, err := svc.ActivityTrends(context.Background())
	assert.Error(t, err)
}

func TestRecentEntriesMergedCappedDescending(t *testing.T) {
	svc, mock := newTestService(t)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// 5 users, 5 transactions, 3 tickets with 13 distinct timestamps.
	userRows := sqlmock.NewRows([]string{"user_id", "name", "email", "registration_date"})
	for i := 0; i < 5; i++ {
		userRows.AddRow(i+1, fmt.Sprintf("User %d", i+1), fmt.Sprintf("u%d@example.com", i+1),
			base.Add(time.Duration(13-i)*time.Hour))
	}
	mock.ExpectQuery(`FROM users`).WillReturnRows(userRows)

	txRows := sqlmock.NewRows([]string{"transaction_id", "user_name", "product_name", "amount", "purchase_date"})
	for i := 0; i < 5; i++ {
		txRows.AddRow(i+1, fmt.Sprintf("User %d", i+1), "Widget", 10.0,
			base.Add(time.Duration(8-i)*time.Hour))
	}
	mock.ExpectQuery(`FROM transactions`).WillReturnRows(txRows)

	ticketRows := sqlmock.NewRows([]string{"ticket_id", "user_name", "issue_type", "status", "ticket_date"})
	for i := 0; i < 3; i++ {
		ticketRows.AddRow(i+1, fmt.Sprintf("User %d", i+1), "Billing", "Open",
			base.Add(time.Duration(3-i)*time.Hour))
	}
	mock.ExpectQuery(`FROM support_tickets`).WillReturnRows(ticketRows)

	entries, err := svc.RecentEntries(context.Background())
	require.NoError(t, err)

	// 13 candidates, capped at 10.
	require.Len(t, entries, 10)

	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].SortDate.After(entries[i].SortDate),
			"entries must be strictly descending by sort_date")
	}

	// Users hold hours 13..9 and transactions 8..4, so the cap drops all
	// three tickets (3h and below).
	for i := 0; i < 5; i++ {
		assert.Equal(t, "user", entries[i].Type)
	}
	for i := 5; i < 10; i++ {
		assert.Equal(t, "transaction", entries[i].Type)
	}
}

func TestProductPerformanceShape(t *testing.T) {
	svc, mock := newTestService(t)

	cat := "Gadgets"
	mock.ExpectQuery(`FROM products p`).WillReturnRows(
		sqlmock.NewRows([]string{"product_name", "category", "sales_count", "total_revenue", "avg_order_value", "unit_price"}).
			AddRow("Widget Pro", cat, int64(10), 500.0, 50.0, 49.99).
			AddRow("Widget Lite", nil, int64(0), 0.0, 0.0, 9.99))

	out, err := svc.ProductPerformance(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Widget Pro", out[0].ProductName)
	assert.Equal(t, int64(10), out[0].SalesCount)
	assert.Nil(t, out[1].Category)
	assert.Zero(t, out[1].TotalRevenue)
}

func TestWebsiteLoadTimesFixedDataset(t *testing.T) {
	svc, _ := newTestService(t)

	out, err := svc.WebsiteLoadTimes(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 8)
	assert.Equal(t, "Dashboard", out[0].Page)
	assert.Equal(t, 245, out[0].LoadTimeMS)
}
