package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Service exposes the derived views behind /api/analytics. Every view is a
// pure function of current table state; a failing sub-query fails the whole
// view rather than returning partial data.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

type UserTrendPoint struct {
	Date      string `json:"date"` // YYYY-MM-DD
	UserCount int64  `json:"user_count"`
}

type TransactionTrendPoint struct {
	Date             string  `json:"date"`
	TransactionCount int64   `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
}

type RevenueTrendPoint struct {
	Date        string  `json:"date"`
	TotalAmount float64 `json:"total_amount"`
}

type ActivityTrends struct {
	UserTrends        []UserTrendPoint        `json:"user_trends"`
	TransactionTrends []TransactionTrendPoint `json:"transaction_trends"`
	RevenueTrends     []RevenueTrendPoint     `json:"revenue_trends"`
}

// RecentEntry is one row of the combined recent-activity feed. Only the
// fields belonging to the tagged entity type are populated.
type RecentEntry struct {
	Type     string    `json:"type"` // user, transaction or ticket
	SortDate time.Time `json:"sort_date"`

	UserID           *uint      `json:"user_id,omitempty"`
	Name             *string    `json:"name,omitempty"`
	Email            *string    `json:"email,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`

	TransactionID *uint      `json:"transaction_id,omitempty"`
	UserName      *string    `json:"user_name,omitempty"`
	ProductName   *string    `json:"product_name,omitempty"`
	Amount        *float64   `json:"amount,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`

	TicketID   *uint      `json:"ticket_id,omitempty"`
	IssueType  *string    `json:"issue_type,omitempty"`
	Status     *string    `json:"status,omitempty"`
	TicketDate *time.Time `json:"ticket_date,omitempty"`
}

type ProductPerformance struct {
	ProductName   string  `json:"product_name"`
	Category      *string `json:"category"`
	SalesCount    int64   `json:"sales_count"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
	UnitPrice     float64 `json:"unit_price"`
}

type CategoryPerformance struct {
	Category     string  `json:"category"`
	SalesCount   int64   `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

type LoadTimeMetric struct {
	Page          string `json:"page"`
	LoadTimeMS    int    `json:"load_time_ms"`
	AvgLoadTimeMS int    `json:"avg_load_time_ms"`
	Requests      int    `json:"requests"`
	PageSizeKB    int    `json:"page_size_kb"`
}

// UsersPerMonth returns registration counts for the latest 12 calendar
// months in chronological order.
func (s *Service) UsersPerMonth(ctx context.Context) ([]MonthlyCount, error) {
	var rows []MonthlyCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT to_char(registration_date, 'YYYY-MM') AS month,
		       COUNT(*) AS count
		FROM users
		WHERE registration_date IS NOT NULL
		GROUP BY to_char(registration_date, 'YYYY-MM')
		ORDER BY month DESC
		LIMIT 12
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users per month data: %w", err)
	}
	reverse(rows)
	return rows, nil
}

// UsersByCountry groups users by country, null folded into "Unknown",
// largest group first.
func (s *Service) UsersByCountry(ctx context.Context) ([]CountryCount, error) {
	var rows []CountryCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(country, 'Unknown') AS country,
		       COUNT(*) AS count
		FROM users
		GROUP BY country
		ORDER BY count DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by country data: %w", err)
	}
	return rows, nil
}

// ActivityTrends returns three series over the latest 30 distinct days.
// Each series is windowed to its own latest 30 dates independently; the
// revenue series is derived from the transaction rows.
func (s *Service) ActivityTrends(ctx context.Context) (*ActivityTrends, error) {
	db := s.db.WithContext(ctx)

	var userTrends []UserTrendPoint
	err := db.Raw(`
		SELECT to_char(registration_date, 'YYYY-MM-DD') AS date,
		       COUNT(*) AS user_count
		FROM users
		WHERE registration_date IS NOT NULL
		GROUP BY to_char(registration_date, 'YYYY-MM-DD')
		ORDER BY date DESC
		LIMIT 30
	`).Scan(&userTrends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity trends data: %w", err)
	}

	var txTrends []TransactionTrendPoint
	err = db.Raw(`
		SELECT to_char(purchase_date, 'YYYY-MM-DD') AS date,
		       COUNT(*) AS transaction_count,
		       COALESCE(SUM(amount), 0) AS total_amount
		FROM transactions
		WHERE purchase_date IS NOT NULL
		GROUP BY to_char(purchase_date, 'YYYY-MM-DD')
		ORDER BY date DESC
		LIMIT 30
	`).Scan(&txTrends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity trends data: %w", err)
	}

	reverse(userTrends)
	reverse(txTrends)

	revenue := make([]RevenueTrendPoint, 0, len(txTrends))
	for _, t := range txTrends {
		revenue = append(revenue, RevenueTrendPoint{Date: t.Date, TotalAmount: t.TotalAmount})
	}

	return &ActivityTrends{
		UserTrends:        userTrends,
		TransactionTrends: txTrends,
		RevenueTrends:     revenue,
	}, nil
}

// RecentEntries merges the 5 latest users, transactions and support tickets
// into a single feed, newest first, capped at 10 entries.
func (s *Service) RecentEntries(ctx context.Context) ([]RecentEntry, error) {
	db := s.db.WithContext(ctx)

	type userRow struct {
		UserID           uint
		Name             string
		Email            string
		RegistrationDate time.Time
	}
	var users []userRow
	err := db.Raw(`
		SELECT user_id, name, email, registration_date
		FROM users
		ORDER BY registration_date DESC
		LIMIT 5
	`).Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent entries data: %w", err)
	}

	type txRow struct {
		TransactionID uint
		UserName      *string
		ProductName   *string
		Amount        float64
		PurchaseDate  time.Time
	}
	var txs []txRow
	err = db.Raw(`
		SELECT t.transaction_id, u.name AS user_name, p.product_name,
		       t.amount, t.purchase_date
		FROM transactions t
		LEFT JOIN users u ON t.user_id = u.user_id
		LEFT JOIN products p ON t.product_id = p.product_id
		ORDER BY t.purchase_date DESC
		LIMIT 5
	`).Scan(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent entries data: %w", err)
	}

	type ticketRow struct {
		TicketID   uint
		UserName   *string
		IssueType  string
		Status     string
		TicketDate time.Time
	}
	var tickets []ticketRow
	err = db.Raw(`
		SELECT st.ticket_id, u.name AS user_name, st.issue_type,
		       st.status, st.ticket_date
		FROM support_tickets st
		LEFT JOIN users u ON st.user_id = u.user_id
		ORDER BY st.ticket_date DESC
		LIMIT 5
	`).Scan(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent entries data: %w", err)
	}

	entries := make([]RecentEntry, 0, len(users)+len(txs)+len(tickets))
	for i := range users {
		u := users[i]
		reg := u.RegistrationDate
		entries = append(entries, RecentEntry{
			Type:             "user",
			SortDate:         u.RegistrationDate,
			UserID:           &u.UserID,
			Name:             &u.Name,
			Email:            &u.Email,
			RegistrationDate: &reg,
		})
	}
	for i := range txs {
		t := txs[i]
		purchase := t.PurchaseDate
		entries = append(entries, RecentEntry{
			Type:          "transaction",
			SortDate:      t.PurchaseDate,
			TransactionID: &t.TransactionID,
			UserName:      t.UserName,
			ProductName:   t.ProductName,
			Amount:        &t.Amount,
			PurchaseDate:  &purchase,
		})
	}
	for i := range tickets {
		tk := tickets[i]
		date := tk.TicketDate
		entries = append(entries, RecentEntry{
			Type:       "ticket",
			SortDate:   tk.TicketDate,
			TicketID:   &tk.TicketID,
			UserName:   tk.UserName,
			IssueType:  &tk.IssueType,
			Status:     &tk.Status,
			TicketDate: &date,
		})
	}

	// Stable sort keeps the per-type order for entries sharing a timestamp.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortDate.After(entries[j].SortDate)
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}
	return entries, nil
}

// ProductPerformance ranks products by revenue, then by sales count. The
// trailing product_id key keeps ties in insertion order.
func (s *Service) ProductPerformance(ctx context.Context) ([]ProductPerformance, error) {
	var rows []ProductPerformance
	err := s.db.WithContext(ctx).Raw(`
		SELECT p.product_name,
		       p.category,
		       COUNT(t.transaction_id) AS sales_count,
		       COALESCE(SUM(t.amount), 0) AS total_revenue,
		       COALESCE(AVG(t.amount), 0) AS avg_order_value,
		       p.price AS unit_price
		FROM products p
		LEFT JOIN transactions t ON p.product_id = t.product_id
		GROUP BY p.product_id, p.product_name, p.category, p.price
		ORDER BY total_revenue DESC, sales_count DESC, p.product_id
		LIMIT 15
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product performance data: %w", err)
	}
	return rows, nil
}

// ProductCategories groups revenue by category, null folded into
// "Uncategorized".
func (s *Service) ProductCategories(ctx context.Context) ([]CategoryPerformance, error) {
	var rows []CategoryPerformance
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(p.category, 'Uncategorized') AS category,
		       COUNT(t.transaction_id) AS sales_count,
		       COALESCE(SUM(t.amount), 0) AS total_revenue
		FROM products p
		LEFT JOIN transactions t ON p.product_id = t.product_id
		GROUP BY p.category
		ORDER BY total_revenue DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product categories data: %w", err)
	}
	return rows, nil
}

// WebsiteLoadTimes serves a fixed illustrative dataset; it is not derived
// from persisted state.
func (s *Service) WebsiteLoadTimes(ctx context.Context) ([]LoadTimeMetric, error) {
	return []LoadTimeMetric{
		{Page: "Dashboard", LoadTimeMS: 245, AvgLoadTimeMS: 280, Requests: 45, PageSizeKB: 512},
		{Page: "Analytics", LoadTimeMS: 320, AvgLoadTimeMS: 350, Requests: 62, PageSizeKB: 789},
		{Page: "Users Management", LoadTimeMS: 189, AvgLoadTimeMS: 220, Requests: 38, PageSizeKB: 445},
		{Page: "Transactions", LoadTimeMS: 267, AvgLoadTimeMS: 295, Requests: 51, PageSizeKB: 623},
		{Page: "Products", LoadTimeMS: 198, AvgLoadTimeMS: 235, Requests: 42, PageSizeKB: 478},
		{Page: "Support Tickets", LoadTimeMS: 223, AvgLoadTimeMS: 260, Requests: 47, PageSizeKB: 556},
		{Page: "Sessions", LoadTimeMS: 156, AvgLoadTimeMS: 190, Requests: 33, PageSizeKB: 387},
		{Page: "Submissions", LoadTimeMS: 178, AvgLoadTimeMS: 215, Requests: 39, PageSizeKB: 423},
	}, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
