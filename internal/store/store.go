package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"data-warehouse-dashboard/internal/models"

	"gorm.io/gorm"
)

// Store is the only component that touches persistent state. Every listing
// returns rows in a documented order, and every join is a left join so a
// dangling user or product reference yields null fields, never an error.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// TransactionRow is a transaction with its user and product names resolved.
// The joined names are pointers: a deleted user leaves them null.
type TransactionRow struct {
	TransactionID uint      `json:"transaction_id"`
	UserID        *uint     `json:"user_id"`
	ProductID     *uint     `json:"product_id"`
	PurchaseDate  time.Time `json:"purchase_date"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	UserName      *string   `json:"user_name"`
	ProductName   *string   `json:"product_name"`
}

type SupportTicketRow struct {
	TicketID   uint      `json:"ticket_id"`
	UserID     *uint     `json:"user_id"`
	TicketDate time.Time `json:"ticket_date"`
	IssueType  string    `json:"issue_type"`
	Status     string    `json:"status"`
	UserName   *string   `json:"user_name"`
}

type SessionRow struct {
	SessionID  uint       `json:"session_id"`
	UserID     *uint      `json:"user_id"`
	LoginTime  time.Time  `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time"`
	Device     string     `json:"device"`
	UserName   *string    `json:"user_name"`
}

type DashboardStats struct {
	Users          int64   `json:"users"`
	Transactions   int64   `json:"transactions"`
	Products       int64   `json:"products"`
	SupportTickets int64   `json:"support_tickets"`
	Sessions       int64   `json:"sessions"`
	TotalRevenue   float64 `json:"total_revenue"`
}

type UserInput struct {
	Name    string
	Email   string
	Country *string
	Gender  *string
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Order("registration_date DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Order("category, product_name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT t.transaction_id, t.user_id, t.product_id, t.purchase_date,
		       t.amount, t.payment_method, u.name AS user_name, p.product_name
		FROM transactions t
		LEFT JOIN users u ON t.user_id = u.user_id
		LEFT JOIN products p ON t.product_id = p.product_id
		ORDER BY t.purchase_date DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return rows, nil
}

func (s *Store) ListSupportTickets(ctx context.Context) ([]SupportTicketRow, error) {
	var rows []SupportTicketRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT st.ticket_id, st.user_id, st.ticket_date, st.issue_type,
		       st.status, u.name AS user_name
		FROM support_tickets st
		LEFT JOIN users u ON st.user_id = u.user_id
		ORDER BY st.ticket_date DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch support tickets: %w", err)
	}
	return rows, nil
}

func (s *Store) ListSessions(ctx context.Context) ([]SessionRow, error) {
	var rows []SessionRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT s.session_id, s.user_id, s.login_time, s.logout_time,
		       s.device, u.name AS user_name
		FROM sessions s
		LEFT JOIN users u ON s.user_id = u.user_id
		ORDER BY s.login_time DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	return rows, nil
}

func (s *Store) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return submissions, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user with registration_date set to now and
// returns the generated id.
func (s *Store) CreateUser(ctx context.Context, in UserInput) (uint, error) {
	user := models.User{
		Name:             in.Name,
		Email:            in.Email,
		Country:          in.Country,
		Gender:           in.Gender,
		RegistrationDate: time.Now(),
	}
	err := s.db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, ErrDuplicateEmail
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uint, in UserInput) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"name":    in.Name,
			"email":   in.Email,
			"country": in.Country,
			"gender":  in.Gender,
		})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user row only. Dependent transactions, tickets and
// sessions keep their rows and lose name resolution through the left joins.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &stats.Users},
		{&models.Transaction{}, &stats.Transactions},
		{&models.Product{}, &stats.Products},
		{&models.SupportTicket{}, &stats.SupportTickets},
		{&models.Session{}, &stats.Sessions},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch dashboard statistics: %w", err)
		}
	}

	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard statistics: %w", err)
	}
	return stats, nil
}

// Ping reports connectivity for the status probe.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Now returns the database server time.
func (s *Store) Now(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := s.db.WithContext(ctx).Raw("SELECT NOW()").Scan(&t).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("database query failed: %w", err)
	}
	return t, nil
}
