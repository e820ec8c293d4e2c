package models

import (
	"time"
)

// User is the only entity the dashboard mutates. Email carries a unique
// index; a duplicate insert or update must fail rather than overwrite.
type User struct {
	ID               uint       `json:"user_id" gorm:"column:user_id;primaryKey"`
	Name             string     `json:"name" gorm:"not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	Country          *string    `json:"country"`
	Gender           *string    `json:"gender"`
	RegistrationDate time.Time  `json:"registration_date"`
	LastLoginDate    *time.Time `json:"last_login_date"`
}

func (User) TableName() string { return "users" }

type Product struct {
	ID       uint    `json:"product_id" gorm:"column:product_id;primaryKey"`
	Name     string  `json:"product_name" gorm:"column:product_name;not null"`
	Category *string `json:"category"`
	Price    float64 `json:"price"`
}

func (Product) TableName() string { return "products" }

// Transaction references users and products by id. Neither reference is
// enforced with a cascade: deleting a user leaves its transactions in
// place and listings resolve the name through a left join.
type Transaction struct {
	ID            uint      `json:"transaction_id" gorm:"column:transaction_id;primaryKey"`
	UserID        *uint     `json:"user_id"`
	ProductID     *uint     `json:"product_id"`
	PurchaseDate  time.Time `json:"purchase_date"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
}

func (Transaction) TableName() string { return "transactions" }

type SupportTicket struct {
	ID         uint      `json:"ticket_id" gorm:"column:ticket_id;primaryKey"`
	UserID     *uint     `json:"user_id"`
	TicketDate time.Time `json:"ticket_date"`
	IssueType  string    `json:"issue_type"`
	Status     string    `json:"status"` // e.g. Open, In Progress, Resolved
}

func (SupportTicket) TableName() string { return "support_tickets" }

type Session struct {
	ID         uint       `json:"session_id" gorm:"column:session_id;primaryKey"`
	UserID     *uint      `json:"user_id"`
	Device     string     `json:"device"`
	LoginTime  time.Time  `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time"` // null while the session is active
}

func (Session) TableName() string { return "sessions" }

type Submission struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func (Submission) TableName() string { return "submissions" }
