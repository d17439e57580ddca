package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan is a purchasable listing period for doctors
type SubscriptionPlan struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name              string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	DurationDays      int             `gorm:"not null" json:"duration_days"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Features          StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"features"`
	SpecialtyCategory string          `gorm:"type:varchar(100)" json:"specialty_category,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// SubscriptionStatus is the lifecycle of a doctor subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// PaymentStatus tracks manual payment verification by an admin
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment methods accepted for subscriptions
const (
	PaymentMethodBkash = "bkash"
	PaymentMethodBank  = "bank"
)

// DoctorSubscription is a doctor's purchase of a plan
type DoctorSubscription struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PlanID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"plan_id"`
	StartDate     time.Time          `gorm:"not null" json:"start_date"`
	EndDate       time.Time          `gorm:"not null;index" json:"end_date"`
	Status        SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	PaymentStatus PaymentStatus      `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod string             `gorm:"type:varchar(20);not null" json:"payment_method"`
	BkashNumber   string             `gorm:"type:varchar(20)" json:"bkash_number,omitempty"`
	BankName      string             `gorm:"type:varchar(100)" json:"bank_name,omitempty"`
	BankBranch    string             `gorm:"type:varchar(100)" json:"bank_branch,omitempty"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Plan   SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Doctor *User            `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorSubscription) TableName() string {
	return "doctor_subscriptions"
}

// IsCurrent reports whether the subscription grants access at now
func (s *DoctorSubscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate.After(now)
}

// PaymentInfo is the single row describing where doctors send payments
type PaymentInfo struct {
	ID                int       `gorm:"primaryKey" json:"-"`
	BkashNumber       string    `gorm:"type:varchar(20)" json:"bkash_number"`
	BankAccountName   string    `gorm:"type:varchar(100)" json:"bank_account_name"`
	BankAccountNumber string    `gorm:"type:varchar(50)" json:"bank_account_number"`
	BankName          string    `gorm:"type:varchar(100)" json:"bank_name"`
	BankBranch        string    `gorm:"type:varchar(100)" json:"bank_branch"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentInfo) TableName() string {
	return "payment_info"
}

// PaymentInfoID is the primary key of the singleton payment info row
const PaymentInfoID = 1
