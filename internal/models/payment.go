package models

import "time"

// PaymentStatus tracks a mocked checkout through its lifecycle.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentModel records an order placed through the site checkout.
// Amount is in the currency's minor unit.
type PaymentModel struct {
	Base
	UserID      *string       `json:"userId"      gorm:"type:char(36);index"`
	Email       string        `json:"email"       gorm:"size:191;index"`
	Service     string        `json:"service"     gorm:"size:64;index"`
	Description string        `json:"description" gorm:"type:text"`
	Amount      int64         `json:"amount"      gorm:"not null"`
	Currency    string        `json:"currency"    gorm:"size:8;not null"`
	Method      string        `json:"method"      gorm:"size:32"`
	Status      PaymentStatus `json:"status"      gorm:"size:16;not null;index"`
	Reference   string        `json:"reference"   gorm:"size:64;uniqueIndex"`
	CompletedAt *time.Time    `json:"completedAt"`
}

func (PaymentModel) TableName() string { return "payments" }
