package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a payment notification accepted from the provider. Rows are
// written once and never updated.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	TransactionID string          `gorm:"type:varchar(255);not null;uniqueIndex:ux_transactions_transaction_id" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(3);not null" json:"currency"`
	CreatedAtTime time.Time       `gorm:"type:datetime;not null" json:"created_at_time"`
	Timestamp     time.Time       `gorm:"type:datetime;not null" json:"timestamp"`
	Cause         string          `gorm:"type:text;not null" json:"cause"`
	FullName      string          `gorm:"type:varchar(255);not null" json:"full_name"`
	AccountName   string          `gorm:"type:varchar(255);not null" json:"account_name"`
	InvoiceURL    string          `gorm:"type:varchar(2048);not null" json:"invoice_url"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) String() string {
	return t.TransactionID
}
