package repository

import (
	"context"

	"github.com/ManuelReschke/YayaHook/app/models"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for transaction-related database operations
type TransactionRepository interface {
	CreateIfNotExists(ctx context.Context, tx *models.Transaction) (bool, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	Count(ctx context.Context) (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Transaction TransactionRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Transaction: NewTransactionRepository(db),
	}
}
