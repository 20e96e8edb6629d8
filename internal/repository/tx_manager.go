package repository

import (
	"context"

	"gorm.io/gorm"

	"stockledger/internal/apperror"
	"stockledger/internal/database"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// TransactionManager runs a unit of work in one store transaction.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	session *database.Session
}

func NewTransactionManager(session *database.Session) TransactionManager {
	return &transactionManager{session: session}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	db := t.session.DB()
	if db == nil {
		return apperror.ErrNoDatabaseConnection
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}

// GetDB returns the transaction bound to ctx, or the session handle.
// The second result is false when there is neither.
func GetDB(ctx context.Context, session *database.Session) (*gorm.DB, bool) {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx), true
	}
	db := session.DB()
	if db == nil {
		return nil, false
	}
	return db.WithContext(ctx), true
}
