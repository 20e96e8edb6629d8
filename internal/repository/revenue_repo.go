package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockledger/internal/apperror"
	"stockledger/internal/database"
	"stockledger/internal/model"
)

// SaleRepository backs the Revenue page. Sales are keyed by transaction ID.
type SaleRepository interface {
	All() []model.Sale
	FindByTransactionID(id string) (*model.Sale, bool)
	Search(text string) []model.Sale
	FilterBySKU(sku string) []model.Sale
	FilterByDateRange(from, to *time.Time) []model.Sale
	NextTransactionID() string
	Add(ctx context.Context, sale *model.Sale) error
	Update(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, transactionID string) error
	Reload(ctx context.Context) error
}

type saleRepository struct {
	session  *database.Session
	notifier Notifier
	cache    snapshot[model.Sale]
}

func NewSaleRepository(ctx context.Context, session *database.Session, notifier Notifier) (SaleRepository, error) {
	if err := session.RequireConnected(); err != nil {
		return nil, err
	}
	if err := session.Register(&model.Sale{}); err != nil {
		return nil, err
	}

	r := &saleRepository{session: session, notifier: notifierOrNop(notifier)}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *saleRepository) All() []model.Sale {
	return r.cache.all()
}

func (r *saleRepository) FindByTransactionID(id string) (*model.Sale, bool) {
	s, ok := r.cache.find(func(s model.Sale) bool { return s.TransactionID == id })
	if !ok {
		return nil, false
	}
	return &s, true
}

func (r *saleRepository) Search(text string) []model.Sale {
	term, ok := searchTerm(text)
	if !ok {
		return r.cache.all()
	}
	return r.cache.filter(func(s model.Sale) bool {
		return containsFold(term, s.SKU, s.ProductName, s.TransactionID)
	})
}

func (r *saleRepository) FilterBySKU(sku string) []model.Sale {
	if sku == "" {
		return r.cache.all()
	}
	return r.cache.filter(func(s model.Sale) bool { return s.SKU == sku })
}

func (r *saleRepository) FilterByDateRange(from, to *time.Time) []model.Sale {
	if from == nil && to == nil {
		return r.cache.all()
	}
	return r.cache.filter(func(s model.Sale) bool {
		return inDateRange(s.SaleDate, from, to)
	})
}

// NextTransactionID is one more than the highest numeric transaction ID.
// Non-numeric IDs are ignored; an empty collection starts at "1".
func (r *saleRepository) NextTransactionID() string {
	max := 0
	for _, s := range r.cache.all() {
		n, err := strconv.Atoi(s.TransactionID)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

func (r *saleRepository) Add(ctx context.Context, sale *model.Sale) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	var count int64
	if err := db.Model(&model.Sale{}).Where("transaction_id = ?", sale.TransactionID).Count(&count).Error; err != nil {
		return apperror.Store("check transaction id", err)
	}
	if count > 0 {
		return apperror.ErrDuplicateKey
	}

	if err := db.Create(sale).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.ErrDuplicateKey
		}
		return apperror.Store("create sale", err)
	}
	return r.changed(ctx)
}

func (r *saleRepository) Update(ctx context.Context, sale *model.Sale) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	if sale.ID == uuid.Nil {
		var existing model.Sale
		res := db.Where("transaction_id = ?", sale.TransactionID).Limit(1).Find(&existing)
		if res.Error != nil {
			return apperror.Store("find sale", res.Error)
		}
		if res.RowsAffected > 0 {
			sale.ID = existing.ID
			sale.CreatedAt = existing.CreatedAt
		}
	}

	if err := db.Save(sale).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.ErrDuplicateKey
		}
		return apperror.Store("save sale", err)
	}
	return r.changed(ctx)
}

func (r *saleRepository) Delete(ctx context.Context, transactionID string) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	res := db.Where("transaction_id = ?", transactionID).Delete(&model.Sale{})
	if res.Error != nil {
		return apperror.Store("delete sale", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return r.changed(ctx)
}

func (r *saleRepository) Reload(ctx context.Context) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	var sales []model.Sale
	if err := db.Order("created_at asc").Find(&sales).Error; err != nil {
		return apperror.Store("load sales", err)
	}
	r.cache.replace(sales)
	return nil
}

func (r *saleRepository) changed(ctx context.Context) error {
	if err := r.Reload(ctx); err != nil {
		return err
	}
	r.notifier.Notify(CollectionSales)
	return nil
}
