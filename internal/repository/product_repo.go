package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockledger/internal/apperror"
	"stockledger/internal/database"
	"stockledger/internal/model"
)

type ProductRepository interface {
	All() []model.Product
	FindBySKU(sku string) (*model.Product, bool)
	Search(text string) []model.Product
	FilterByDateRange(from, to *time.Time) []model.Product
	Add(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, sku string) error
	Reload(ctx context.Context) error
}

type productRepository struct {
	session  *database.Session
	notifier Notifier
	cache    snapshot[model.Product]
}

// NewProductRepository fails with apperror.ErrNoDatabaseConnection before
// touching anything when session is disconnected.
func NewProductRepository(ctx context.Context, session *database.Session, notifier Notifier) (ProductRepository, error) {
	if err := session.RequireConnected(); err != nil {
		return nil, err
	}
	if err := session.Register(&model.Product{}); err != nil {
		return nil, err
	}

	r := &productRepository{session: session, notifier: notifierOrNop(notifier)}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *productRepository) All() []model.Product {
	return r.cache.all()
}

func (r *productRepository) FindBySKU(sku string) (*model.Product, bool) {
	p, ok := r.cache.find(func(p model.Product) bool { return p.SKU == sku })
	if !ok {
		return nil, false
	}
	return &p, true
}

func (r *productRepository) Search(text string) []model.Product {
	term, ok := searchTerm(text)
	if !ok {
		return r.cache.all()
	}
	return r.cache.filter(func(p model.Product) bool {
		return containsFold(term, p.SKU, p.Name, p.Brand)
	})
}

func (r *productRepository) FilterByDateRange(from, to *time.Time) []model.Product {
	if from == nil && to == nil {
		return r.cache.all()
	}
	return r.cache.filter(func(p model.Product) bool {
		return inDateRange(p.DateAdded, from, to)
	})
}

func (r *productRepository) Add(ctx context.Context, product *model.Product) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	var count int64
	if err := db.Model(&model.Product{}).Where("sku = ?", product.SKU).Count(&count).Error; err != nil {
		return apperror.Store("check product sku", err)
	}
	if count > 0 {
		return apperror.ErrDuplicateKey
	}

	if err := db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.ErrDuplicateKey
		}
		return apperror.Store("create product", err)
	}
	return r.changed(ctx)
}

// Update saves product over the row with the same id. Without an id the row
// is matched by SKU, and a product with an unknown SKU is inserted.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	if product.ID == uuid.Nil {
		var existing model.Product
		res := db.Where("sku = ?", product.SKU).Limit(1).Find(&existing)
		if res.Error != nil {
			return apperror.Store("find product", res.Error)
		}
		if res.RowsAffected > 0 {
			product.ID = existing.ID
			product.CreatedAt = existing.CreatedAt
		}
	}

	if err := db.Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.ErrDuplicateKey
		}
		return apperror.Store("save product", err)
	}
	return r.changed(ctx)
}

func (r *productRepository) Delete(ctx context.Context, sku string) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	res := db.Where("sku = ?", sku).Delete(&model.Product{})
	if res.Error != nil {
		return apperror.Store("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return r.changed(ctx)
}

func (r *productRepository) Reload(ctx context.Context) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	var products []model.Product
	if err := db.Order("created_at asc").Find(&products).Error; err != nil {
		return apperror.Store("load products", err)
	}
	r.cache.replace(products)
	return nil
}

func (r *productRepository) changed(ctx context.Context) error {
	if err := r.Reload(ctx); err != nil {
		return err
	}
	r.notifier.Notify(CollectionProducts)
	return nil
}
