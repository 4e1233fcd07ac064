package repository

import (
	"context"
	"time"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db, now: time.Now}
}

// 明細は入れた順で返す
func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// 注文と明細を1トランザクションで保存する
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now().UTC()
	}
	order.UpdatedAt = order.CreatedAt

	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
		order.Lines[i].Position = i
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return order, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, sessionID string, key string) (model.Order, bool, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("session_id = ? AND idempotency_key = ?", sessionID, key).
		First(&o).Error

	if err != nil {
		if mapErr(err) == repo.ErrNotFound {
			return model.Order{}, false, nil
		}
		return model.Order{}, false, err
	}
	return o, true, nil
}

// 販売者の商品を1つでも含む注文を新しい順で返す
func (r *OrderGormRepository) ListBySellerID(ctx context.Context, sellerID string, q repo.OrderListQuery) ([]model.Order, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit, 50, 100)

	sub := r.db.Model(&model.OrderLine{}).Select("order_id").Where("seller_id = ?", sellerID)
	tx := r.db.WithContext(ctx).Model(&model.Order{}).Where("id IN (?)", sub)

	//status 絞り込み
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := tx.Preload("Lines", preloadLines).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": r.now().UTC(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
