package repository

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *AuditLogGormRepository) ListByActor(ctx context.Context, q repo.AuditLogListQuery) ([]model.AuditLog, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit, 50, 100)

	tx := r.db.WithContext(ctx).Model(&model.AuditLog{}).Where("actor_user_id = ?", q.ActorUserID)
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.ResourceType != "" {
		tx = tx.Where("resource_type = ?", q.ResourceType)
	}
	if q.ResourceID != "" {
		tx = tx.Where("resource_id = ?", q.ResourceID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.AuditLog{}, 0, err
	}

	logs := []model.AuditLog{}
	err := tx.Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error
	if err != nil {
		return []model.AuditLog{}, 0, err
	}
	return logs, total, nil
}
