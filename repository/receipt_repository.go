package repository

import (
	"context"

	"sportsstore/models"

	"gorm.io/gorm"
)

type ReceiptRepository interface {
	SaveReceipt(ctx context.Context, receipt *models.OrderReceipt) error
	ListReceipts(ctx context.Context, filter models.ReceiptFilter) ([]models.OrderReceipt, int64, error)
}

type GormReceiptRepository struct {
	db *gorm.DB
}

func NewGormReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) SaveReceipt(ctx context.Context, receipt *models.OrderReceipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *GormReceiptRepository) ListReceipts(ctx context.Context, filter models.ReceiptFilter) ([]models.OrderReceipt, int64, error) {
	var receipts []models.OrderReceipt
	var total int64

	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	query := r.db.WithContext(ctx).Model(&models.OrderReceipt{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&receipts).Error
	return receipts, total, err
}
