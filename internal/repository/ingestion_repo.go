package repository

import (
	"context"

	"CultureSync/internal/model"

	"gorm.io/gorm"
)

// IngestionRunRepository 入库执行记录
type IngestionRunRepository interface {
	CreateRun(ctx context.Context, run *model.IngestionRun) error
	// ListRuns 按场馆倒序列出最近的执行记录，venueID 为 0 时不过滤
	ListRuns(ctx context.Context, venueID uint64, limit int) ([]*model.IngestionRun, error)
}

type ingestionRunRepository struct {
	db *gorm.DB
}

func NewIngestionRunRepository(db *gorm.DB) IngestionRunRepository {
	return &ingestionRunRepository{db: db}
}

func (r *ingestionRunRepository) CreateRun(ctx context.Context, run *model.IngestionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *ingestionRunRepository) ListRuns(ctx context.Context, venueID uint64, limit int) ([]*model.IngestionRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.db.WithContext(ctx).Model(&model.IngestionRun{})
	if venueID != 0 {
		db = db.Where("venue_id = ?", venueID)
	}
	var runs []*model.IngestionRun
	if err := db.Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
