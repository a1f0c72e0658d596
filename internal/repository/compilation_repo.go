package repository

import (
	"context"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// CompilationRepository 题目合集数据访问接口
type CompilationRepository interface {
	ListAvailable(ctx context.Context) ([]model.Compilation, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Compilation, error)
}

type compilationRepo struct {
	db *gorm.DB
}

// NewCompilationRepo 创建 CompilationRepository 实例
func NewCompilationRepo(db *gorm.DB) CompilationRepository {
	return &compilationRepo{db: db}
}

func (r *compilationRepo) ListAvailable(ctx context.Context) ([]model.Compilation, error) {
	var compilations []model.Compilation
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("name ASC").
		Find(&compilations).Error
	return compilations, err
}

func (r *compilationRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.Compilation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var compilations []model.Compilation
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&compilations).Error
	return compilations, err
}
