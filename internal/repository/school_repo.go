package repository

import (
	"context"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// SchoolRepository 学校数据访问接口
type SchoolRepository interface {
	GetByID(ctx context.Context, id int64) (*model.School, error)
	List(ctx context.Context, activeOnly bool) ([]model.School, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.School, error)
}

type schoolRepo struct {
	db *gorm.DB
}

// NewSchoolRepo 创建 SchoolRepository 实例
func NewSchoolRepo(db *gorm.DB) SchoolRepository {
	return &schoolRepo{db: db}
}

func (r *schoolRepo) GetByID(ctx context.Context, id int64) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) List(ctx context.Context, activeOnly bool) ([]model.School, error) {
	var schools []model.School
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("short_name ASC").Find(&schools).Error
	return schools, err
}

func (r *schoolRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.School, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var schools []model.School
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&schools).Error
	return schools, err
}
