package repository

import (
	"context"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// PacketRepository 题包数据访问接口
type PacketRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Packet, error)
	ListByYear(ctx context.Context, yearCode string) ([]model.Packet, error)
	// ListCompetitionAvailable 返回指定赛季可用于竞赛的题包，按序号升序
	ListCompetitionAvailable(ctx context.Context, yearCode string) ([]model.Packet, error)
	// ListPracticeAvailable 返回所有赛季可作练习材料的题包，按赛季、序号排序
	ListPracticeAvailable(ctx context.Context) ([]model.Packet, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Packet, error)
}

type packetRepo struct {
	db *gorm.DB
}

// NewPacketRepo 创建 PacketRepository 实例
func NewPacketRepo(db *gorm.DB) PacketRepository {
	return &packetRepo{db: db}
}

func (r *packetRepo) GetByID(ctx context.Context, id int64) (*model.Packet, error) {
	var packet model.Packet
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&packet).Error
	if err != nil {
		return nil, err
	}
	return &packet, nil
}

func (r *packetRepo) ListByYear(ctx context.Context, yearCode string) ([]model.Packet, error) {
	var packets []model.Packet
	err := r.db.WithContext(ctx).
		Where("year_code = ?", yearCode).
		Order("number ASC").
		Find(&packets).Error
	return packets, err
}

func (r *packetRepo) ListCompetitionAvailable(ctx context.Context, yearCode string) ([]model.Packet, error) {
	var packets []model.Packet
	err := r.db.WithContext(ctx).
		Where("year_code = ? AND available_for_competition = ?", yearCode, true).
		Order("number ASC").
		Find(&packets).Error
	return packets, err
}

func (r *packetRepo) ListPracticeAvailable(ctx context.Context) ([]model.Packet, error) {
	var packets []model.Packet
	err := r.db.WithContext(ctx).
		Where("available_for_practice = ?", true).
		Order("year_code ASC, number ASC").
		Find(&packets).Error
	return packets, err
}

func (r *packetRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.Packet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var packets []model.Packet
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("year_code ASC, number ASC").
		Find(&packets).Error
	return packets, err
}
