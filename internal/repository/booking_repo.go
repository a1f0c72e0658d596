package repository

import (
	"context"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// BookingRepository 订单聚合数据访问接口
//
// 联盟/比赛子对象的读写也收拢在这里：它们没有独立于订单的生命周期。
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	// GetByCreationID 按客户端生成的稳定标识加载订单（含全部子对象）
	GetByCreationID(ctx context.Context, creationID string) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id int64) error
	ListByStatusCodes(ctx context.Context, statusCodes []string) ([]model.Booking, error)
	// ListLive 返回计入曝光集合的订单（排除指定订单；excludeBookingID 为 0 表示不排除），
	// 预加载联盟与比赛，供曝光派生使用
	ListLive(ctx context.Context, excludeBookingID int64) ([]model.Booking, error)

	// ── 联盟子对象（整体替换）──
	SaveConference(ctx context.Context, conference *model.Conference) error
	DeleteConference(ctx context.Context, bookingID int64) error

	// ── 非联盟比赛 ──
	AddGame(ctx context.Context, game *model.NonConferenceGame) error
	GetGame(ctx context.Context, gameID int64) (*model.NonConferenceGame, error)
	UpdateGame(ctx context.Context, game *model.NonConferenceGame) error
	DeleteGame(ctx context.Context, gameID, bookingID int64) error
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepo) GetByCreationID(ctx context.Context, creationID string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Conference").
		Preload("NonConferenceGames", func(db *gorm.DB) *gorm.DB {
			return db.Order("non_conference_games.id ASC")
		}).
		Preload("InvoiceLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_lines.id ASC")
		}).
		Where("creation_id = ?", creationID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepo) Delete(ctx context.Context, id int64) error {
	// 子对象依赖外键 ON DELETE CASCADE 清理
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Booking{}).Error
}

func (r *bookingRepo) ListByStatusCodes(ctx context.Context, statusCodes []string) ([]model.Booking, error) {
	var bookings []model.Booking
	db := r.db.WithContext(ctx).
		Preload("School").
		Preload("Conference").
		Preload("NonConferenceGames").
		Preload("InvoiceLines")
	if len(statusCodes) > 0 {
		db = db.Where("status_code IN ?", statusCodes)
	}
	err := db.Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListLive(ctx context.Context, excludeBookingID int64) ([]model.Booking, error) {
	var bookings []model.Booking
	db := r.db.WithContext(ctx).
		Preload("Conference").
		Preload("NonConferenceGames").
		Where("status_code IN ?", model.LiveStatuses)
	if excludeBookingID > 0 {
		db = db.Where("id <> ?", excludeBookingID)
	}
	err := db.Find(&bookings).Error
	return bookings, err
}

// ── 联盟子对象 ──

// SaveConference 整体替换订单的联盟信息（有则更新，无则创建）
func (r *bookingRepo) SaveConference(ctx context.Context, conference *model.Conference) error {
	var existing model.Conference
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", conference.BookingID).
		First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return r.db.WithContext(ctx).Create(conference).Error
		}
		return err
	}

	conference.ID = existing.ID
	conference.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(conference).Error
}

func (r *bookingRepo) DeleteConference(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&model.Conference{}).Error
}

// ── 非联盟比赛 ──

func (r *bookingRepo) AddGame(ctx context.Context, game *model.NonConferenceGame) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *bookingRepo) GetGame(ctx context.Context, gameID int64) (*model.NonConferenceGame, error) {
	var game model.NonConferenceGame
	err := r.db.WithContext(ctx).
		Where("id = ?", gameID).
		First(&game).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *bookingRepo) UpdateGame(ctx context.Context, game *model.NonConferenceGame) error {
	return r.db.WithContext(ctx).Save(game).Error
}

func (r *bookingRepo) DeleteGame(ctx context.Context, gameID, bookingID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND booking_id = ?", gameID, bookingID).
		Delete(&model.NonConferenceGame{}).Error
}
