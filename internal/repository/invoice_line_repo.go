package repository

import (
	"context"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// InvoiceLineRepository 账单明细数据访问接口
type InvoiceLineRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]model.InvoiceLine, error)
	// ReplaceAll 删除订单全部明细后按给定顺序重建，在事务内完成
	ReplaceAll(ctx context.Context, bookingID int64, lines []model.InvoiceLine) error
	DeleteByBooking(ctx context.Context, bookingID int64) error
	Add(ctx context.Context, line *model.InvoiceLine) error
	Delete(ctx context.Context, lineID, bookingID int64) error
}

type invoiceLineRepo struct {
	db *gorm.DB
}

// NewInvoiceLineRepo 创建 InvoiceLineRepository 实例
func NewInvoiceLineRepo(db *gorm.DB) InvoiceLineRepository {
	return &invoiceLineRepo{db: db}
}

func (r *invoiceLineRepo) ListByBooking(ctx context.Context, bookingID int64) ([]model.InvoiceLine, error) {
	var lines []model.InvoiceLine
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *invoiceLineRepo) ReplaceAll(ctx context.Context, bookingID int64, lines []model.InvoiceLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", bookingID).
			Delete(&model.InvoiceLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].BookingID = bookingID
		}
		return tx.Create(&lines).Error
	})
}

func (r *invoiceLineRepo) DeleteByBooking(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&model.InvoiceLine{}).Error
}

func (r *invoiceLineRepo) Add(ctx context.Context, line *model.InvoiceLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *invoiceLineRepo) Delete(ctx context.Context, lineID, bookingID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND booking_id = ?", lineID, bookingID).
		Delete(&model.InvoiceLine{}).Error
}
