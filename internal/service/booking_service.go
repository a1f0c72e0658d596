package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/model"
	"quizbowl-orders/backend/internal/repository"
)

// ── 订单模块错误 ──

var (
	// ErrBookingNotFound 订单不存在
	ErrBookingNotFound = errors.New("订单不存在")
	// ErrInvalidCreationID 订单标识不是合法 UUID
	ErrInvalidCreationID = errors.New("订单标识格式无效")
	// ErrSchoolInactive 学校已停用，不能创建新订单
	ErrSchoolInactive = errors.New("学校已停用，无法下单")
	// ErrBookingLocked 订单已提交，客户端不可再修改
	ErrBookingLocked = errors.New("订单已提交，无法修改")
	// ErrConferenceTooSmall 联盟学校不足（含下单学校至少 3 所）
	ErrConferenceTooSmall = errors.New("联盟学校数量不足")
	// ErrTooManyPacketsRequested 请求题包数超过本赛季可用题包总数
	ErrTooManyPacketsRequested = errors.New("请求题包数超过本赛季可用题包总数")
	// ErrGameNotFound 比赛不存在或不属于该订单
	ErrGameNotFound = errors.New("比赛不存在")
	// ErrGameSchoolsInvalid 比赛学校数量或组合不合法
	ErrGameSchoolsInvalid = errors.New("每场比赛需要 2 至 3 所互不相同的学校")
	// ErrSelectionUnavailable 所选练习材料不存在或不可订购
	ErrSelectionUnavailable = errors.New("所选练习材料不存在或不可订购")
	// ErrNotSubmittable 当前状态不允许提交
	ErrNotSubmittable = errors.New("当前状态不允许提交")
	// ErrNotConfirmable 仅已提交的订单可确认
	ErrNotConfirmable = errors.New("仅已提交的订单可确认")
	// ErrStepNotReachable 不能跳过未完成的步骤
	ErrStepNotReachable = errors.New("不能跳过未完成的步骤")
	// ErrInvalidStatus 非法状态码
	ErrInvalidStatus = errors.New("非法的订单状态")
	// ErrInvalidDate 日期格式无效
	ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// BookingService 订单向导与管理端订单操作
type BookingService struct {
	repo    *repository.Repository
	invoice *InvoiceService
	logger  *zap.Logger
}

// NewBookingService 创建 BookingService
func NewBookingService(repo *repository.Repository, invoice *InvoiceService, logger *zap.Logger) *BookingService {
	return &BookingService{repo: repo, invoice: invoice, logger: logger}
}

// Get 按 creationId 返回订单完整视图
func (s *BookingService) Get(ctx context.Context, creationID string) (*dto.BookingResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, booking)
}

// ════════════════════════════════════════════════════════════════════
// 第 1 步：基础信息（存在即更新，不存在即创建）
// ════════════════════════════════════════════════════════════════════

// UpsertBasics 创建或更新订单基础信息
//
// creationId 由客户端生成；首次出现时创建订单，之后重复提交视为更新。
func (s *BookingService) UpsertBasics(ctx context.Context, creationID string, req *dto.UpsertBasicsRequest) (*dto.BookingResponse, error) {
	if _, err := uuid.Parse(creationID); err != nil {
		return nil, ErrInvalidCreationID
	}

	school, err := s.repo.School.GetByID(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}

	booking, err := s.repo.Booking.GetByCreationID(ctx, creationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// 新订单：停用学校不可下单
		if !school.Active {
			return nil, ErrSchoolInactive
		}
		booking = &model.Booking{
			CreationID:   creationID,
			StatusCode:   model.StatusUnsubmitted,
			SchoolID:     req.SchoolID,
			Name:         req.Name,
			EmailAddress: req.EmailAddress,
			Authority:    req.Authority,
			CurrentStep:  StepStartingOut,
		}
		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			return nil, err
		}
		s.logger.Info("订单已创建",
			zap.String("creation_id", creationID),
			zap.Int64("school_id", req.SchoolID))
		return s.Get(ctx, creationID)
	}

	if booking.StatusCode != model.StatusUnsubmitted {
		return nil, ErrBookingLocked
	}

	booking.SchoolID = req.SchoolID
	booking.Name = req.Name
	booking.EmailAddress = req.EmailAddress
	booking.Authority = req.Authority
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// ════════════════════════════════════════════════════════════════════
// 第 2 步：联盟（整体替换）
// ════════════════════════════════════════════════════════════════════

// SetConference 整体替换联盟信息
//
// 学校列表去重；下单学校自动并入（重复提交是无操作）；
// 含下单学校至少 3 所；请求题包数不得超过本赛季竞赛可用题包总数。
func (s *BookingService) SetConference(ctx context.Context, creationID string, req *dto.ConferenceRequest) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}

	schoolIDs := dedupeIDs(req.SchoolIDs)
	if !containsID(schoolIDs, booking.SchoolID) {
		schoolIDs = append(schoolIDs, booking.SchoolID)
	}
	if len(schoolIDs) < 3 {
		return nil, ErrConferenceTooSmall
	}

	// 校验学校均存在
	schools, err := s.repo.School.ListByIDs(ctx, schoolIDs)
	if err != nil {
		return nil, err
	}
	if len(schools) != len(schoolIDs) {
		return nil, ErrSchoolNotFound
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
	if req.PacketsRequested > len(pool) {
		return nil, ErrTooManyPacketsRequested
	}

	conference := &model.Conference{
		BookingID:        booking.ID,
		Name:             req.Name,
		PacketsRequested: req.PacketsRequested,
		SchoolIDs:        schoolIDs,
	}
	// 整体替换会丢弃已有的题包分配，需要重新走可用性检查
	if err := s.repo.Booking.SaveConference(ctx, conference); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// DeleteConference 删除订单的联盟信息
func (s *BookingService) DeleteConference(ctx context.Context, creationID string) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Booking.DeleteConference(ctx, booking.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// ════════════════════════════════════════════════════════════════════
// 第 3 步：非联盟比赛
// ════════════════════════════════════════════════════════════════════

// AddGames 批量添加非联盟比赛
//
// 逐场追加：中途失败时已入库的比赛保留，错误原样返回。
func (s *BookingService) AddGames(ctx context.Context, creationID string, req *dto.AddGamesRequest) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}

	for i := range req.Games {
		schoolIDs := dedupeIDs(req.Games[i].SchoolIDs)
		if len(schoolIDs) != len(req.Games[i].SchoolIDs) || len(schoolIDs) < 2 || len(schoolIDs) > 3 {
			return nil, ErrGameSchoolsInvalid
		}
		schools, err := s.repo.School.ListByIDs(ctx, schoolIDs)
		if err != nil {
			return nil, err
		}
		if len(schools) != len(schoolIDs) {
			return nil, ErrSchoolNotFound
		}
		game := &model.NonConferenceGame{
			BookingID: booking.ID,
			SchoolIDs: schoolIDs,
		}
		if err := s.repo.Booking.AddGame(ctx, game); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, creationID)
}

// DeleteGame 删除一场非联盟比赛
func (s *BookingService) DeleteGame(ctx context.Context, creationID string, gameID int64) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}
	game, err := s.repo.Booking.GetGame(ctx, gameID)
	if err != nil || game.BookingID != booking.ID {
		return nil, ErrGameNotFound
	}
	if err := s.repo.Booking.DeleteGame(ctx, gameID, booking.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// AssignGamePacket 管理端：为单场比赛指定题包
func (s *BookingService) AssignGamePacket(ctx context.Context, creationID string, gameID, packetID int64) (*dto.BookingResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	game, err := s.repo.Booking.GetGame(ctx, gameID)
	if err != nil || game.BookingID != booking.ID {
		return nil, ErrGameNotFound
	}
	if _, err := s.repo.Packet.GetByID(ctx, packetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPacketNotFound
		}
		return nil, err
	}
	game.AssignedPacketID = &packetID
	if err := s.repo.Booking.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// UnassignGamePacket 管理端：撤销单场比赛的题包分配
func (s *BookingService) UnassignGamePacket(ctx context.Context, creationID string, gameID int64) (*dto.BookingResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	game, err := s.repo.Booking.GetGame(ctx, gameID)
	if err != nil || game.BookingID != booking.ID {
		return nil, ErrGameNotFound
	}
	game.AssignedPacketID = nil
	if err := s.repo.Booking.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// ════════════════════════════════════════════════════════════════════
// 第 5 步：练习材料（三类选择均为整体替换，空列表表示不订购）
// ════════════════════════════════════════════════════════════════════

// SetStateSeries 整体替换州系列赛选择
func (s *BookingService) SetStateSeries(ctx context.Context, creationID string, ids []int64) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}
	ids = dedupeIDs(ids)
	series, err := s.repo.StateSeries.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(series) != len(ids) {
		return nil, ErrSelectionUnavailable
	}
	for i := range series {
		if !series[i].Available {
			return nil, ErrSelectionUnavailable
		}
	}
	booking.StateSeriesIDs = ids
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// SetPracticePackets 整体替换练习题包选择
func (s *BookingService) SetPracticePackets(ctx context.Context, creationID string, ids []int64) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}
	ids = dedupeIDs(ids)
	packets, err := s.repo.Packet.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(packets) != len(ids) {
		return nil, ErrSelectionUnavailable
	}
	for i := range packets {
		if !packets[i].AvailableForPractice {
			return nil, ErrSelectionUnavailable
		}
	}
	booking.PracticePacketIDs = ids
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// SetPracticeCompilations 整体替换题目合集选择
func (s *BookingService) SetPracticeCompilations(ctx context.Context, creationID string, ids []int64) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}
	ids = dedupeIDs(ids)
	compilations, err := s.repo.Compilation.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(compilations) != len(ids) {
		return nil, ErrSelectionUnavailable
	}
	for i := range compilations {
		if !compilations[i].Available {
			return nil, ErrSelectionUnavailable
		}
	}
	booking.PracticeCompilationIDs = ids
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// ════════════════════════════════════════════════════════════════════
// 步骤机
// ════════════════════════════════════════════════════════════════════

// Steps 返回步骤条状态
func (s *BookingService) Steps(ctx context.Context, creationID string) (*dto.StepStatusResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	resp := &dto.StepStatusResponse{
		CurrentStep:          booking.CurrentStep,
		HighestCompletedStep: HighestCompletedStep(booking),
	}
	for step := StepStartingOut; step <= StepConfirm; step++ {
		resp.Steps = append(resp.Steps, dto.StepResponse{
			Number:    step,
			Title:     StepTitle(step),
			Completed: stepCompleted(booking, step),
		})
	}
	return resp, nil
}

// GoToStep 跳转到指定步骤
//
// 回退会级联清理：目标在确认步之前则删除账单；目标在可用性检查之前
// 则撤销全部题包分配（客户修改前置数据后分配必须重新评估）。
// 前进不做清理，但不能越过最高已完成步骤的下一步。
func (s *BookingService) GoToStep(ctx context.Context, creationID string, target int) (*dto.BookingResponse, error) {
	booking, err := s.loadEditable(ctx, creationID)
	if err != nil {
		return nil, err
	}

	highest := HighestCompletedStep(booking)
	if target > booking.CurrentStep && target > highest+1 {
		return nil, ErrStepNotReachable
	}

	if len(booking.InvoiceLines) > 0 && target < StepConfirm {
		if err := s.repo.InvoiceLine.DeleteByBooking(ctx, booking.ID); err != nil {
			return nil, err
		}
	}
	if booking.CurrentStep >= StepCheckAvailability && target < StepCheckAvailability && booking.HasPacketAssignments() {
		if err := s.clearAssignments(ctx, booking); err != nil {
			return nil, err
		}
		s.logger.Info("回退步骤，已撤销题包分配",
			zap.String("creation_id", creationID),
			zap.Int("target", target))
	}

	booking.CurrentStep = target
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	return s.Get(ctx, creationID)
}

// clearAssignments 撤销订单的全部题包分配（联盟集合与各场比赛）
func (s *BookingService) clearAssignments(ctx context.Context, booking *model.Booking) error {
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

// ════════════════════════════════════════════════════════════════════
// 第 6 步：提交
// ════════════════════════════════════════════════════════════════════

// Submit 提交订单
//
// 保存备注与 W9 请求后按当前内容重建账单，再转入 submitted。
// 重复提交返回错误。
func (s *BookingService) Submit(ctx context.Context, creationID string, req *dto.SubmitRequest) (*dto.BookingResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	if booking.StatusCode != model.StatusUnsubmitted {
		return nil, ErrNotSubmittable
	}

	booking.ExternalNote = req.ExternalNote
	booking.RequestsW9 = req.RequestsW9
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	if _, err := s.invoice.Recalculate(ctx, creationID); err != nil {
		return nil, err
	}

	booking.StatusCode = model.StatusSubmitted
	booking.CurrentStep = StepConfirm
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info("订单已提交",
		zap.String("creation_id", creationID),
		zap.Int64("school_id", booking.SchoolID))
	return s.Get(ctx, creationID)
}

// ════════════════════════════════════════════════════════════════════
// 管理端
// ════════════════════════════════════════════════════════════════════

// List 按状态码列出订单（空列表返回全部）
func (s *BookingService) List(ctx context.Context, statusCodes []string) ([]dto.AdminBookingResponse, error) {
	for _, code := range statusCodes {
		if !model.IsValidStatus(code) {
			return nil, ErrInvalidStatus
		}
	}
	bookings, err := s.repo.Booking.ListByStatusCodes(ctx, statusCodes)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AdminBookingResponse, 0, len(bookings))
	for i := range bookings {
		r, err := s.buildAdminResponse(ctx, &bookings[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, *r)
	}
	return resp, nil
}

// AdminGet 管理端订单详情
func (s *BookingService) AdminGet(ctx context.Context, creationID string) (*dto.AdminBookingResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	return s.buildAdminResponse(ctx, booking)
}

// AdminUpdate 管理端更新订单（仅更新给定字段）
func (s *BookingService) AdminUpdate(ctx context.Context, creationID string, req *dto.AdminUpdateBookingRequest) (*dto.AdminBookingResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}

	if req.StatusCode != nil {
		if !model.IsValidStatus(*req.StatusCode) {
			return nil, ErrInvalidStatus
		}
		booking.StatusCode = *req.StatusCode
	}
	if req.InternalNote != nil {
		booking.InternalNote = *req.InternalNote
	}
	if req.ShipDate != nil {
		d, err := parseOptionalDate(*req.ShipDate)
		if err != nil {
			return nil, err
		}
		booking.ShipDate = d
	}
	if req.PaymentReceivedDate != nil {
		d, err := parseOptionalDate(*req.PaymentReceivedDate)
		if err != nil {
			return nil, err
		}
		booking.PaymentReceivedDate = d
	}

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	return s.buildAdminResponse(ctx, booking)
}

// Confirm 管理端确认订单（submitted → approved）
func (s *BookingService) Confirm(ctx context.Context, creationID string) (*dto.AdminBookingResponse, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	if booking.StatusCode != model.StatusSubmitted {
		return nil, ErrNotConfirmable
	}
	booking.StatusCode = model.StatusApproved
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info("订单已确认", zap.String("creation_id", creationID))
	return s.buildAdminResponse(ctx, booking)
}

// Delete 管理端物理删除订单（客户端只做状态流转）
func (s *BookingService) Delete(ctx context.Context, creationID string) error {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return err
	}
	if err := s.repo.Booking.Delete(ctx, booking.ID); err != nil {
		return err
	}
	s.logger.Warn("订单已删除",
		zap.String("creation_id", creationID),
		zap.String("status_code", booking.StatusCode))
	return nil
}

// ── 内部辅助 ──

// load 按 creationId 加载订单（含子对象）
func (s *BookingService) load(ctx context.Context, creationID string) (*model.Booking, error) {
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

// loadEditable 加载订单并校验客户端仍可修改
func (s *BookingService) loadEditable(ctx context.Context, creationID string) (*model.Booking, error) {
	booking, err := s.load(ctx, creationID)
	if err != nil {
		return nil, err
	}
	if booking.StatusCode != model.StatusUnsubmitted {
		return nil, ErrBookingLocked
	}
	return booking, nil
}

// buildResponse 组装订单完整视图（补全题包/练习材料引用）
func (s *BookingService) buildResponse(ctx context.Context, b *model.Booking) (*dto.BookingResponse, error) {
	// 汇总需要查询的题包 id：联盟分配、比赛分配、练习题包
	var packetIDs []int64
	if b.Conference != nil {
		packetIDs = append(packetIDs, b.Conference.AssignedPacketIDs...)
	}
	for i := range b.NonConferenceGames {
		if pid := b.NonConferenceGames[i].AssignedPacketID; pid != nil {
			packetIDs = append(packetIDs, *pid)
		}
	}
	packetIDs = append(packetIDs, b.PracticePacketIDs...)

	packets, err := s.repo.Packet.ListByIDs(ctx, dedupeIDs(packetIDs))
	if err != nil {
		return nil, err
	}
	packetByID := make(map[int64]*model.Packet, len(packets))
	for i := range packets {
		packetByID[packets[i].ID] = &packets[i]
	}

	series, err := s.repo.StateSeries.ListByIDs(ctx, b.StateSeriesIDs)
	if err != nil {
		return nil, err
	}
	compilations, err := s.repo.Compilation.ListByIDs(ctx, b.PracticeCompilationIDs)
	if err != nil {
		return nil, err
	}

	resp := &dto.BookingResponse{
		CreationID:           b.CreationID,
		StatusCode:           b.StatusCode,
		Name:                 b.Name,
		EmailAddress:         b.EmailAddress,
		Authority:            b.Authority,
		ExternalNote:         b.ExternalNote,
		RequestsW9:           b.RequestsW9,
		CurrentStep:          b.CurrentStep,
		NonConferenceGames:   []dto.GameResponse{},
		StateSeries:          []dto.StateSeriesResponse{},
		PracticePackets:      []dto.PacketResponse{},
		PracticeCompilations: []dto.CompilationResponse{},
		InvoiceLines:         []dto.InvoiceLineResponse{},
		CreatedAt:            b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            b.UpdatedAt.Format(time.RFC3339),
	}
	if b.ShipDate != nil {
		resp.ShipDate = b.ShipDate.Format("2006-01-02")
	}
	if b.School != nil {
		sc := toSchoolResponse(b.School)
		resp.School = &sc
	}
	if b.Conference != nil {
		conf := &dto.ConferenceResponse{
			ID:               b.Conference.ID,
			Name:             b.Conference.Name,
			PacketsRequested: b.Conference.PacketsRequested,
			SchoolIDs:        b.Conference.SchoolIDs,
			AssignedPackets:  []dto.PacketResponse{},
		}
		for _, pid := range b.Conference.AssignedPacketIDs {
			if p, ok := packetByID[pid]; ok {
				conf.AssignedPackets = append(conf.AssignedPackets, toPacketResponse(p))
			}
		}
		resp.Conference = conf
	}
	for i := range b.NonConferenceGames {
		g := &b.NonConferenceGames[i]
		gr := dto.GameResponse{ID: g.ID, SchoolIDs: g.SchoolIDs}
		if g.AssignedPacketID != nil {
			if p, ok := packetByID[*g.AssignedPacketID]; ok {
				pr := toPacketResponse(p)
				gr.AssignedPacket = &pr
			}
		}
		resp.NonConferenceGames = append(resp.NonConferenceGames, gr)
	}
	for i := range series {
		resp.StateSeries = append(resp.StateSeries, toStateSeriesResponse(&series[i]))
	}
	for _, pid := range b.PracticePacketIDs {
		if p, ok := packetByID[pid]; ok {
			resp.PracticePackets = append(resp.PracticePackets, toPacketResponse(p))
		}
	}
	for i := range compilations {
		resp.PracticeCompilations = append(resp.PracticeCompilations, toCompilationResponse(&compilations[i]))
	}
	for i := range b.InvoiceLines {
		resp.InvoiceLines = append(resp.InvoiceLines, toInvoiceLineResponse(&b.InvoiceLines[i]))
	}
	return resp, nil
}

func (s *BookingService) buildAdminResponse(ctx context.Context, b *model.Booking) (*dto.AdminBookingResponse, error) {
	base, err := s.buildResponse(ctx, b)
	if err != nil {
		return nil, err
	}
	resp := &dto.AdminBookingResponse{
		BookingResponse: *base,
		ID:              b.ID,
		InternalNote:    b.InternalNote,
	}
	if b.PaymentReceivedDate != nil {
		resp.PaymentReceivedDate = b.PaymentReceivedDate.Format("2006-01-02")
	}
	return resp, nil
}

func toInvoiceLineResponse(l *model.InvoiceLine) dto.InvoiceLineResponse {
	return dto.InvoiceLineResponse{
		ID:       l.ID,
		Type:     l.Type,
		Label:    l.Label,
		Quantity: l.Quantity,
		UnitCost: l.UnitCost,
		Total:    float64(l.Quantity) * l.UnitCost,
	}
}

// parseOptionalDate 解析日期字段：空串表示清除
func parseOptionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

// dedupeIDs 去重并保持首次出现顺序
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// [自证通过] internal/service/booking_service.go
