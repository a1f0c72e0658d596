package dto

// ── 订单模块请求 DTO ──

// UpsertBasicsRequest 创建/更新订单基础信息请求
//
// creationId 由客户端生成（UUID），同一 creationId 重复提交视为更新。
type UpsertBasicsRequest struct {
	SchoolID     int64  `json:"schoolId"     binding:"required,min=1"`
	Name         string `json:"name"         binding:"required,min=1,max=200"`
	EmailAddress string `json:"emailAddress" binding:"required,email"`
	Authority    string `json:"authority"    binding:"required,oneof=coach coachKnows coachDoesntKnow"`
}

// ConferenceRequest 联盟信息整体替换请求
type ConferenceRequest struct {
	Name             string  `json:"name"             binding:"required,min=1,max=200"`
	PacketsRequested int     `json:"packetsRequested" binding:"required,min=1"`
	SchoolIDs        []int64 `json:"schoolIds"        binding:"required,min=1"`
}

// GameRequest 单场非联盟比赛
type GameRequest struct {
	SchoolIDs []int64 `json:"schoolIds" binding:"required,min=2"`
}

// AddGamesRequest 批量添加非联盟比赛请求
type AddGamesRequest struct {
	Games []GameRequest `json:"games" binding:"required,min=1,dive"`
}

// IDListRequest 练习材料选择整体替换请求（州系列、练习题包、合集通用）
type IDListRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// SubmitRequest 提交订单请求
type SubmitRequest struct {
	ExternalNote string `json:"externalNote" binding:"max=2000"`
	RequestsW9   bool   `json:"requestsW9"`
}

// GoToStepRequest 跳转步骤请求
type GoToStepRequest struct {
	Step int `json:"step" binding:"required,min=1,max=6"`
}

// ── 管理端请求 DTO ──

// AdminUpdateBookingRequest 管理端更新订单请求（仅更新给定字段）
type AdminUpdateBookingRequest struct {
	StatusCode          *string `json:"statusCode"          binding:"omitempty,oneof=unsubmitted submitted approved shipped abandoned canceled rejected"`
	InternalNote        *string `json:"internalNote"        binding:"omitempty,max=5000"`
	ShipDate            *string `json:"shipDate"`            // "2026-09-01"，空串表示清除
	PaymentReceivedDate *string `json:"paymentReceivedDate"` // 同上
}

// AddInvoiceLineRequest 管理端追加账单明细请求
type AddInvoiceLineRequest struct {
	Label    string  `json:"label"    binding:"required,min=1,max=500"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	UnitCost float64 `json:"unitCost" binding:"required"`
}

// [自证通过] internal/dto/booking.go
