package model

import "time"

// ── 订单状态 ──

const (
	StatusUnsubmitted = "unsubmitted"
	StatusSubmitted   = "submitted"
	StatusApproved    = "approved"
	StatusShipped     = "shipped"
	StatusAbandoned   = "abandoned"
	StatusCanceled    = "canceled"
	StatusRejected    = "rejected"
)

// AllStatuses 全部合法状态码
var AllStatuses = []string{
	StatusUnsubmitted, StatusSubmitted, StatusApproved, StatusShipped,
	StatusAbandoned, StatusCanceled, StatusRejected,
}

// LiveStatuses 计入曝光集合的状态：已放弃/取消/拒绝的订单不再占用题包
var LiveStatuses = []string{StatusUnsubmitted, StatusSubmitted, StatusApproved, StatusShipped}

// IsValidStatus 判断状态码是否合法
func IsValidStatus(code string) bool {
	for _, s := range AllStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// ── 下单人身份 ──

const (
	AuthorityCoach           = "coach"           // 下单人就是教练
	AuthorityCoachKnows      = "coachKnows"      // 教练知情
	AuthorityCoachDoesntKnow = "coachDoesntKnow" // 教练不知情
)

// IsValidAuthority 判断身份枚举是否合法
func IsValidAuthority(a string) bool {
	return a == AuthorityCoach || a == AuthorityCoachKnows || a == AuthorityCoachDoesntKnow
}

// Booking 订单聚合根 — 对应 bookings
//
// creation_id 由客户端在向导首步生成（URL 在刷新后保持稳定），
// 是贯穿外部接口的稳定标识；id 是服务端内部自增主键。
// 练习材料选择（州系列/题包/合集）采用 BIGINT[] 整体替换存储：
// 三个空集合表示"不订购练习材料"，而非字段缺省。
type Booking struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	CreationID          string     `gorm:"type:uuid;not null;uniqueIndex"            json:"creation_id"`
	StatusCode          string     `gorm:"type:varchar(20);not null;default:'unsubmitted'" json:"status_code"`
	SchoolID            int64      `gorm:"not null;index"                            json:"school_id"`
	Name                string     `gorm:"type:varchar(200);not null"                json:"name"`
	EmailAddress        string     `gorm:"type:varchar(200);not null"                json:"email_address"`
	Authority           string     `gorm:"type:varchar(20);not null"                 json:"authority"`
	ExternalNote        string     `gorm:"type:text"                                 json:"external_note"`
	InternalNote        string     `gorm:"type:text"                                 json:"internal_note"`
	RequestsW9          bool       `gorm:"not null;default:false"                    json:"requests_w9"`
	ShipDate            *time.Time `gorm:"type:date"                                 json:"ship_date,omitempty"`
	PaymentReceivedDate *time.Time `gorm:"type:date"                                 json:"payment_received_date,omitempty"`
	CurrentStep         int        `gorm:"type:smallint;not null;default:0"          json:"current_step"`

	// 练习材料选择（整体替换）
	StateSeriesIDs         Int64Array `gorm:"type:bigint[]" json:"state_series_ids"`
	PracticePacketIDs      Int64Array `gorm:"type:bigint[]" json:"practice_packet_ids"`
	PracticeCompilationIDs Int64Array `gorm:"type:bigint[]" json:"practice_compilation_ids"`

	BaseModel

	// 关联
	School             *School             `gorm:"foreignKey:SchoolID"  json:"school,omitempty"`
	Conference         *Conference         `gorm:"foreignKey:BookingID" json:"conference,omitempty"`
	NonConferenceGames []NonConferenceGame `gorm:"foreignKey:BookingID" json:"non_conference_games,omitempty"`
	InvoiceLines       []InvoiceLine       `gorm:"foreignKey:BookingID" json:"invoice_lines,omitempty"`
}

func (Booking) TableName() string { return "bookings" }

// HasPacketAssignments 判断订单是否已有任何题包分配
func (b *Booking) HasPacketAssignments() bool {
	if b.Conference != nil && len(b.Conference.AssignedPacketIDs) > 0 {
		return true
	}
	for i := range b.NonConferenceGames {
		if b.NonConferenceGames[i].AssignedPacketID != nil {
			return true
		}
	}
	return false
}

// HasPracticeSelections 判断订单是否选择了练习材料
func (b *Booking) HasPracticeSelections() bool {
	return len(b.StateSeriesIDs) > 0 || len(b.PracticePacketIDs) > 0 || len(b.PracticeCompilationIDs) > 0
}

// Conference 联盟子对象 — 对应 conferences（与订单 1:1）
//
// school_ids 含下单学校自身且无重复；整体替换，无字段级局部更新。
// assigned_packet_ids 理想情况下与 packets_requested 等长，不做硬校验
// （不一致时展示层给出警告）。
type Conference struct {
	ID                int64      `gorm:"primaryKey;autoIncrement"       json:"id"`
	BookingID         int64      `gorm:"not null;uniqueIndex"           json:"booking_id"`
	Name              string     `gorm:"type:varchar(200);not null"     json:"name"`
	PacketsRequested  int        `gorm:"not null"                       json:"packets_requested"`
	SchoolIDs         Int64Array `gorm:"type:bigint[];not null"         json:"school_ids"`
	AssignedPacketIDs Int64Array `gorm:"type:bigint[]"                  json:"assigned_packet_ids"`
	BaseModel
}

func (Conference) TableName() string { return "conferences" }

// NonConferenceGame 非联盟比赛 — 对应 non_conference_games
// 恰好 2 所必选学校加 0-1 所旁听学校，两两互异；至多分配 1 个题包。
type NonConferenceGame struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID        int64      `gorm:"not null;index"           json:"booking_id"`
	SchoolIDs        Int64Array `gorm:"type:bigint[];not null"   json:"school_ids"`
	AssignedPacketID *int64     `json:"assigned_packet_id,omitempty"`
	BaseModel
}

func (NonConferenceGame) TableName() string { return "non_conference_games" }

// ── 发票行类型 ──

const (
	InvoiceLineConference          = "conference"
	InvoiceLineNonConferenceGame   = "nonConferenceGame"
	InvoiceLineStateSeries         = "stateSeries"
	InvoiceLinePracticePacket      = "practicePacket"
	InvoiceLinePracticeCompilation = "practiceCompilation"
	InvoiceLineOther               = "other" // 管理员手工行
)

// InvoiceLine 发票行 — 对应 invoice_lines
// "重算发票"会整体删除并重建所有行（含手工行），这是有意的破坏性替换操作。
type InvoiceLine struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"    json:"id"`
	BookingID int64   `gorm:"not null;index"              json:"booking_id"`
	Type      string  `gorm:"type:varchar(30);not null"   json:"type"`
	RefID     *int64  `json:"ref_id,omitempty"` // 指向题包/州系列/合集等来源记录
	Label     string  `gorm:"type:varchar(300);not null"  json:"label"`
	Quantity  int     `gorm:"not null;default:1"          json:"quantity"`
	UnitCost  float64 `gorm:"type:numeric(8,2);not null"  json:"unit_cost"`
	BaseModel
}

func (InvoiceLine) TableName() string { return "invoice_lines" }

// [自证通过] internal/model/booking.go
