package dto

// ── 题包可用性模块 DTO ──

// PotentialAssignment 一条题包需求的试探性分配结果
//
// packetId 为空且 isMissingPacketAssignment 为 true 表示该需求无可用题包。
type PotentialAssignment struct {
	DemandKey                 string `json:"demandKey"`
	Description               string `json:"description"`
	PacketID                  *int64 `json:"packetId"`
	IsMissingPacketAssignment bool   `json:"isMissingPacketAssignment"`
}

// AssignPacketsRequest 确认题包分配请求（回传可用性检查的结果）
type AssignPacketsRequest struct {
	Assignments []PotentialAssignment `json:"assignments" binding:"required,min=1,dive"`
}

// AvailabilityResponse 可用性检查响应
type AvailabilityResponse struct {
	Assignments []PotentialAssignment `json:"assignments"`
	// AllSatisfiable 所有需求均有题包可分配
	AllSatisfiable bool `json:"allSatisfiable"`
}

// StepStatusResponse 订单步骤状态响应
type StepStatusResponse struct {
	CurrentStep          int            `json:"currentStep"`
	HighestCompletedStep int            `json:"highestCompletedStep"`
	Steps                []StepResponse `json:"steps"`
}

// StepResponse 单个步骤
type StepResponse struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// ── 曝光模块 DTO ──

// ExposureResponse 一条题包曝光记录
type ExposureResponse struct {
	ExposedSchoolID   int64  `json:"exposedSchoolId"`
	PacketID          int64  `json:"packetId"`
	Source            string `json:"source"`
	SourceID          int64  `json:"sourceId"`
	SourceName        string `json:"sourceName,omitempty"`
	OrdererSchoolID   int64  `json:"ordererSchoolId"`
	BookingCreationID string `json:"bookingCreationId"`
	// TentativePacketExposure 来源订单尚未提交
	TentativePacketExposure bool `json:"tentativePacketExposure"`
}

// DoubleBookingResponse 一条重复预订冲突
type DoubleBookingResponse struct {
	SchoolID                     int64  `json:"schoolId"`
	PacketID                     int64  `json:"packetId"`
	ConflictingBookingCreationID string `json:"conflictingBookingCreationId"`
}

// [自证通过] internal/dto/availability.go
