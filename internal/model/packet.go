package model

// Packet 题包表 — 对应 packets
// 题包是竞赛用途下的有限、不可再生资源：一旦某学校在竞赛中听过，
// 就不能再以产生冲突的方式曝光给无关学校（见 exposure.go）。
// 练习用途无曝光排他约束。
type Packet struct {
	ID                      int64   `gorm:"primaryKey;autoIncrement"            json:"id"`
	YearCode                string  `gorm:"type:varchar(10);not null;index"     json:"year_code"`
	Number                  int     `gorm:"not null"                            json:"number"` // 年内唯一序号
	Name                    string  `gorm:"type:varchar(100);not null"          json:"name"`
	AvailableForCompetition bool    `gorm:"not null;default:true"               json:"available_for_competition"`
	AvailableForPractice    bool    `gorm:"not null;default:false"              json:"available_for_practice"`
	PriceAsPracticeMaterial float64 `gorm:"type:numeric(8,2);not null;default:0" json:"price_as_practice_material"`
	BaseModel

	// 关联
	Year *Year `gorm:"foreignKey:YearCode;references:Code" json:"year,omitempty"`
}

func (Packet) TableName() string { return "packets" }

// StateSeries 州系列赛往年题目 — 对应 state_series（练习材料目录）
type StateSeries struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name        string  `gorm:"type:varchar(200);not null"           json:"name"`
	Description string  `gorm:"type:varchar(500)"                    json:"description"`
	Price       float64 `gorm:"type:numeric(8,2);not null;default:0" json:"price"`
	Available   bool    `gorm:"not null;default:true"                json:"available"`
	BaseModel
}

func (StateSeries) TableName() string { return "state_series" }

// Compilation 题目合集 — 对应 compilations（练习材料目录）
type Compilation struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name        string  `gorm:"type:varchar(200);not null"           json:"name"`
	Description string  `gorm:"type:varchar(500)"                    json:"description"`
	Price       float64 `gorm:"type:numeric(8,2);not null;default:0" json:"price"`
	Available   bool    `gorm:"not null;default:true"                json:"available"`
	BaseModel
}

func (Compilation) TableName() string { return "compilations" }

// [自证通过] internal/model/packet.go
