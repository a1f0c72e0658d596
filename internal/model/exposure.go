package model

import "fmt"

// ── 曝光模型（纯函数，无副作用）──
//
// "曝光"指某学校已经（或将要）听到某个题包，由联盟的 assigned_packet_ids
// 与非联盟比赛的 assigned_packet_id 推导而来，不独立创建。
// 核心不变量：对同一 (学校, 题包) 组合，来自不同、无关下单学校的曝光
// 至多允许存在一条 —— 即"重复预订"检测要防止的情形。

// 曝光来源类型
const (
	ExposureSourceConference        = "conference"
	ExposureSourceNonConferenceGame = "nonConferenceGame"
)

// Exposure 一条曝光记录（派生读模型，无对应表）
type Exposure struct {
	ExposedSchoolID   int64  `json:"exposed_school_id"`
	PacketID          int64  `json:"packet_id"`
	Source            string `json:"source"`    // conference | nonConferenceGame
	SourceID          int64  `json:"source_id"` // 联盟 ID 或比赛 ID
	SourceName        string `json:"source_name,omitempty"`
	OrdererSchoolID   int64  `json:"orderer_school_id"`
	BookingID         int64  `json:"-"`
	BookingCreationID string `json:"booking_creation_id"`
	// 未提交订单产生的曝光视为暂定
	Tentative bool `json:"tentative"`
}

// Conflict 一条冲突：候选曝光与既有曝光在 (学校, 题包) 上碰撞，
// 且二者来自不同订单。
type Conflict struct {
	SchoolID                     int64  `json:"school_id"`
	PacketID                     int64  `json:"packet_id"`
	ConflictingBookingID         int64  `json:"-"`
	ConflictingBookingCreationID string `json:"conflicting_booking_creation_id"`
}

// DeriveExposures 从订单的联盟与非联盟比赛分配推导曝光列表。
// 纯函数：每个 (学校, 题包) 配对产出一条记录。
func DeriveExposures(b *Booking) []Exposure {
	if b == nil {
		return nil
	}

	tentative := b.StatusCode == StatusUnsubmitted
	var exposures []Exposure

	if b.Conference != nil {
		for _, packetID := range b.Conference.AssignedPacketIDs {
			for _, schoolID := range b.Conference.SchoolIDs {
				exposures = append(exposures, Exposure{
					ExposedSchoolID:   schoolID,
					PacketID:          packetID,
					Source:            ExposureSourceConference,
					SourceID:          b.Conference.ID,
					SourceName:        b.Conference.Name,
					OrdererSchoolID:   b.SchoolID,
					BookingID:         b.ID,
					BookingCreationID: b.CreationID,
					Tentative:         tentative,
				})
			}
		}
	}

	for i := range b.NonConferenceGames {
		game := &b.NonConferenceGames[i]
		if game.AssignedPacketID == nil {
			continue
		}
		for _, schoolID := range game.SchoolIDs {
			exposures = append(exposures, Exposure{
				ExposedSchoolID:   schoolID,
				PacketID:          *game.AssignedPacketID,
				Source:            ExposureSourceNonConferenceGame,
				SourceID:          game.ID,
				SourceName:        fmt.Sprintf("non-conference game %d", game.ID),
				OrdererSchoolID:   b.SchoolID,
				BookingID:         b.ID,
				BookingCreationID: b.CreationID,
				Tentative:         tentative,
			})
		}
	}

	return exposures
}

// FindConflicts 在候选曝光与既有曝光（须已排除本订单自身）之间查找
// (学校, 题包) 碰撞。纯函数；同一冲突只报告一次。
func FindConflicts(candidates, existing []Exposure) []Conflict {
	index := make(map[[2]int64]*Exposure, len(existing))
	for i := range existing {
		key := [2]int64{existing[i].ExposedSchoolID, existing[i].PacketID}
		if _, ok := index[key]; !ok {
			index[key] = &existing[i]
		}
	}

	seen := make(map[[2]int64]bool)
	var conflicts []Conflict
	for i := range candidates {
		c := &candidates[i]
		key := [2]int64{c.ExposedSchoolID, c.PacketID}
		other, ok := index[key]
		if !ok || other.BookingID == c.BookingID {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		conflicts = append(conflicts, Conflict{
			SchoolID:                     c.ExposedSchoolID,
			PacketID:                     c.PacketID,
			ConflictingBookingID:         other.BookingID,
			ConflictingBookingCreationID: other.BookingCreationID,
		})
	}

	return conflicts
}

// [自证通过] internal/model/exposure.go
